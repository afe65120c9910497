// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// RunSummary holds the per-file results of one run in processing order.
type RunSummary struct {
	Files   []FileResult
	Written int
	Failed  int
	Cards   int
}

// Add records one file result.
func (s *RunSummary) Add(r FileResult) {
	s.Files = append(s.Files, r)
	switch r.Status {
	case StatusWritten:
		s.Written++
		s.Cards += r.Cards
	case StatusFailed:
		s.Failed++
	}
}

// Total returns the number of notes attempted.
func (s RunSummary) Total() int {
	return s.Written + s.Failed
}

// HasFailures reports whether any note failed.
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}

// Errors returns the failure of each failed note, in order.
func (s RunSummary) Errors() []error {
	var errs []error
	for _, f := range s.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// report is the YAML form of a RunSummary.
type report struct {
	GeneratedAt string         `yaml:"generated_at"`
	Output      string         `yaml:"output"`
	Written     int            `yaml:"written"`
	Failed      int            `yaml:"failed"`
	Cards       int            `yaml:"cards"`
	Files       []reportedFile `yaml:"files"`
}

type reportedFile struct {
	Path   string `yaml:"path"`
	Status Status `yaml:"status"`
	Cards  int    `yaml:"cards"`
	Error  string `yaml:"error,omitempty"`
}

// WriteReport writes summary as YAML to path.
func WriteReport(path, outputPath string, summary RunSummary) error {
	r := report{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Output:      outputPath,
		Written:     summary.Written,
		Failed:      summary.Failed,
		Cards:       summary.Cards,
	}
	for _, f := range summary.Files {
		rf := reportedFile{Path: f.Path, Status: f.Status, Cards: f.Cards}
		if f.Err != nil {
			rf.Error = f.Err.Error()
		}
		r.Files = append(r.Files, rf)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
