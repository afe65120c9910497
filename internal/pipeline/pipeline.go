// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline walks note files, generates a card block for each, and
// writes the blocks to a single deck file.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pdiddy/notes-to-anki/internal/deck"
	"github.com/pdiddy/notes-to-anki/pkg/types"
)

const defaultExtension = ".md"

// Generator produces a sanitized card block from note content.
type Generator interface {
	Generate(ctx context.Context, content string) (string, error)
}

// Status is the outcome of one file in a run.
type Status string

const (
	StatusWritten Status = "written"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// FileResult records what happened to one note.
type FileResult struct {
	Path   string
	Status Status
	Cards  int
	Err    error
}

// FileError ties a failure to the note that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// Pipeline processes notes into a deck.
type Pipeline struct {
	gen      Generator
	ext      string
	exclude  []string
	onError  types.FailurePolicy
	progress io.Writer
}

// New builds a Pipeline from cfg. Progress lines go to w; a nil w discards them.
func New(gen Generator, cfg types.PipelineConfig, w io.Writer) (*Pipeline, error) {
	policy, err := types.ParseFailurePolicy(string(cfg.OnError))
	if err != nil {
		return nil, err
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	ext := cfg.Extension
	if ext == "" {
		ext = defaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if w == nil {
		w = io.Discard
	}
	return &Pipeline{
		gen:      gen,
		ext:      ext,
		exclude:  cfg.Exclude,
		onError:  policy,
		progress: w,
	}, nil
}

// IsNote reports whether path has the note extension.
func (p *Pipeline) IsNote(path string) bool {
	return strings.HasSuffix(path, p.ext)
}

// Excluded reports whether rel, a path relative to the walked root, matches
// an exclude pattern.
func (p *Pipeline) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ProcessFile generates cards for one note and writes them to outputPath,
// truncating it first iff overwrite is true. Files without the note
// extension are skipped without being read. Nothing is written when reading
// or generation fails.
func (p *Pipeline) ProcessFile(ctx context.Context, path, outputPath string, overwrite bool) (FileResult, error) {
	if !p.IsNote(path) {
		return FileResult{Path: path, Status: StatusSkipped}, nil
	}

	fmt.Fprintf(p.progress, "Processing: %s\n", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return p.fail(path, fmt.Errorf("reading note: %w", err))
	}

	block, err := p.gen.Generate(ctx, string(content))
	if err != nil {
		return p.fail(path, err)
	}

	if err := deck.Write(outputPath, block, overwrite); err != nil {
		return p.fail(path, err)
	}

	return FileResult{Path: path, Status: StatusWritten, Cards: countCards(block)}, nil
}

func (p *Pipeline) fail(path string, err error) (FileResult, error) {
	fileErr := &FileError{Path: path, Err: err}
	fmt.Fprintf(p.progress, "failed  %s: %v\n", path, err)
	return FileResult{Path: path, Status: StatusFailed, Err: fileErr}, fileErr
}

// ProcessDirectory processes every note under root in lexical walk order.
// The output is truncated at most once per run: overwrite applies to the
// first note written, and every later note is appended. Under FailAbort the
// first failure stops the walk and is returned along with the partial
// summary; under FailContinue failures are recorded and the walk goes on.
func (p *Pipeline) ProcessDirectory(ctx context.Context, root, outputPath string, overwrite bool) (RunSummary, error) {
	notes, err := p.collect(root, outputPath)
	if err != nil {
		return RunSummary{}, err
	}

	var summary RunSummary
	truncate := overwrite
	for _, path := range notes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := p.ProcessFile(ctx, path, outputPath, truncate)
		summary.Add(res)
		if err != nil {
			if p.onError == types.FailAbort {
				return summary, err
			}
			continue
		}
		truncate = false
	}

	fmt.Fprintf(p.progress, "\nRun summary: %d written, %d failed, %d cards (total: %d)\n",
		summary.Written, summary.Failed, summary.Cards, summary.Total())
	return summary, nil
}

// collect returns the note paths under root that are not excluded. Non-note
// files are never opened, and the deck at outputPath is never read back as a
// note.
func (p *Pipeline) collect(root, outputPath string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading notes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reading notes directory: %s is not a directory", root)
	}

	absOutput, _ := filepath.Abs(outputPath)
	var notes []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if rel != "." && p.Excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !p.IsNote(path) || p.Excluded(rel) {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absOutput {
			return nil
		}
		notes = append(notes, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return notes, nil
}

func countCards(block string) int {
	if block == "" {
		return 0
	}
	return strings.Count(block, "\n") + 1
}
