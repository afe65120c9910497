// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notes-to-anki/internal/pipeline"
)

func init() {
	f := rootCmd.Flags()
	f.String("dir", "", "path to folder of markdown notes")
	f.String("note", "", "path to a single markdown note")
	f.Bool("overwrite", false, "overwrite output file instead of appending")
	f.String("on-error", "abort", "what to do after a note fails: abort or continue")
	f.String("report", "", "write a YAML run summary to this path")

	rootCmd.MarkFlagsMutuallyExclusive("dir", "note")
	rootCmd.MarkFlagsOneRequired("dir", "note")

	bindFlags(f, map[string]string{"pipeline.on_error": "on-error"})
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	note, _ := cmd.Flags().GetString("note")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gen, err := newGenerator(cmd.Context(), cfg.Generation)
	if err != nil {
		return err
	}

	p, err := pipeline.New(gen, cfg.Pipeline, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	output := cfg.Pipeline.Output
	var summary pipeline.RunSummary
	if note != "" {
		res, ferr := p.ProcessFile(cmd.Context(), note, output, overwrite)
		summary.Add(res)
		err = ferr
	} else {
		summary, err = p.ProcessDirectory(cmd.Context(), dir, output, overwrite)
	}

	if reportPath != "" {
		if rerr := pipeline.WriteReport(reportPath, output, summary); rerr != nil && err == nil {
			err = rerr
		}
	}
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d of %d note(s) failed; cards from the rest were written to %s",
			summary.Failed, summary.Total(), output)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nFinished! Flashcards written to %s\n", output)
	return nil
}
