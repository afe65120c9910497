// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notes-to-anki/internal/pipeline"
	"github.com/pdiddy/notes-to-anki/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Append cards for notes as they are created or edited",
	Long: `Watch monitors a folder of notes and, each time a note is created or
saved, generates cards for it and appends them to the deck. Failed notes
are logged and the watcher keeps running. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("dir", "", "path to folder of markdown notes")
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet period before a changed note is processed")
	_ = watchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	debounce, _ := cmd.Flags().GetDuration("debounce")

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

	w := watch.New(p, nil, debounce)
	w.OnProcessed = func(r pipeline.FileResult, err error) {
		if err == nil {
			reportProcessed(cmd.OutOrStdout(), r, cfg.Pipeline.Output)
		}
	}
	return w.Run(cmd.Context(), dir, cfg.Pipeline.Output)
}

func reportProcessed(w io.Writer, r pipeline.FileResult, output string) {
	fmt.Fprintf(w, "appended %d card(s) from %s to %s\n", r.Cards, r.Path, output)
}
