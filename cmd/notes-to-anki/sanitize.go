// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/notes-to-anki/internal/sanitize"
)

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize [file]",
	Short: "Normalize raw model output into tab-separated cards",
	Long: `Sanitize reads raw model output from a file, or stdin when no file is
given, and prints the accepted cards as front<TAB>back lines. Rejected
lines are reported on stderr. No API call is made.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSanitize,
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
}

func runSanitize(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("reading model output: %w", err)
	}

	res := sanitize.SanitizeWith(string(data), func(r sanitize.Rejection) {
		fmt.Fprintf(cmd.ErrOrStderr(), "rejected: %s\n", r.Line)
	})
	if block := res.Block(); block != "" {
		fmt.Fprintln(cmd.OutOrStdout(), block)
	}
	return nil
}
