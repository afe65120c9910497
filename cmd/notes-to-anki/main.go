// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notes-to-anki CLI.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notes-to-anki/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd generates cards; subcommands cover watch mode and offline tools.
var rootCmd = &cobra.Command{
	Use:   "notes-to-anki",
	Short: "Obsidian-to-Anki flashcard generator",
	Long: `notes-to-anki turns Markdown notes into Anki flashcards. Each note is sent
to a Generative AI backend, the reply is normalized into tab-separated
question/answer records, and the records are written to one deck file
that Anki can import.

Pass --note for a single file or --dir to walk a folder of notes. Output is
appended to the deck unless --overwrite is given, in which case the deck is
truncated once before the first note of the run is written.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runGenerate,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./notes-to-anki.yaml or ~/.config/notes-to-anki/notes-to-anki.yaml)")
	pf.BoolP("verbose", "v", false, "log debug diagnostics to stderr")
	pf.String("secrets-dir", ".secrets", "directory of API key files")

	pf.String("output", "anki.txt", "path to output .txt file")
	pf.String("backend", "openai", "AI backend: openai, anthropic, or gemini")
	pf.String("model", "", "AI model identifier (default depends on backend)")
	pf.String("api-key", "", "API key for the backend (default from .secrets/ or environment)")
	pf.String("base-url", "", "override the backend API endpoint")
	pf.Int("max-retries", 3, "retry attempts for failed API calls")
	pf.Int("cache-size", 256, "responses cached in memory by note content (0 disables)")
	pf.Duration("timeout", 0, "HTTP request timeout (0 means none)")
	pf.String("ext", ".md", "note file extension")
	pf.StringArray("exclude", nil, "glob of notes to skip, relative to --dir (repeatable, ** supported)")

	bindFlags(pf, map[string]string{
		"pipeline.output":        "output",
		"pipeline.extension":     "ext",
		"pipeline.exclude":       "exclude",
		"generation.backend":     "backend",
		"generation.model":       "model",
		"generation.api_key":     "api-key",
		"generation.base_url":    "base-url",
		"generation.max_retries": "max-retries",
		"generation.cache_size":  "cache-size",
		"generation.timeout":     "timeout",
	})
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notes-to-anki")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notes-to-anki"))
		}
	}

	viper.SetEnvPrefix("NOTES_TO_ANKI")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Info("using config file", "path", viper.ConfigFileUsed())
	}
}

// setup configures logging and loads .env and .secrets/ before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	dir, _ := cmd.Flags().GetString("secrets-dir")
	s, err := secrets.Load(dir)
	if err != nil {
		return err
	}
	loadedSecrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		slog.Debug("loaded secrets", "keys", keys)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
