// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs rootCmd with args and returns what it wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "notes-to-anki dev\n", out)
}

func TestSanitizeCommandStdin(t *testing.T) {
	raw := "```\nWhat is BFS?  Breadth-first search\n\nnoise\nKey: Value\n```\n"
	out, stderr, err := execute(t, raw, "sanitize")
	require.NoError(t, err)
	assert.Equal(t, "What is BFS?\tBreadth-first search\nKey\tValue\n", out)
	assert.Contains(t, stderr, "rejected: noise")
}

func TestSanitizeCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	require.NoError(t, os.WriteFile(path, []byte("A\tB\n"), 0o644))

	out, _, err := execute(t, "", "sanitize", path)
	require.NoError(t, err)
	assert.Equal(t, "A\tB\n", out)
}

func TestSanitizeCommandMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "sanitize", filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "reading model output")
}

func TestGenerateSingleNote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Q1: A1\nQ2\tA2"}}]}`)
	}))
	defer ts.Close()

	dir := t.TempDir()
	note := filepath.Join(dir, "graphs.md")
	require.NoError(t, os.WriteFile(note, []byte("# Graphs\nBFS visits by layer."), 0o644))
	deck := filepath.Join(dir, "anki.txt")
	require.NoError(t, os.WriteFile(deck, []byte("stale\tcard\n\n"), 0o644))

	out, _, err := execute(t, "",
		"--note", note,
		"--output", deck,
		"--overwrite",
		"--api-key", "sk-test",
		"--base-url", ts.URL,
		"--cache-size", "0",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Processing: "+note)
	assert.Contains(t, out, "Flashcards written to "+deck)

	data, err := os.ReadFile(deck)
	require.NoError(t, err)
	assert.Equal(t, "Q1\tA1\nQ2\tA2\n\n", string(data))
}
