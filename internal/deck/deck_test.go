// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	assert.Equal(t, "\n", Frame(""))
	assert.Equal(t, "Q\tA\n\n", Frame("Q\tA"))
	assert.Equal(t, "Q1\tA1\nQ2\tA2\n\n", Frame("Q1\tA1\nQ2\tA2"))
}

func TestWriteAppendAndTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anki.txt")

	require.NoError(t, Write(path, "Q1\tA1", false))
	require.NoError(t, Write(path, "Q2\tA2", false))
	assert.Equal(t, "Q1\tA1\n\nQ2\tA2\n\n", readFile(t, path))

	require.NoError(t, Write(path, "Q3\tA3", true))
	assert.Equal(t, "Q3\tA3\n\n", readFile(t, path))
}

func TestWriteTruncatesWithEmptyBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anki.txt")
	require.NoError(t, os.WriteFile(path, []byte("stale\tcontent\n"), 0o644))

	require.NoError(t, Write(path, "", true))
	assert.Equal(t, "\n", readFile(t, path))
}

func TestWriteCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks", "nested", "anki.txt")
	require.NoError(t, Write(path, "Q\tA", false))
	assert.Equal(t, "Q\tA\n\n", readFile(t, path))
}

func TestWriteUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of the output file cannot be opened for writing.
	err := Write(dir, "Q\tA", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening output")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
