// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deck writes sanitized card blocks to the output artifact.
package deck

import (
	"fmt"
	"os"
	"path/filepath"
)

// Frame returns the bytes written for one block: each record line ends with a
// newline and the block is followed by one blank line.
func Frame(block string) string {
	if block == "" {
		return "\n"
	}
	return block + "\n\n"
}

// Write appends the framed block to path, creating the file and its parent
// directories as needed. When truncate is true the file is emptied first.
func Write(path, block string, truncate bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening output %s: %w", path, err)
	}
	if _, err := f.WriteString(Frame(block)); err != nil {
		f.Close()
		return fmt.Errorf("writing output %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output %s: %w", path, err)
	}
	return nil
}
