// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch regenerates cards for notes as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/notes-to-anki/internal/pipeline"
)

const defaultDebounce = 500 * time.Millisecond

// Processor is the part of pipeline.Pipeline the watcher drives.
type Processor interface {
	IsNote(path string) bool
	Excluded(rel string) bool
	ProcessFile(ctx context.Context, path, outputPath string, overwrite bool) (pipeline.FileResult, error)
}

// Watcher appends cards for every note that is created or written under a
// root directory.
type Watcher struct {
	proc     Processor
	logger   *slog.Logger
	debounce time.Duration

	// OnReady, if set, is called once the initial watches are in place.
	OnReady func()
	// OnProcessed, if set, is called after each note is processed.
	OnProcessed func(pipeline.FileResult, error)
}

// New creates a Watcher. A nil logger uses slog.Default(); a non-positive
// debounce uses 500ms.
func New(proc Processor, logger *slog.Logger, debounce time.Duration) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &Watcher{proc: proc, logger: logger, debounce: debounce}
}

// Run watches root until ctx is cancelled. Notes are processed one at a time
// in append mode; a failed note is logged and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, root, outputPath string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addTree(fsw, root, root); err != nil {
		return err
	}

	absOutput, _ := filepath.Abs(outputPath)
	ready := make(chan string)
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := pending[path]; ok {
			t.Reset(w.debounce)
			return
		}
		pending[path] = time.AfterFunc(w.debounce, func() {
			mu.Lock()
			delete(pending, path)
			mu.Unlock()
			select {
			case ready <- path:
			case <-ctx.Done():
			}
		})
	}

	w.logger.Info("watching notes", "root", root, "output", outputPath)
	if w.OnReady != nil {
		w.OnReady()
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			for _, t := range pending {
				t.Stop()
			}
			mu.Unlock()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, root, absOutput, event, schedule)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)

		case path := <-ready:
			res, err := w.proc.ProcessFile(ctx, path, outputPath, false)
			if err != nil {
				w.logger.Error("processing note failed", "path", path, "error", err)
			}
			if w.OnProcessed != nil {
				w.OnProcessed(res, err)
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, root, absOutput string, event fsnotify.Event, schedule func(string)) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil || w.proc.Excluded(rel) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(fsw, root, event.Name); err != nil {
				w.logger.Error("watching new directory failed", "path", event.Name, "error", err)
			}
		}
		return
	}

	if !w.proc.IsNote(event.Name) {
		return
	}
	if abs, _ := filepath.Abs(event.Name); abs == absOutput {
		return
	}
	w.logger.Debug("note changed", "path", event.Name, "op", event.Op.String())
	schedule(event.Name)
}

// addTree adds dir and every non-excluded directory below it to fsw.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && w.proc.Excluded(rel) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
