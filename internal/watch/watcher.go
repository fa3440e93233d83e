// Package watch re-runs the documentation pipeline when doc sources
// change. Every trigger runs the same full linear build; nothing is
// incremental.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docgen/internal/logfields"
)

// Rebuild runs one full build+publish pass.
type Rebuild func(ctx context.Context) error

// Watcher monitors source directories and triggers rebuilds with debounce.
type Watcher struct {
	watcher      *fsnotify.Watcher
	rebuild      Rebuild
	debounceTime time.Duration
}

// NewWatcher creates a watcher over the given directories. Directories that
// do not exist are skipped with a warning; at least one must be watchable.
func NewWatcher(dirs []string, rebuild Rebuild) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	watched := 0
	for _, dir := range dirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to resolve watch directory %s: %w", dir, err)
		}
		if _, err := os.Stat(absDir); err != nil {
			slog.Warn("Skipping missing watch directory", logfields.Path(absDir))
			continue
		}
		if err := watcher.Add(absDir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", absDir, err)
		}
		slog.Debug("Watching directory", logfields.Path(absDir))
		watched++
	}
	if watched == 0 {
		_ = watcher.Close()
		return nil, fmt.Errorf("no watchable directories")
	}

	return &Watcher{
		watcher:      watcher,
		rebuild:      rebuild,
		debounceTime: 2 * time.Second, // Debounce rapid file changes
	}, nil
}

// WithDebounce overrides the debounce window (used by tests).
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounceTime = d
	return w
}

// Run blocks, rebuilding after each burst of relevant changes, until the
// context is canceled. Rebuild failures are logged and watching continues;
// the next change gets another chance.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event) {
				continue
			}
			slog.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
			if debounce == nil {
				debounce = time.NewTimer(w.debounceTime)
				fire = debounce.C
			} else {
				if !debounce.Stop() {
					<-debounce.C
				}
				debounce.Reset(w.debounceTime)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-fire:
			debounce = nil
			fire = nil
			slog.Info("Rebuilding after source change")
			if err := w.rebuild(ctx); err != nil {
				slog.Error("Rebuild failed", logfields.Error(err))
			}
		}
	}
}

// relevantEvent reports whether an fsnotify event should trigger a rebuild.
func relevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return relevantFile(event.Name)
}

// relevantFile matches the file types feeding the pipeline: crate sources,
// manifests and the doc-home assets.
func relevantFile(name string) bool {
	switch filepath.Ext(name) {
	case ".rs", ".toml", ".md", ".css", ".svg":
		return true
	}
	return false
}
