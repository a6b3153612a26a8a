package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"careerpilot/internal/errors"
)

// Watcher watches the knowledge base directory and triggers a reindex when
// its JSON files change. Rapid bursts of events (editors write several
// times per save) collapse into one rebuild via a debounce timer.
type Watcher struct {
	mu sync.Mutex

	indexer       *Indexer
	dir           string
	debounceDelay time.Duration
	debounceTimer *time.Timer

	fsWatcher *fsnotify.Watcher
	rebuildCh chan struct{}
	stopCh    chan struct{}
	running   bool
	logger    *errors.Logger
}

// NewWatcher creates a watcher over the indexer's knowledge base directory
func NewWatcher(indexer *Indexer, debounceDelay time.Duration, logger *errors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = 2 * time.Second
	}
	return &Watcher{
		indexer:       indexer,
		dir:           indexer.cfg.KnowledgeBaseDir,
		debounceDelay: debounceDelay,
		rebuildCh:     make(chan struct{}, 1),
		stopCh:        make(chan struct{}),
		logger:        logger,
	}
}

// Start begins watching. Rebuilds run on a background goroutine until Stop
// is called or ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("knowledge base watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(w.dir); err != nil {
		fsWatcher.Close()
		return fmt.Errorf("failed to watch knowledge base directory %s: %w", w.dir, err)
	}

	w.fsWatcher = fsWatcher
	w.running = true
	go w.watchLoop(ctx)

	w.logger.Info("Knowledge base watcher started",
		"directory", w.dir,
		"debounce_delay", w.debounceDelay)

	return nil
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	close(w.stopCh)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	err := w.fsWatcher.Close()
	w.running = false

	w.logger.Info("Knowledge base watcher stopped")
	return err
}

// IsRunning reports whether the watcher is active
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if shouldReindex(event) {
				w.scheduleRebuild()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Knowledge base watcher error")

		case <-w.rebuildCh:
			w.logger.Info("Knowledge base changed, reindexing", "directory", w.dir)
			if err := w.indexer.Build(ctx); err != nil {
				// Keep serving the previous index on a failed rebuild
				w.logger.LogError(err, "Knowledge base reindex failed", "directory", w.dir)
			}

		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// shouldReindex reports whether an event concerns a knowledge base file
func shouldReindex(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".json" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

// scheduleRebuild resets the debounce timer
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.rebuildCh <- struct{}{}:
		default:
			// Rebuild already scheduled
		}
	})
}
