package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docugen/internal"

	"github.com/fsnotify/fsnotify"
)

// Handler is invoked with the path of a roster file once it has settled
type Handler func(ctx context.Context, path string)

// RosterWatcher watches a drop directory for roster files and invokes the
// handler after writes have settled. Rapid saves of the same file are
// debounced into a single invocation.
type RosterWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	handler     Handler
	logger      *internal.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	processed   int
}

// NewRosterWatcher creates a watcher for the given drop directory
func NewRosterWatcher(dir string, handler Handler) (*RosterWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &RosterWatcher{
		watcher:     watcher,
		dir:         dir,
		handler:     handler,
		logger:      internal.NewComponentLogger("RosterWatcher"),
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching the drop directory. Non-blocking; the event loop
// runs in its own goroutine until Stop or context cancellation.
func (w *RosterWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("Watching %s for roster files", w.dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain
func (w *RosterWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("Error closing watcher: %v", err)
	}
	w.logger.Info("Stopped")
}

// Processed reports how many roster files have been handed to the handler
func (w *RosterWatcher) Processed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.processed
}

func (w *RosterWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	debounceTicker := time.NewTicker(100 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watch error: %v", err)

		case <-debounceTicker.C:
			w.processSettled(ctx)
		}
	}
}

// handleEvent records create/write events for roster files and drops
// entries for files that went away before settling
func (w *RosterWatcher) handleEvent(event fsnotify.Event) {
	if !isRosterFile(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0:
		w.logger.Debug("Event %s on %s", event.Op, event.Name)
		w.debounceMap[event.Name] = time.Now()
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		delete(w.debounceMap, event.Name)
	}
}

// processSettled hands files whose last event is older than the debounce
// window to the handler
func (w *RosterWatcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var toProcess []string
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			toProcess = append(toProcess, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range toProcess {
		if _, err := os.Stat(path); err != nil {
			w.logger.Warn("Skipping %s: %v", path, err)
			continue
		}
		w.logger.Info("Roster settled: %s", path)
		w.handler(ctx, path)

		w.mu.Lock()
		w.processed++
		w.mu.Unlock()
	}
}

func isRosterFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}
