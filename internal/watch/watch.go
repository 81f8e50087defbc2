// Package watch re-runs a callback when a watched file settles after
// changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before the
// callback fires. Editors save in bursts of write and rename events.
const DefaultDebounce = 500 * time.Millisecond

// Watcher invokes a callback when one file settles after changes.
//
// The parent directory is watched rather than the file itself, so
// atomic saves (write to a temp file, rename over the target) and
// remove-then-recreate editors keep working. The callback runs on the
// watcher goroutine. A stopped watcher cannot be restarted.
type Watcher struct {
	mu         sync.RWMutex
	fsw        *fsnotify.Watcher
	path       string // absolute path of the watched file
	onChange   func()
	debounce   time.Duration
	pending    time.Time
	hasPending bool
	stopCh     chan struct{}
	doneCh     chan struct{}
	running    bool
	log        *zap.Logger
	stats      Stats
}

// Stats counts watcher activity.
type Stats struct {
	// Events seen for the watched file
	Events int

	// Triggered counts callback runs
	Triggered int

	// Errors reported by the underlying watcher
	Errors int

	// LastEvent is when the file last changed
	LastEvent time.Time
}

// New creates a watcher for path. The callback runs after changes
// settle for the debounce window.
func New(path string, onChange func()) (*Watcher, error) {
	if onChange == nil {
		return nil, fmt.Errorf("onChange is nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		path:     abs,
		onChange: onChange,
		debounce: DefaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		log:      zap.NewNop(),
	}, nil
}

// SetDebounce overrides the settle window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// SetLogger attaches a logger. Call before Start.
func (w *Watcher) SetLogger(log *zap.Logger) {
	if log != nil {
		w.log = log
	}
}

// Start begins watching. Non-blocking; the watcher runs until Stop or
// the context ends.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	dir := filepath.Dir(w.path)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.running = true
	w.log.Info("watching", zap.String("path", w.path))

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	// The ticker drives debounce settling.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.fireSettled()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return // chmod only
	}
	w.log.Debug("file event",
		zap.String("op", event.Op.String()),
		zap.String("path", event.Name))

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEvent = time.Now()
	w.pending = time.Now()
	w.hasPending = true
	w.mu.Unlock()
}

func (w *Watcher) fireSettled() {
	w.mu.Lock()
	fire := w.hasPending && time.Since(w.pending) >= w.debounce
	if fire {
		w.hasPending = false
	}
	w.mu.Unlock()
	if !fire {
		return
	}

	// Removed without a recreate yet. The create event re-arms the
	// debounce when the file comes back.
	if _, err := os.Stat(w.path); err != nil {
		return
	}

	w.mu.Lock()
	w.stats.Triggered++
	w.mu.Unlock()
	w.onChange()
}
