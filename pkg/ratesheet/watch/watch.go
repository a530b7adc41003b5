// Package watch runs extraction on workbooks dropped into a folder.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled workbook.
type Handler func(ctx context.Context, path string) error

// Stats counts watcher activity.
type Stats struct {
	Queued    int
	Processed int
	Failed    int
	Errors    int
	LastPath  string
}

// Watcher watches a directory for new or rewritten workbooks and calls
// its handler once per file after writes have settled.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dir      string
	handler  Handler
	log      *zap.Logger
	pending  map[string]time.Time
	debounce time.Duration
	tick     time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	started  bool
	closed   bool
	stats    Stats
}

// New creates a Watcher for dir. A debounce of zero means DefaultDebounce.
func New(dir string, debounce time.Duration, handler Handler, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher:  fw,
		dir:      dir,
		handler:  handler,
		log:      logger.With(zap.String("dir", dir)),
		pending:  make(map[string]time.Time),
		debounce: debounce,
		tick:     min(100*time.Millisecond, debounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// IsWorkbook reports whether path names a workbook the watcher handles.
// Office lock files (~$name.xlsx) are skipped.
func IsWorkbook(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") || strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".xlsx", ".xlsm":
		return true
	default:
		return false
	}
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if w.started || w.closed {
		return fmt.Errorf("watcher for %s cannot be restarted", w.dir)
	}

	info, err := os.Stat(w.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", w.dir)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.running = true
	w.started = true
	go w.run(ctx)
	w.log.Info("watching for workbooks", zap.Duration("debounce", w.debounce))
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. A file
// being handled is finished first; files still settling are dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	started := w.started
	w.running = false
	w.mu.Unlock()

	if started {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher", zap.Error(err))
	}
	w.log.Info("watcher stopped")
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context cancelled")
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
			w.log.Error("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processSettled(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !IsWorkbook(event.Name) {
		return
	}

	w.mu.Lock()
	if _, ok := w.pending[event.Name]; !ok {
		w.stats.Queued++
	}
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
	w.log.Debug("workbook event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
}

func (w *Watcher) processSettled(ctx context.Context) {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.pending {
		if now.Sub(at) >= w.debounce {
			settled = append(settled, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			w.log.Debug("workbook removed before processing", zap.String("path", path))
			continue
		}

		err := w.handler(ctx, path)
		w.mu.Lock()
		w.stats.LastPath = path
		if err != nil {
			w.stats.Failed++
		} else {
			w.stats.Processed++
		}
		w.mu.Unlock()

		if err != nil {
			w.log.Error("workbook failed", zap.String("path", path), zap.Error(err))
			continue
		}
		w.log.Info("workbook processed", zap.String("path", path))
	}
}
