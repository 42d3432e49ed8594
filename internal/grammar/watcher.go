package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the delay before a changed grammar file is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads grammar files when they change on disk. Rapid changes to
// the same file are coalesced into one reload.
type Watcher struct {
	loader Loader
	fsw    *fsnotify.Watcher
	delay  time.Duration
	logger *slog.Logger
	hook   func(path string, err error)

	mu      sync.Mutex
	pending map[string]*time.Timer
	reloads chan string
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the reload delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithReloadHook sets a function called after every reload attempt.
func WithReloadHook(fn func(path string, err error)) WatcherOption {
	return func(w *Watcher) {
		w.hook = fn
	}
}

// NewWatcher creates a watcher that installs reloaded grammars into l.
func NewWatcher(l Loader, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating grammar watcher: %w", err)
	}

	w := &Watcher{
		loader:  l,
		fsw:     fsw,
		delay:   DefaultDebounce,
		logger:  slog.Default(),
		pending: make(map[string]*time.Timer),
		reloads: make(chan string, 16),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches a grammar directory.
func (w *Watcher) Add(dir string) error {
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return nil
}

// Run processes file events until ctx is cancelled, then releases the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("grammar watcher error", "error", err)

		case path := <-w.reloads:
			w.reload(path)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !Supported(ev.Name) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			w.logger.Info("grammar file removed, keeping loaded grammar", "path", ev.Name)
		}
		return
	}

	path := filepath.Clean(ev.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.delay)
		return
	}
	w.pending[path] = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		select {
		case w.reloads <- path:
		default:
			w.logger.Warn("grammar reload dropped", "path", path)
		}
	})
}

func (w *Watcher) reload(path string) {
	def, err := Load(path)
	if err == nil {
		err = Install(w.loader, def)
	}

	if err != nil {
		w.logger.Error("grammar reload failed", "path", path, "error", err)
	} else {
		w.logger.Info("grammar reloaded", "path", path, "grammar", def.Name)
	}
	if w.hook != nil {
		w.hook(path, err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("closing grammar watcher", "error", err)
	}
}
