package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ovnsight/ovnsight/internal/logging"
)

// ReloadCallback is called when the config file is successfully reloaded.
// A callback error is logged and watching continues with the previous
// config; it never crashes the watcher.
type ReloadCallback func(cfg *Config) error

// Watcher watches the configuration file and triggers reload callbacks with
// debouncing, so editor save sequences yield a single reload. Invalid
// configs on reload are logged and skipped.
type Watcher struct {
	path          string
	debounce      time.Duration
	callback      ReloadCallback
	logger        *logging.Logger
	cancel        context.CancelFunc
	stopped       chan struct{}
	ready         chan struct{}
	mu            sync.Mutex
	debounceTimer *time.Timer
}

// NewWatcher creates a watcher for the given config file.
func NewWatcher(path string, callback ReloadCallback) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("config path cannot be empty")
	}
	if callback == nil {
		return nil, fmt.Errorf("callback cannot be nil")
	}
	return &Watcher{
		path:     path,
		debounce: 500 * time.Millisecond,
		callback: callback,
		logger:   logging.GetLogger("config.watcher"),
		stopped:  make(chan struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Start loads the initial config, invokes the callback with it, then watches
// for changes until Stop or context cancellation. The initial load and
// callback fail fast; reload failures only log.
func (w *Watcher) Start(ctx context.Context) error {
	initial, err := Load(w.path)
	if err != nil {
		return fmt.Errorf("failed to load initial config: %w", err)
	}
	if err := w.callback(initial); err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.watchLoop(watchCtx)

	// Wait until the directory watch is registered, so a change written
	// right after Start is not missed.
	select {
	case <-w.ready:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return fmt.Errorf("timeout waiting for file watcher to initialize")
	}
	return nil
}

// signalReady closes the ready channel exactly once, including on the
// watch loop's error paths.
func (w *Watcher) signalReady() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.stopped
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)
	defer w.signalReady()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error("failed to create fsnotify watcher: %v", err)
		return
	}
	defer fsw.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a direct file watch.
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Error("failed to watch %s: %v", filepath.Dir(w.path), err)
		return
	}

	w.signalReady()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config: %v", err)
		return
	}
	if err := w.callback(cfg); err != nil {
		w.logger.Error("config reload callback failed: %v", err)
		return
	}
	w.logger.Info("configuration reloaded from %s", w.path)
}
