package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/carousel/internal/logging"
)

// DefaultWatchDebounce coalesces bursts of editor writes into one reload.
const DefaultWatchDebounce = 200 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    *Paths
	path     string
	debounce time.Duration
	onReload func(*Config)

	mu        sync.Mutex
	timer     *time.Timer
	closed    bool
	closeOnce sync.Once
}

// NewWatcher watches paths.ConfigPath. The parent directory is watched so
// atomic replaces and late file creation are seen.
func NewWatcher(paths *Paths, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fw,
		paths:    paths,
		path:     filepath.Clean(paths.ConfigPath),
		debounce: DefaultWatchDebounce,
		onReload: onReload,
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Run processes filesystem events until ctx is done or the watcher closes.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.isConfigEvent(event) {
				w.schedule()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Debug("config watcher error: %v", err)
		}
	}
}

// Close stops the watcher and any pending reload.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.fire)
	} else {
		w.timer.Reset(w.debounce)
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	cfg, err := LoadFrom(w.paths)
	if err != nil {
		logging.Warn("Ignoring invalid config reload: %v", err)
		return
	}
	logging.Info("Reloaded config from %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}
