package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"clinicterm/internal/logging"
)

// Watcher watches the config file for changes and reloads it. Rapid editor
// save sequences (write + rename + chmod) are debounced into a single reload.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	onReload func(*Config)
	timer    *time.Timer
	debounce time.Duration
	running  bool
	doneCh   chan struct{}
}

// NewWatcher creates a watcher for the given config path. onReload is called
// with the freshly loaded config after each change.
func NewWatcher(path string, onReload func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		path:     path,
		onReload: onReload,
		debounce: 500 * time.Millisecond,
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watcher stops when ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	// Watch the directory, not the file: editors replace files on save and
	// a watch on the old inode would go silent. Only mark running once the
	// watch is in place; Stop waits on the run goroutine solely when it
	// was actually started.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = w.watcher.Close()
		return err
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()
	logging.Boot("config watcher: watching %s", w.path)

	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
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
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryBoot).Warnf("config watcher error: %v", err)
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.Get(logging.CategoryBoot).Warnf("config reload failed: %v", err)
		return
	}
	logging.Boot("config reloaded from %s", w.path)
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	running := w.running
	w.running = false
	w.mu.Unlock()
	_ = w.watcher.Close()
	if running {
		<-w.doneCh
	}
}
