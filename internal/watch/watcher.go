// Package watch notifies when a scenario file changes on disk. Two
// mechanisms are available: OS file notifications via fsnotify, and a
// polling fallback for filesystems where notifications do not propagate
// (container volume mounts, network shares).
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/stowpack/stowpack/internal/config"
)

// debounceInterval suppresses the bursts of events editors produce on
// a single save.
const debounceInterval = 500 * time.Millisecond

// Watcher delivers change notifications for a single file.
type Watcher interface {
	// C receives a signal after each detected change. Signals are
	// dropped, not queued, while the consumer is busy.
	C() <-chan struct{}

	// Close stops watching and releases resources.
	Close() error
}

// New creates a watcher of the requested type for the given file.
func New(typ config.WatcherType, path string, pollInterval time.Duration, logger *zap.Logger) (Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}

	switch typ {
	case config.WatcherFSNotify:
		return newFSWatcher(abs, logger)
	case config.WatcherPoll:
		return newPollWatcher(abs, pollInterval, logger), nil
	default:
		return nil, fmt.Errorf("unknown watcher type %q", typ)
	}
}

// fsWatcher uses fsnotify. It watches the parent directory rather than
// the file itself so editors that replace the file on save (rename over
// the original) keep being tracked.
type fsWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	ch      chan struct{}
	done    chan struct{}
	logger  *zap.Logger

	mu       sync.Mutex
	lastSent time.Time
	closeOne sync.Once
}

func newFSWatcher(path string, logger *zap.Logger) (*fsWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &fsWatcher{
		watcher: watcher,
		path:    path,
		ch:      make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go w.loop()
	return w, nil
}

func (w *fsWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.notify()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (w *fsWatcher) notify() {
	w.mu.Lock()
	now := time.Now()
	if now.Sub(w.lastSent) < debounceInterval {
		w.mu.Unlock()
		return
	}
	w.lastSent = now
	w.mu.Unlock()

	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w *fsWatcher) C() <-chan struct{} { return w.ch }

func (w *fsWatcher) Close() error {
	w.closeOne.Do(func() { close(w.done) })
	return w.watcher.Close()
}

// pollWatcher stats the file on an interval and signals when its
// modification time or size changes.
type pollWatcher struct {
	path     string
	interval time.Duration
	ch       chan struct{}
	done     chan struct{}
	logger   *zap.Logger
	closeOne sync.Once
}

func newPollWatcher(path string, interval time.Duration, logger *zap.Logger) *pollWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	w := &pollWatcher{
		path:     path,
		interval: interval,
		ch:       make(chan struct{}, 1),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go w.loop()
	return w
}

func (w *pollWatcher) loop() {
	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(w.path); err == nil {
		lastMod, lastSize = info.ModTime(), info.Size()
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				// File may be mid-replace; pick it up next tick.
				continue
			}
			if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
				continue
			}
			lastMod, lastSize = info.ModTime(), info.Size()
			select {
			case w.ch <- struct{}{}:
			default:
			}
		}
	}
}

func (w *pollWatcher) C() <-chan struct{} { return w.ch }

func (w *pollWatcher) Close() error {
	w.closeOne.Do(func() { close(w.done) })
	return nil
}
