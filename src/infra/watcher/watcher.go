// Package watcher nudges the scan loop with fsnotify events so changes show
// up before the next poll tick. Detection and diffing stay with the scan;
// losing events here only means waiting for the ticker.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 300 * time.Millisecond

// Watcher monitors the watched root recursively and signals on notify after
// a short debounce.
type Watcher struct {
	watcher       *fsnotify.Watcher
	notify        chan<- struct{}
	ignoreDirs    map[string]bool
	debounceTimer *time.Timer
	debounceMutex sync.Mutex
	running       bool
	stopChan      chan struct{}
}

// New creates a new file system watcher signalling on notify.
func New(notify chan<- struct{}, ignoreDirs []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ignored := make(map[string]bool, len(ignoreDirs))
	for _, dir := range ignoreDirs {
		ignored[dir] = true
	}

	return &Watcher{
		watcher:    fsw,
		notify:     notify,
		ignoreDirs: ignored,
		stopChan:   make(chan struct{}),
	}, nil
}

// Start begins watching root and all its subdirectories.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if err := w.addRecursive(root); err != nil {
		return err
	}

	w.running = true
	go w.watchLoop(ctx)

	slog.Debug("File system trigger started", "root", root)
	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() {
	if !w.running {
		return
	}
	w.running = false
	close(w.stopChan)

	w.debounceMutex.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.debounceMutex.Unlock()

	w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || w.ignoreDirs[name]) {
			return fs.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			slog.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// watchLoop processes file system events
func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-w.stopChan:
			return

		case <-ctx.Done():
			return
		}
	}
}

// handleEvent starts watching newly created directories and resets the
// debounce timer.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || w.ignoreDirs[base] {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		// new subdirectories need their own watch
		_ = w.addRecursive(event.Name)
	}

	w.debounceMutex.Lock()
	defer w.debounceMutex.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(debounce, w.emit)
}

func (w *Watcher) emit() {
	select {
	case w.notify <- struct{}{}:
	default:
		// a scan is already pending
	}
}
