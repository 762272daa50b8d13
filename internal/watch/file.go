// Package watch reports when a file loaded at startup changes on disk.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher marks a file as stale once it is written, replaced or removed.
// The process keeps serving with the copy it loaded; Ready reports the file
// as stale so that an orchestrator can restart it.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu    sync.RWMutex
	stale error
}

// NewFileWatcher starts watching path. The parent directory is watched so
// that atomic replacements are seen.
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{path: abs, watcher: w, done: make(chan struct{})}
	go fw.run()
	return fw, nil
}

func (fw *FileWatcher) run() {
	defer close(fw.done)
	for {
		select {
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != fw.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				fw.markStale(ev.Op)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "path", fw.path, "error", err)
		}
	}
}

func (fw *FileWatcher) markStale(op fsnotify.Op) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stale != nil {
		return
	}
	fw.stale = fmt.Errorf("%s changed on disk (%s); restart required", fw.path, op)
	slog.Warn("watched file changed", "path", fw.path, "op", op.String())
}

// Ready returns nil while the file is unchanged.
func (fw *FileWatcher) Ready() error {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.stale
}

// Close stops watching.
func (fw *FileWatcher) Close() error {
	err := fw.watcher.Close()
	<-fw.done
	return err
}
