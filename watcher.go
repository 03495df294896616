package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirWatcher reports changes to the active directory so the catalog can be rebuilt.
// Bursts of events are collapsed into one notification.
type DirWatcher struct {
	fsWatcher *fsnotify.Watcher
	debounce  time.Duration
	changes   chan string

	mu    sync.Mutex
	dir   string
	timer *time.Timer
}

// NewDirWatcher starts a watcher with no directory attached
func NewDirWatcher(debounce time.Duration) (*DirWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &DirWatcher{
		fsWatcher: fsWatcher,
		debounce:  debounce,
		changes:   make(chan string, 1),
	}
	go w.loop()
	return w, nil
}

// Watch replaces the watched directory with dir
func (w *DirWatcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir == dir {
		return nil
	}
	if w.dir != "" {
		if err := w.fsWatcher.Remove(w.dir); err != nil {
			debugLog("Failed to stop watching %s: %v", w.dir, err)
		}
	}
	w.dir = ""
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.dir = dir
	debugLog("Watching %s", dir)
	return nil
}

// Changes delivers the directory that changed, at most once per debounce period
func (w *DirWatcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fsWatcher.Close()
}

func (w *DirWatcher) loop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
				w.schedule()
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("Warning: directory watcher: %v", err)
		}
	}
}

func (w *DirWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	dir := w.dir
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.changes <- dir:
		default:
			// A notification is already pending
		}
	})
}
