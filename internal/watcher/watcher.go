// Package watcher turns OS file notifications into a simple event
// stream for the tailer.
package watcher

import (
	"context"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Event is a file change relevant to tailing.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors the monitored log files for appends, rotation and
// truncation using OS-level notifications.
type Watcher struct {
	fsw    *fsnotify.Watcher
	Events chan Event
	paths  []string
	log    *logrus.Entry
}

// New creates a Watcher for the given glob patterns. Patterns are
// expanded once at startup; recursive globs (**) are supported.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		Events: make(chan Event, 256),
		log:    logrus.WithField("component", "watcher"),
	}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
		if err != nil {
			w.log.Warnf("failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				w.log.Warnf("cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start forwards relevant file events until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			switch {
			case ev.Op&fsnotify.Write != 0,
				ev.Op&fsnotify.Create != 0,
				ev.Op&fsnotify.Remove != 0,
				ev.Op&fsnotify.Rename != 0:
				w.Events <- Event{Path: ev.Name, Op: ev.Op}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Errorf("watch error: %v", err)
		}
	}
}

// Paths returns the files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// ReWatch re-adds a path after rotation replaced the inode.
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}
