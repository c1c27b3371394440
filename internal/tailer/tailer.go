// Package tailer follows watched log files and emits newly appended
// lines in file order, across rotations.
package tailer

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/d0wlet/sentinel/internal/model"
	"github.com/d0wlet/sentinel/internal/watcher"
)

const (
	lineBuffer         = 512
	checkpointInterval = 5 * time.Second
	reconnectRetries   = 5
	reconnectDelay     = 1 * time.Second
)

// Tailer reads newly appended content from watched files and emits
// complete lines on Lines(). The channel closes when the tailer
// stops, which the pipeline treats as end-of-stream.
type Tailer struct {
	mu     sync.Mutex
	files  map[string]*trackedFile
	out    chan model.RawLine
	ckpt   *Checkpoint
	events <-chan watcher.Event
	watch  *watcher.Watcher
	log    *logrus.Entry
}

type trackedFile struct {
	path   string
	file   *os.File
	offset int64
}

// New creates a Tailer driven by the given Watcher's events.
func New(w *watcher.Watcher, ckpt *Checkpoint) *Tailer {
	return &Tailer{
		files:  make(map[string]*trackedFile),
		out:    make(chan model.RawLine, lineBuffer),
		ckpt:   ckpt,
		events: w.Events,
		watch:  w,
		log:    logrus.WithField("component", "tailer"),
	}
}

// Lines returns the channel carrying raw log lines.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start processes watcher events until the context is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	for _, p := range t.watch.Paths() {
		t.open(p)
	}

	saveTicker := time.NewTicker(checkpointInterval)
	defer saveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveCheckpoint()
			t.closeAll()
			return

		case ev, ok := <-t.events:
			if !ok {
				t.saveCheckpoint()
				t.closeAll()
				return
			}
			t.handle(ev)

		case <-saveTicker.C:
			t.saveCheckpoint()
		}
	}
}

func (t *Tailer) handle(ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.drain(ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// A new file under a known name, usually post-rotation.
		t.open(ev.Path)
		t.drain(ev.Path)

	case ev.Op&fsnotify.Remove != 0, ev.Op&fsnotify.Rename != 0:
		t.close(ev.Path)
		go t.reconnect(ev.Path)
	}
}

// open starts tracking a file, resuming from the checkpointed offset
// when one exists, otherwise from the current end of file.
func (t *Tailer) open(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		t.log.Warnf("cannot open %s: %v", path, err)
		return
	}

	var offset int64
	if saved, ok := t.ckpt.Get(path); ok {
		offset = saved
	} else {
		offset, _ = f.Seek(0, io.SeekEnd)
	}

	// A checkpoint beyond the current size means the file was
	// truncated or rotated in place; start over from the top.
	if fi, err := f.Stat(); err == nil && offset > fi.Size() {
		t.log.Infof("%s shrank below saved offset, restarting from 0", path)
		offset = 0
	}
	f.Seek(offset, io.SeekStart)

	t.files[path] = &trackedFile{path: path, file: f, offset: offset}
}

// drain reads from the last offset to EOF and emits complete lines.
func (t *Tailer) drain(path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	// Copy-truncate rotation: the inode shrinks under us.
	if fi, err := tf.file.Stat(); err == nil && fi.Size() < tf.offset {
		t.log.Infof("%s truncated, restarting from 0", path)
		tf.file.Seek(0, io.SeekStart)
		tf.offset = 0
	}

	scanner := bufio.NewScanner(tf.file)
	for scanner.Scan() {
		t.out <- model.RawLine{Text: scanner.Text(), Source: path}
	}
	if err := scanner.Err(); err != nil {
		t.log.Errorf("read error on %s: %v", path, err)
	}

	pos, _ := tf.file.Seek(0, io.SeekCurrent)
	tf.offset = pos
	t.ckpt.Set(path, pos)
}

func (t *Tailer) close(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// reconnect polls for a rotated file to reappear under its old name.
func (t *Tailer) reconnect(path string) {
	for i := 0; i < reconnectRetries; i++ {
		time.Sleep(reconnectDelay)
		if _, err := os.Stat(path); err == nil {
			t.log.Infof("reconnected to rotated file: %s", path)
			t.ckpt.Set(path, 0)
			_ = t.watch.ReWatch(path)
			t.open(path)
			t.drain(path)
			return
		}
	}
	t.log.Warnf("gave up reconnecting to %s after %d retries", path, reconnectRetries)
}

func (t *Tailer) saveCheckpoint() {
	if err := t.ckpt.Save(); err != nil {
		t.log.Errorf("checkpoint save failed: %v", err)
	}
}

func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
