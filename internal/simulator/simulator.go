// Package simulator writes a synthetic log stream for demos and load
// testing: mostly healthy chatter with periodic panics and structured
// errors mixed in.
package simulator

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

const flushBatch = 100

// Simulator appends generated log lines to a target file at high rate.
type Simulator struct {
	path string
	log  *logrus.Entry
}

// New creates a Simulator writing to the given path. The file is
// truncated at start.
func New(path string) *Simulator {
	return &Simulator{
		path: path,
		log:  logrus.WithField("component", "simulator"),
	}
}

// Run generates lines until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", s.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()

	s.log.Infof("writing synthetic logs to %s", s.path)

	counter := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		counter++
		var line string
		switch {
		case counter%500 == 0:
			line = fmt.Sprintf("panic!: kernel panic at main.go:%d\n", counter)
		case counter%700 == 0:
			line = fmt.Sprintf("{\"level\": \"error\", \"msg\": \"Critical usage %d\"}\n", counter)
		default:
			line = fmt.Sprintf("[INFO] System healthy %d\n", counter)
		}

		if _, err := w.WriteString(line); err != nil {
			return fmt.Errorf("write failed: %w", err)
		}

		// Flush in batches so the tailer sees progress, with a short
		// breather to keep the rate high but not CPU-bound.
		if counter%flushBatch == 0 {
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush failed: %w", err)
			}
			time.Sleep(1 * time.Millisecond)
		}
	}
}
