package simulator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSimulatorWritesLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.log")

	sim := New(path)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- sim.Run(ctx)
	}()

	// Let it produce a few batches.
	time.Sleep(300 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("simulator did not stop on cancellation")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data := string(raw)
	lines := strings.Split(strings.TrimSpace(data), "\n")
	if len(lines) < flushBatch {
		t.Fatalf("expected at least one flushed batch, got %d lines", len(lines))
	}

	// The mix must contain healthy chatter and, given enough lines,
	// the periodic panic marker.
	if !strings.Contains(data, "[INFO] System healthy") {
		t.Error("expected healthy filler lines")
	}
	if len(lines) >= 500 && !strings.Contains(data, "panic!") {
		t.Error("expected periodic panic lines")
	}
}
