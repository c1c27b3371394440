package hub

import (
	"testing"
	"time"

	"github.com/d0wlet/sentinel/internal/model"
)

func TestHubBroadcast(t *testing.T) {
	h := New()

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()

	h.Publish(model.AlertEvent{Rule: "Error", Message: "disk full"})

	// Both subscribers should receive it.
	select {
	case ev := <-sub1:
		if ev.Message != "disk full" {
			t.Errorf("sub1: expected 'disk full', got %q", ev.Message)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("sub1: timed out")
	}

	select {
	case ev := <-sub2:
		if ev.Rule != "Error" {
			t.Errorf("sub2: expected rule Error, got %s", ev.Rule)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("sub2: timed out")
	}
}

func TestHubSlowConsumer(t *testing.T) {
	h := New()

	// Subscribe but never read — simulates a slow consumer.
	_ = h.Subscribe()

	for i := 0; i < subscriberBuffer+100; i++ {
		h.Publish(model.AlertEvent{Message: "event"})
	}

	if h.Dropped() == 0 {
		t.Error("expected dropped events for slow consumer, got 0")
	}
}

func TestHubPublishNeverBlocks(t *testing.T) {
	h := New()
	_ = h.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			h.Publish(model.AlertEvent{Message: "burst"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full subscriber")
	}
}

func TestHubClose(t *testing.T) {
	h := New()
	sub := h.Subscribe()

	h.Close()

	if _, ok := <-sub; ok {
		t.Error("expected subscriber channel to be closed")
	}

	// Publishing after close must be a quiet no-op.
	h.Publish(model.AlertEvent{Message: "late"})

	// Subscribing after close yields an already-closed channel.
	late := h.Subscribe()
	if _, ok := <-late; ok {
		t.Error("expected late subscription to be closed immediately")
	}
}
