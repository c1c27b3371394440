// Package hub fans alert events out to dashboard consumers.
package hub

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/d0wlet/sentinel/internal/model"
)

const subscriberBuffer = 256

// Hub broadcasts AlertEvent values to all subscribers. Publishing
// never blocks: a subscriber whose buffer is full loses the event and
// the dropped counter goes up. The ingestion pipeline is the only
// publisher; terminal and websocket consumers subscribe.
type Hub struct {
	mu          sync.RWMutex
	subscribers []chan model.AlertEvent
	dropped     int64
	closed      bool
	log         *logrus.Entry
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{log: logrus.WithField("component", "hub")}
}

// Subscribe returns a buffered channel that receives every published
// alert event. Each subscriber gets its own copy.
func (h *Hub) Subscribe() <-chan model.AlertEvent {
	ch := make(chan model.AlertEvent, subscriberBuffer)
	h.mu.Lock()
	if h.closed {
		close(ch)
	} else {
		h.subscribers = append(h.subscribers, ch)
	}
	h.mu.Unlock()
	return ch
}

// Publish sends an event to all subscribers without blocking. Events
// for full subscriber buffers are dropped.
func (h *Hub) Publish(ev model.AlertEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.dropped++
			h.log.Debugf("dropped alert event for slow consumer (total dropped: %d)", h.dropped)
		}
	}
}

// Dropped returns how many events were lost to slow consumers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Close closes all subscriber channels. Publish becomes a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
