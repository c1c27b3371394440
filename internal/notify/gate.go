// Package notify implements the outbound webhook path: a global
// cooldown gate and a fire-and-forget HTTP dispatcher.
package notify

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum spacing between two outbound
// notifications, across all rules.
const DefaultCooldown = 10 * time.Second

// Gate is the process-wide notification cooldown. One instance is
// constructed at startup and handed to the pipeline; the
// check-and-update is a single critical section so two concurrent
// alerts can never both see "allowed".
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastSent time.Time
}

// NewGate creates a Gate with the given cooldown window. A
// non-positive cooldown falls back to DefaultCooldown.
func NewGate(cooldown time.Duration) *Gate {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Gate{cooldown: cooldown}
}

// Allow reports whether a notification may be sent right now. The
// first call always allows; later calls allow only once the cooldown
// has elapsed since the last allowed call. Denied calls leave the
// gate untouched.
func (g *Gate) Allow() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	if !g.lastSent.IsZero() && now.Sub(g.lastSent) <= g.cooldown {
		return false
	}
	g.lastSent = now
	return true
}
