// Package stats holds the shared aggregate state written by the
// ingestion pipeline and read by dashboard consumers.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	metricLines = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_lines_processed_total",
		Help: "Total log lines pulled from the tail source.",
	})
	metricAlerts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_alerts_total",
		Help: "Total lines classified as alert-worthy.",
	})
	metricNotifications = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_notifications_sent_total",
		Help: "Total outbound webhook notifications dispatched.",
	})
)

func init() {
	prometheus.MustRegister(metricLines, metricAlerts, metricNotifications)
}

// Snapshot is a point-in-time read view for dashboards.
type Snapshot struct {
	Uptime           string    `json:"uptime"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	TotalLines       int64     `json:"total_lines"`
	TotalAlerts      int64     `json:"total_alerts"`
	Rate             float64   `json:"lines_per_sec"`
	LastAlert        string    `json:"last_alert,omitempty"`
	HasAlert         bool      `json:"has_alert"`
	Notified         bool      `json:"notified"`
	LastNotification time.Time `json:"last_notification,omitempty"`
}

// Stats is created once at startup and lives for the process lifetime.
// The counters are lock-free atomics updated on the ingest hot path;
// the last-alert text sits behind a short mutex. The two are not
// updated as one unit, so a concurrent reader may see total_alerts a
// beat out of lockstep with total_lines. That looseness is fine for a
// moment-in-time display.
type Stats struct {
	start       time.Time
	totalLines  atomic.Int64
	totalAlerts atomic.Int64

	mu           sync.RWMutex
	lastAlert    string
	hasAlert     bool
	lastNotified time.Time
}

// New creates a Stats anchored at the current time.
func New() *Stats {
	return &Stats{start: time.Now()}
}

// RecordLine counts one processed line, whatever its classification.
func (s *Stats) RecordLine() {
	s.totalLines.Add(1)
	metricLines.Inc()
}

// RecordAlert counts an alert-worthy line and overwrites the
// last-alert text.
func (s *Stats) RecordAlert(message string) {
	s.totalAlerts.Add(1)
	metricAlerts.Inc()

	s.mu.Lock()
	s.lastAlert = message
	s.hasAlert = true
	s.mu.Unlock()
}

// RecordNotification stamps the time of an outbound dispatch.
func (s *Stats) RecordNotification() {
	metricNotifications.Inc()

	s.mu.Lock()
	s.lastNotified = time.Now()
	s.mu.Unlock()
}

// TotalLines returns the current line counter.
func (s *Stats) TotalLines() int64 { return s.totalLines.Load() }

// TotalAlerts returns the current alert counter.
func (s *Stats) TotalAlerts() int64 { return s.totalAlerts.Load() }

// Snapshot returns the current aggregate state. It holds the read
// lock only long enough to copy the last-alert fields and never
// blocks the writer beyond that.
func (s *Stats) Snapshot() Snapshot {
	elapsed := time.Since(s.start)

	var rate float64
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(s.totalLines.Load()) / secs
	}

	snap := Snapshot{
		Uptime:        elapsed.Truncate(time.Second).String(),
		UptimeSeconds: int64(elapsed.Seconds()),
		TotalLines:    s.totalLines.Load(),
		TotalAlerts:   s.totalAlerts.Load(),
		Rate:          rate,
	}

	s.mu.RLock()
	snap.LastAlert = s.lastAlert
	snap.HasAlert = s.hasAlert
	snap.Notified = !s.lastNotified.IsZero()
	snap.LastNotification = s.lastNotified
	s.mu.RUnlock()

	return snap
}
