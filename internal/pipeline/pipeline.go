// Package pipeline drives the ingest loop: pull a line, count it,
// classify it, aggregate, and maybe notify.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/d0wlet/sentinel/internal/classifier"
	"github.com/d0wlet/sentinel/internal/hub"
	"github.com/d0wlet/sentinel/internal/model"
	"github.com/d0wlet/sentinel/internal/notify"
	"github.com/d0wlet/sentinel/internal/stats"
)

// ErrSourceClosed is returned when the tail source channel closes.
// The pipeline does not restart itself; the caller decides.
var ErrSourceClosed = errors.New("tail source closed")

// Pipeline consumes lines strictly in delivery order. It is
// single-threaded: line N+1 is never touched before line N has been
// counted, classified and aggregated. Dispatch is detached, so a slow
// webhook never slows ingestion.
type Pipeline struct {
	lines      <-chan model.RawLine
	classifier *classifier.Classifier
	stats      *stats.Stats
	gate       *notify.Gate
	notifier   *notify.Notifier // nil when no webhook is configured
	hub        *hub.Hub         // nil when no dashboard consumers exist
	log        *logrus.Entry
}

// New wires a Pipeline. notifier and h may be nil.
func New(lines <-chan model.RawLine, c *classifier.Classifier, s *stats.Stats, g *notify.Gate, n *notify.Notifier, h *hub.Hub) *Pipeline {
	return &Pipeline{
		lines:      lines,
		classifier: c,
		stats:      s,
		gate:       g,
		notifier:   n,
		hub:        h,
		log:        logrus.WithField("component", "pipeline"),
	}
}

// Run processes lines until the context is cancelled (returns nil) or
// the source channel closes (returns ErrSourceClosed).
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-p.lines:
			if !ok {
				p.log.Warn("tail source closed, stopping")
				return ErrSourceClosed
			}
			p.process(line)
		}
	}
}

func (p *Pipeline) process(line model.RawLine) {
	p.stats.RecordLine()

	cls := p.classifier.Classify(line.Text)
	if !cls.Alert {
		return
	}

	p.stats.RecordAlert(cls.Message)

	if p.hub != nil {
		p.hub.Publish(model.AlertEvent{
			ID:      uuid.NewString(),
			Time:    time.Now(),
			Rule:    cls.Rule,
			Message: cls.Message,
			Source:  line.Source,
			Raw:     line.Text,
		})
	}

	if p.notifier != nil && p.gate.Allow() {
		p.stats.RecordNotification()
		p.notifier.Dispatch(cls.Message)
	}
}
