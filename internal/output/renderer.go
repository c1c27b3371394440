package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/d0wlet/sentinel/internal/model"
	"github.com/d0wlet/sentinel/internal/stats"
)

// Renderer writes alert events and periodic stats to an output stream.
type Renderer interface {
	RenderAlert(ev model.AlertEvent) error
	RenderStats(snap stats.Snapshot) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleAlertTag = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)  // red bold
	styleRule     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))             // yellow
	styleSource   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)  // cyan
	styleStats    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))             // gray
	styleLastOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true) // dim gray
	styleLastBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))             // red
)

// TextRenderer prints the live alert stream and a stats line to the
// terminal.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) RenderAlert(ev model.AlertEvent) error {
	line := fmt.Sprintf("%s %s %s %s %s",
		ev.Time.Format("15:04:05"),
		styleAlertTag.Render("ALERT"),
		styleRule.Render(ev.Rule),
		styleSource.Render(ev.Source),
		ev.Message,
	)
	// Clear the in-place stats line before scrolling the alert out.
	_, err := fmt.Fprintf(r.w, "\r\x1b[K%s\n", line)
	return err
}

func (r *TextRenderer) RenderStats(snap stats.Snapshot) error {
	last := "no alerts yet"
	style := styleLastOK
	if snap.HasAlert {
		last = snap.LastAlert
		style = styleLastBad
	}

	line := styleStats.Render(fmt.Sprintf(
		"lines %d | alerts %d | %.1f lines/s | up %s | last: ",
		snap.TotalLines, snap.TotalAlerts, snap.Rate, snap.Uptime,
	)) + style.Render(last)

	// Redrawn in place on every tick; alerts scroll past it.
	_, err := fmt.Fprintf(r.w, "\r\x1b[K%s", line)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints alerts and stats snapshots as JSON lines.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) RenderAlert(ev model.AlertEvent) error {
	return r.enc.Encode(struct {
		Type string `json:"type"`
		model.AlertEvent
	}{Type: "alert", AlertEvent: ev})
}

func (r *JSONRenderer) RenderStats(snap stats.Snapshot) error {
	return r.enc.Encode(struct {
		Type string `json:"type"`
		stats.Snapshot
	}{Type: "stats", Snapshot: snap})
}
