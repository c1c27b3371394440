package model

import "time"

// Rule is a user-configured alert pattern.
type Rule struct {
	Name    string `mapstructure:"name" json:"name"`
	Pattern string `mapstructure:"pattern" json:"pattern"` // regular expression, matched anywhere in the line
	// Threshold is accepted from config for compatibility but is not
	// enforced: every match is treated as immediately alert-worthy.
	Threshold int `mapstructure:"threshold" json:"threshold"`
}

// RawLine is a single line delivered by the tail source.
type RawLine struct {
	Text   string
	Source string // originating file path
}

// Classification is the outcome of inspecting one log line.
type Classification struct {
	Alert   bool
	Rule    string // matched rule name, or "structured" for JSON-level hits
	Message string // human-readable alert text; empty when Alert is false
}

// AlertEvent is an alert-worthy line as broadcast to dashboard consumers.
type AlertEvent struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Rule    string    `json:"rule"`
	Message string    `json:"message"`
	Source  string    `json:"source"`
	Raw     string    `json:"raw"`
}
