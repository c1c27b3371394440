// Package config loads sentinel's YAML configuration through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/d0wlet/sentinel/internal/model"
)

// Config is the full application configuration.
type Config struct {
	// Rules are matched in declaration order; the first hit wins.
	Rules []model.Rule `mapstructure:"rules"`

	// PollingIntervalMs is the dashboard refresh tick. The ingestion
	// pipeline is event-driven and does not use it.
	PollingIntervalMs int `mapstructure:"polling_interval_ms"`

	// WebhookURL is the optional notification endpoint. Empty
	// disables outbound notifications entirely.
	WebhookURL string `mapstructure:"webhook_url"`

	// Listen is the optional web dashboard address. Empty disables
	// the web server.
	Listen string `mapstructure:"listen"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Default returns the built-in configuration: generic error/panic
// rules and a 100ms dashboard tick.
func Default() *Config {
	return &Config{
		Rules: []model.Rule{
			{Name: "Error", Pattern: "(?i)error", Threshold: 1},
			{Name: "Panic", Pattern: "(?i)panic", Threshold: 1},
		},
		PollingIntervalMs: 100,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load unmarshals the configuration from the given viper instance,
// filling gaps from Default. Rule validity (pattern compilation) is
// checked by the matcher at startup, not here; Load only rejects
// structurally broken values.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.PollingIntervalMs <= 0 {
		cfg.PollingIntervalMs = Default().PollingIntervalMs
	}
	for _, r := range cfg.Rules {
		if r.Name == "" {
			return nil, fmt.Errorf("config: rule with pattern %q has no name", r.Pattern)
		}
		if r.Pattern == "" {
			return nil, fmt.Errorf("config: rule %q has no pattern", r.Name)
		}
	}

	return cfg, nil
}

// PollingInterval returns the dashboard tick as a duration.
func (c *Config) PollingInterval() time.Duration {
	return time.Duration(c.PollingIntervalMs) * time.Millisecond
}
