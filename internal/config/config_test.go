package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func loadYAML(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatal(err)
	}
	return Load(v)
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := loadYAML(t, `
rules:
  - name: DiskError
    pattern: "(?i)disk.*error"
    threshold: 3
  - name: Panic
    pattern: "(?i)panic"
    threshold: 1
polling_interval_ms: 250
webhook_url: https://hooks.example.com/T123
listen: 127.0.0.1:8080
`)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Name != "DiskError" || cfg.Rules[0].Threshold != 3 {
		t.Errorf("unexpected first rule: %+v", cfg.Rules[0])
	}
	if cfg.PollingIntervalMs != 250 {
		t.Errorf("expected polling 250, got %d", cfg.PollingIntervalMs)
	}
	if cfg.WebhookURL != "https://hooks.example.com/T123" {
		t.Errorf("unexpected webhook URL %q", cfg.WebhookURL)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Errorf("unexpected listen %q", cfg.Listen)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadYAML(t, ``)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Rules) != 2 {
		t.Fatalf("expected default Error/Panic rules, got %d", len(cfg.Rules))
	}
	if cfg.Rules[0].Name != "Error" || cfg.Rules[1].Name != "Panic" {
		t.Errorf("unexpected default rules: %+v", cfg.Rules)
	}
	if cfg.PollingIntervalMs != 100 {
		t.Errorf("expected default polling 100, got %d", cfg.PollingIntervalMs)
	}
	if cfg.WebhookURL != "" {
		t.Errorf("expected no default webhook, got %q", cfg.WebhookURL)
	}
}

func TestLoadRejectsNamelessRule(t *testing.T) {
	_, err := loadYAML(t, `
rules:
  - pattern: "(?i)error"
`)
	if err == nil {
		t.Error("expected error for rule without a name")
	}
}

func TestLoadRejectsPatternlessRule(t *testing.T) {
	_, err := loadYAML(t, `
rules:
  - name: Error
`)
	if err == nil {
		t.Error("expected error for rule without a pattern")
	}
}

func TestPollingIntervalFallback(t *testing.T) {
	cfg, err := loadYAML(t, `polling_interval_ms: -5`)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PollingIntervalMs != 100 {
		t.Errorf("expected fallback to 100ms, got %d", cfg.PollingIntervalMs)
	}
}
