package classifier

import (
	"testing"

	"github.com/d0wlet/sentinel/internal/matcher"
	"github.com/d0wlet/sentinel/internal/model"
)

func newClassifier(t *testing.T, rules []model.Rule) *Classifier {
	t.Helper()
	m, err := matcher.Compile(rules)
	if err != nil {
		t.Fatal(err)
	}
	return New(m)
}

func TestClassifyPatternAlert(t *testing.T) {
	c := newClassifier(t, []model.Rule{{Name: "Error", Pattern: "(?i)error"}})

	cls := c.Classify("ERROR: disk full")
	if !cls.Alert {
		t.Fatal("expected an alert")
	}
	if cls.Message != "ERROR: disk full" {
		t.Errorf("expected raw line as message, got %q", cls.Message)
	}
	if cls.Rule != "Error" {
		t.Errorf("expected rule Error, got %s", cls.Rule)
	}
}

func TestClassifyPanicRule(t *testing.T) {
	c := newClassifier(t, []model.Rule{{Name: "KernelPanic", Pattern: "panic!"}})

	cls := c.Classify("System panic! at the disco")
	if !cls.Alert {
		t.Error("expected rule named *Panic* to alert")
	}
}

func TestClassifyBenignRuleName(t *testing.T) {
	// A rule can match without alerting if its name is not error/panic-ish.
	c := newClassifier(t, []model.Rule{{Name: "Info", Pattern: "(?i)healthy"}})

	cls := c.Classify("system healthy")
	if cls.Alert {
		t.Error("Info-named rule must not raise an alert")
	}
	if cls.Message != "" {
		t.Errorf("expected empty message, got %q", cls.Message)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	c := newClassifier(t, []model.Rule{{Name: "Error", Pattern: "(?i)error"}})

	cls := c.Classify("system healthy")
	if cls.Alert {
		t.Error("expected non-alert classification")
	}
}

func TestClassifyStructuredError(t *testing.T) {
	c := newClassifier(t, nil)

	cls := c.Classify(`{"level": "error", "msg": "db down"}`)
	if !cls.Alert {
		t.Fatal("expected alert for structured error")
	}
	if cls.Message != "structured: db down" {
		t.Errorf("expected 'structured: db down', got %q", cls.Message)
	}
	if cls.Rule != StructuredRule {
		t.Errorf("expected rule %q, got %q", StructuredRule, cls.Rule)
	}
}

func TestClassifyStructuredSeverityField(t *testing.T) {
	c := newClassifier(t, nil)

	cls := c.Classify(`{"severity": "FATAL", "message": "oom killed"}`)
	if !cls.Alert {
		t.Fatal("expected alert via severity field, case-insensitive")
	}
	if cls.Message != "structured: oom killed" {
		t.Errorf("expected 'structured: oom killed', got %q", cls.Message)
	}
}

func TestClassifyStructuredMessagePreference(t *testing.T) {
	c := newClassifier(t, nil)

	// "message" wins over "msg" when both are present.
	cls := c.Classify(`{"level": "panic", "message": "primary", "msg": "secondary"}`)
	if cls.Message != "structured: primary" {
		t.Errorf("expected message field to win, got %q", cls.Message)
	}
}

func TestClassifyStructuredNoMessageField(t *testing.T) {
	c := newClassifier(t, nil)

	line := `{"level": "error"}`
	cls := c.Classify(line)
	if !cls.Alert {
		t.Fatal("expected alert")
	}
	if cls.Message != "structured: "+line {
		t.Errorf("expected raw line fallback, got %q", cls.Message)
	}
}

func TestClassifyStructuredBenignLevelSkipsPatterns(t *testing.T) {
	// The line contains "error" in its payload, which the rule would
	// match, but the structured level says info: the line is benign
	// and must not be re-checked against patterns.
	c := newClassifier(t, []model.Rule{{Name: "Error", Pattern: "(?i)error"}})

	cls := c.Classify(`{"level": "info", "msg": "error rate back to normal"}`)
	if cls.Alert {
		t.Error("benign structured line must not fall through to patterns")
	}
}

func TestClassifyStructuredNoLevelFallsThrough(t *testing.T) {
	// JSON without level/severity is not decided by the structured
	// path; patterns still apply.
	c := newClassifier(t, []model.Rule{{Name: "Error", Pattern: "(?i)error"}})

	cls := c.Classify(`{"msg": "unexpected error in worker"}`)
	if !cls.Alert {
		t.Fatal("expected pattern path to catch the line")
	}
	if cls.Rule != "Error" {
		t.Errorf("expected rule Error, got %s", cls.Rule)
	}
}

func TestClassifyMalformedJSONFallsThrough(t *testing.T) {
	c := newClassifier(t, []model.Rule{{Name: "Error", Pattern: "(?i)error"}})

	cls := c.Classify(`{"level": "error", broken`)
	if !cls.Alert {
		t.Error("malformed JSON containing 'error' should alert via pattern path")
	}
	if cls.Rule != "Error" {
		t.Errorf("expected pattern rule, got %s", cls.Rule)
	}
}

func TestClassifyLeadingWhitespaceJSON(t *testing.T) {
	c := newClassifier(t, nil)

	cls := c.Classify(`   {"level": "error", "msg": "indented"}`)
	if !cls.Alert {
		t.Error("leading whitespace must not disable structured detection")
	}
}
