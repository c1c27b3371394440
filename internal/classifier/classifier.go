// Package classifier decides whether a log line is alert-worthy.
//
// Structured (JSON) lines are inspected first: a level/severity field
// of error, panic or fatal makes the line an alert. Everything else
// goes through the compiled rule set, where a hit only counts as an
// alert if the matching rule's name says error or panic.
package classifier

import (
	"strings"

	"github.com/valyala/fastjson"

	"github.com/d0wlet/sentinel/internal/matcher"
	"github.com/d0wlet/sentinel/internal/model"
)

// StructuredRule is the rule name reported for alerts raised by the
// structured (JSON level field) path rather than a configured pattern.
const StructuredRule = "structured"

// Classifier classifies lines against a compiled rule set. Safe for
// concurrent use; the ingestion pipeline is its only intended caller.
type Classifier struct {
	matcher *matcher.Matcher
	pool    fastjson.ParserPool
}

// New creates a Classifier backed by the given compiled matcher.
func New(m *matcher.Matcher) *Classifier {
	return &Classifier{matcher: m}
}

// Classify inspects a single line. It never fails: malformed JSON is
// simply not structured and falls back to the pattern path.
func (c *Classifier) Classify(line string) model.Classification {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if cls, decided := c.classifyStructured(trimmed, line); decided {
			return cls
		}
	}
	return c.classifyPattern(line)
}

// classifyStructured handles JSON-formatted lines. decided=false means
// the structured path does not apply (parse failure, or no
// level/severity field) and the caller should try patterns. A line
// that parses and carries a non-severe level is decided: it is benign
// and is not re-checked against patterns.
func (c *Classifier) classifyStructured(trimmed, raw string) (model.Classification, bool) {
	p := c.pool.Get()
	defer c.pool.Put(p)

	v, err := p.Parse(trimmed)
	if err != nil {
		return model.Classification{}, false
	}

	level, ok := stringField(v, "level", "severity")
	if !ok {
		return model.Classification{}, false
	}

	switch strings.ToLower(level) {
	case "error", "panic", "fatal":
	default:
		return model.Classification{}, true
	}

	msg, ok := stringField(v, "message", "msg")
	if !ok {
		msg = raw
	}
	return model.Classification{
		Alert:   true,
		Rule:    StructuredRule,
		Message: "structured: " + msg,
	}, true
}

// classifyPattern runs the line through the rule set. A match is only
// an alert when the rule's name contains "error" or "panic"; an
// "Info"-style rule can match without ever alerting.
func (c *Classifier) classifyPattern(line string) model.Classification {
	idx, ok := c.matcher.Match(line)
	if !ok {
		return model.Classification{}
	}

	name := c.matcher.Name(idx)
	lower := strings.ToLower(name)
	if !strings.Contains(lower, "error") && !strings.Contains(lower, "panic") {
		return model.Classification{}
	}
	return model.Classification{Alert: true, Rule: name, Message: line}
}

// stringField returns the first of the given keys that holds a string
// value. Values are copied out of the parser's buffer.
func stringField(v *fastjson.Value, keys ...string) (string, bool) {
	for _, k := range keys {
		if f := v.Get(k); f != nil && f.Type() == fastjson.TypeString {
			return string(f.GetStringBytes()), true
		}
	}
	return "", false
}
