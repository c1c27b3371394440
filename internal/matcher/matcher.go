// Package matcher compiles the configured rule set into a single
// line matcher with first-declared-rule-wins semantics.
package matcher

import (
	"fmt"
	"regexp"

	"github.com/d0wlet/sentinel/internal/model"
)

// ConfigError reports a rule whose pattern is not a valid regular
// expression. Compilation failure is fatal at startup: the monitor
// must not run with a partial rule set.
type ConfigError struct {
	Rule    string
	Pattern string
	Err     error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %q: invalid pattern %q: %v", e.Rule, e.Pattern, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

type compiledRule struct {
	name string
	re   *regexp.Regexp
}

// Matcher holds the compiled rules in declaration order. Immutable
// after Compile, safe for concurrent use.
type Matcher struct {
	rules []compiledRule
}

// Compile builds a Matcher from the ordered rule list. Returns a
// *ConfigError for the first rule whose pattern does not compile.
// An empty rule list is valid and yields a matcher that never matches.
func Compile(rules []model.Rule) (*Matcher, error) {
	m := &Matcher{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, &ConfigError{Rule: r.Name, Pattern: r.Pattern, Err: err}
		}
		m.rules = append(m.rules, compiledRule{name: r.Name, re: re})
	}
	return m, nil
}

// Match returns the index of the lowest-declared rule whose pattern
// matches anywhere in the line, or ok=false if no rule matches.
func (m *Matcher) Match(line string) (int, bool) {
	for i, r := range m.rules {
		if r.re.MatchString(line) {
			return i, true
		}
	}
	return 0, false
}

// Name returns the declared name of the rule at index i.
func (m *Matcher) Name(i int) string {
	return m.rules[i].name
}

// Len returns the number of compiled rules.
func (m *Matcher) Len() int { return len(m.rules) }
