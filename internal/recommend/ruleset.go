// Package recommend holds the heuristic pattern rules behind the
// "can prompt recommendation" query. A rule names a language and a regular
// expression; a document matches when any code cell of that language
// contains the pattern within its first few lines. The scan is advisory:
// false negatives are acceptable, positional detail is not reported.
package recommend

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"nbdiff/internal/errors"
	"nbdiff/internal/notebook"
)

// RulesetFile is the default filename for recommendation rule declarations
const RulesetFile = "RECOMMEND.toml"

// rulesetSchemaVersion is the supported declaration schema version
const rulesetSchemaVersion = 1

// Rule declares one pattern to look for.
type Rule struct {
	// ID is a short identifier for the rule (e.g. "pandas-import")
	ID string `toml:"id"`

	// Language restricts the rule to code cells with this language id
	Language string `toml:"language"`

	// Pattern is the regular expression matched against leading lines
	Pattern string `toml:"pattern"`

	// MaxLines overrides the scan's line cap for this rule (optional)
	MaxLines int `toml:"max_lines,omitempty"`

	compiled *regexp.Regexp
}

// Ruleset is the root structure of RECOMMEND.toml.
type Ruleset struct {
	// Version is the schema version
	Version int `toml:"version"`

	// Rules is the list of declared rules
	Rules []Rule `toml:"rule"`
}

// DefaultRuleset returns the built-in rules used when no declaration file
// is configured.
func DefaultRuleset() *Ruleset {
	rs := &Ruleset{
		Version: rulesetSchemaVersion,
		Rules: []Rule{
			{
				ID:       "pandas-import",
				Language: "python",
				Pattern:  `^\s*(import\s+pandas|from\s+pandas\s+import)`,
			},
			{
				ID:       "matplotlib-import",
				Language: "python",
				Pattern:  `^\s*(import\s+matplotlib|from\s+matplotlib\s+import)`,
			},
		},
	}
	// Built-in patterns always compile.
	_ = rs.Compile()
	return rs
}

// ParseRulesetFile parses and compiles a RECOMMEND.toml file.
func ParseRulesetFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset: %w", err)
	}

	var rs Ruleset
	if err := toml.Unmarshal(data, &rs); err != nil {
		return nil, errors.New(errors.RulesetInvalid, "failed to parse "+RulesetFile, err)
	}
	if rs.Version != rulesetSchemaVersion {
		return nil, errors.Newf(errors.RulesetInvalid, "unsupported ruleset version %d", rs.Version)
	}
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// Compile compiles every rule's pattern. Must be called before Match.
func (rs *Ruleset) Compile() error {
	for i := range rs.Rules {
		re, err := regexp.Compile(rs.Rules[i].Pattern)
		if err != nil {
			return errors.New(errors.RulesetInvalid,
				fmt.Sprintf("rule %q has an invalid pattern", rs.Rules[i].ID), err)
		}
		rs.Rules[i].compiled = re
	}
	return nil
}

// Match scans the document's code cells against the ruleset. Only the first
// maxLines lines of each cell are considered (a rule may narrow, never
// widen, that cap). Markup cells never match.
func (rs *Ruleset) Match(doc *notebook.Document, maxLines int) bool {
	for i := 0; i < doc.Len(); i++ {
		cell := doc.Cell(i)
		if cell.Kind != notebook.CodeCell {
			continue
		}
		for _, rule := range rs.Rules {
			if rule.compiled == nil || rule.Language != cell.Language {
				continue
			}
			limit := maxLines
			if rule.MaxLines > 0 && rule.MaxLines < limit {
				limit = rule.MaxLines
			}
			if scanLeadingLines(cell.Value(), limit, rule.compiled) {
				return true
			}
		}
	}
	return false
}

// scanLeadingLines matches re against each of the first maxLines lines.
func scanLeadingLines(text string, maxLines int, re *regexp.Regexp) bool {
	rest := text
	for n := 0; n < maxLines && rest != ""; n++ {
		line := rest
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			line = rest[:idx]
			rest = rest[idx+1:]
		} else {
			rest = ""
		}
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
