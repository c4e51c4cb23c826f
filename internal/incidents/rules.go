package incidents

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule maps an errorType substring to a classification.
type Rule struct {
	ID             string   `yaml:"id"`
	Contains       string   `yaml:"contains"`
	Severity       Severity `yaml:"severity"`
	Summary        string   `yaml:"summary"`
	Recommendation string   `yaml:"recommendation"`
}

func (r Rule) Classification() Classification {
	return Classification{Severity: r.Severity, Summary: r.Summary, Recommendation: r.Recommendation}
}

// RuleSet is evaluated in order; the first rule whose Contains is a
// substring of the error type wins, otherwise Fallback applies.
type RuleSet struct {
	Rules    []Rule          `yaml:"rules"`
	Fallback *Classification `yaml:"fallback"`
}

var defaultFallback = Classification{
	Severity:       SeverityMedium,
	Summary:        "Unhandled Lambda failure",
	Recommendation: "Check CloudWatch logs for root cause",
}

// DefaultRuleSet returns the built-in timeout and access-denied rules.
func DefaultRuleSet() *RuleSet {
	fb := defaultFallback
	return &RuleSet{
		Rules: []Rule{
			{
				ID:             "timeout",
				Contains:       "Timeout",
				Severity:       SeverityHigh,
				Summary:        "Lambda execution timed out",
				Recommendation: "Increase timeout or optimize function logic",
			},
			{
				ID:             "access_denied",
				Contains:       "AccessDenied",
				Severity:       SeverityHigh,
				Summary:        "Permission denied error",
				Recommendation: "Review IAM permissions",
			},
		},
		Fallback: &fb,
	}
}

// Classify is total: every error type yields a classification.
func (rs *RuleSet) Classify(errorType string) Classification {
	for _, r := range rs.Rules {
		if strings.Contains(errorType, r.Contains) {
			return r.Classification()
		}
	}
	if rs.Fallback != nil {
		return *rs.Fallback
	}
	return defaultFallback
}

func (rs *RuleSet) Validate() error {
	for i, r := range rs.Rules {
		name := r.ID
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		if r.Contains == "" {
			return fmt.Errorf("rule %s: contains is required", name)
		}
		if !r.Severity.Valid() {
			return fmt.Errorf("rule %s: invalid severity %q", name, r.Severity)
		}
		if r.Summary == "" {
			return fmt.Errorf("rule %s: summary is required", name)
		}
	}
	if rs.Fallback != nil && !rs.Fallback.Severity.Valid() {
		return fmt.Errorf("fallback: invalid severity %q", rs.Fallback.Severity)
	}
	return nil
}

// LoadRules reads a YAML rule file. An empty path yields DefaultRuleSet.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRuleSet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if rs.Fallback == nil {
		fb := defaultFallback
		rs.Fallback = &fb
	}
	return &rs, nil
}
