package incidents

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleSetClassify(t *testing.T) {
	rs := DefaultRuleSet()
	cases := []struct {
		errorType string
		want      Classification
	}{
		{"TimeoutError", Classification{SeverityHigh, "Lambda execution timed out", "Increase timeout or optimize function logic"}},
		{"Task.Timeout", Classification{SeverityHigh, "Lambda execution timed out", "Increase timeout or optimize function logic"}},
		{"AccessDeniedException", Classification{SeverityHigh, "Permission denied error", "Review IAM permissions"}},
		{"UnknownError", Classification{SeverityMedium, "Unhandled Lambda failure", "Check CloudWatch logs for root cause"}},
		{"SomeOtherError", Classification{SeverityMedium, "Unhandled Lambda failure", "Check CloudWatch logs for root cause"}},
		{"", Classification{SeverityMedium, "Unhandled Lambda failure", "Check CloudWatch logs for root cause"}},
		// Substring match is case-sensitive.
		{"timeoutError", Classification{SeverityMedium, "Unhandled Lambda failure", "Check CloudWatch logs for root cause"}},
		{"accessdenied", Classification{SeverityMedium, "Unhandled Lambda failure", "Check CloudWatch logs for root cause"}},
	}
	for _, tc := range cases {
		t.Run(tc.errorType, func(t *testing.T) {
			assert.Equal(t, tc.want, rs.Classify(tc.errorType))
		})
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	got := DefaultRuleSet().Classify("AccessDeniedTimeout")
	assert.Equal(t, "Lambda execution timed out", got.Summary)
}

func TestClassifyWithoutFallbackUsesBuiltin(t *testing.T) {
	rs := &RuleSet{}
	assert.Equal(t, SeverityMedium, rs.Classify("anything").Severity)
}

func TestParseRules(t *testing.T) {
	data := []byte(`
rules:
  - id: throttle
    contains: Throttl
    severity: HIGH
    summary: Function throttled
    recommendation: Raise reserved concurrency
  - id: oom
    contains: OutOfMemory
    severity: MEDIUM
    summary: Function ran out of memory
    recommendation: Increase memory size
`)
	rs, err := ParseRules(data)
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)

	assert.Equal(t, "Function throttled", rs.Classify("ThrottlingException").Summary)
	assert.Equal(t, SeverityMedium, rs.Classify("Runtime.OutOfMemory").Severity)
	assert.Equal(t, defaultFallback, rs.Classify("TimeoutError"))
}

func TestParseRulesCustomFallback(t *testing.T) {
	rs, err := ParseRules([]byte(`
fallback:
  severity: HIGH
  summary: Anything
  recommendation: Page someone
`))
	require.NoError(t, err)
	assert.Equal(t, Classification{SeverityHigh, "Anything", "Page someone"}, rs.Classify("x"))
}

func TestParseRulesValidation(t *testing.T) {
	cases := map[string]string{
		"missing contains": "rules:\n  - id: a\n    severity: HIGH\n    summary: s\n",
		"bad severity":     "rules:\n  - id: a\n    contains: X\n    severity: LOW\n    summary: s\n",
		"missing summary":  "rules:\n  - id: a\n    contains: X\n    severity: HIGH\n",
		"bad fallback":     "fallback:\n  severity: urgent\n  summary: s\n",
		"not yaml":         "rules: [",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRules([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadRules(t *testing.T) {
	rs, err := LoadRules("")
	require.NoError(t, err)
	assert.Len(t, rs.Rules, 2)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - contains: Boom\n    severity: HIGH\n    summary: boom\n"), 0o600))
	rs, err = LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, SeverityHigh, rs.Classify("BigBoom").Severity)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
