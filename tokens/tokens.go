// Package tokens estimates token counts and derives the prompt size budget
// from a model's context window.
package tokens

import (
	"strings"
)

// charsPerToken is the divisor of the byte-based estimate.
const charsPerToken = 4

// DefaultContextLimit applies to models missing from the table.
const DefaultContextLimit = 16_000

// contextLimits maps model name prefixes to context windows, most specific
// prefix first.
var contextLimits = []struct {
	prefix string
	limit  int
}{
	{"gpt-4.1", 1_000_000},
	{"gpt-4o", 128_000},
	{"gpt-4-turbo", 128_000},
	{"gpt-4-32k", 32_000},
	{"gpt-4", 8_000},
	{"gpt-3.5", 16_000},
	{"o1", 128_000},
	{"o3", 200_000},
	{"o4", 200_000},
	{"claude", 200_000},
}

// Estimate returns roughly how many tokens s will use: (len+3)/4.
func Estimate(s string) int {
	n := len(s)
	if n == 0 {
		return 0
	}
	return (n + charsPerToken - 1) / charsPerToken
}

// ContextLimit returns the context window of model in tokens.
func ContextLimit(model string) int {
	model = strings.ToLower(model)
	for _, entry := range contextLimits {
		if strings.HasPrefix(model, entry.prefix) {
			return entry.limit
		}
	}
	return DefaultContextLimit
}

// Budget bounds one generation.
type Budget struct {
	// MaxOutputTokens is the completion ceiling sent to the provider.
	MaxOutputTokens int
	// PromptBytes is the maximum serialized size of the prompt.
	PromptBytes int
}

// NewBudget derives the prompt size from what the model's context leaves
// after the output ceiling, capped at maxPromptBytes.
func NewBudget(model string, maxOutputTokens, maxPromptBytes int) Budget {
	available := (ContextLimit(model) - maxOutputTokens) * charsPerToken
	if available < 0 {
		available = 0
	}
	promptBytes := maxPromptBytes
	if maxPromptBytes <= 0 || available < maxPromptBytes {
		promptBytes = available
	}
	return Budget{
		MaxOutputTokens: maxOutputTokens,
		PromptBytes:     promptBytes,
	}
}
