package tokens

import "testing"

func TestEstimate(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"feat(auth): add login", 6},
	}
	for _, tt := range tests {
		if got := Estimate(tt.in); got != tt.want {
			t.Errorf("Estimate(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestContextLimit(t *testing.T) {
	tests := map[string]int{
		"gpt-4o-mini":              128_000,
		"gpt-4":                    8_000,
		"gpt-4-turbo":              128_000,
		"claude-3-7-sonnet-latest": 200_000,
		"Claude-Opus":              200_000,
		"llama3":                   DefaultContextLimit,
	}
	for model, want := range tests {
		if got := ContextLimit(model); got != want {
			t.Errorf("ContextLimit(%s): expected %d, got %d", model, want, got)
		}
	}
}

func TestNewBudget(t *testing.T) {
	b := NewBudget("gpt-4o", 300, 16000)
	if b.MaxOutputTokens != 300 {
		t.Errorf("Expected 300 output tokens, got %d", b.MaxOutputTokens)
	}
	if b.PromptBytes != 16000 {
		t.Errorf("Expected the cap to win for a large context, got %d", b.PromptBytes)
	}

	// 8000 - 300 tokens left, 4 bytes each.
	b = NewBudget("gpt-4", 300, 100000)
	if b.PromptBytes != 7700*4 {
		t.Errorf("Expected %d prompt bytes, got %d", 7700*4, b.PromptBytes)
	}

	b = NewBudget("gpt-4", 9000, 16000)
	if b.PromptBytes != 0 {
		t.Errorf("Expected no room when the output ceiling exceeds the context, got %d", b.PromptBytes)
	}
}
