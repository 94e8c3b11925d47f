package format

import (
	"testing"
)

var sanitizeCases = []struct {
	name string
	in   string
	want string
}{
	{"fenced", "```\nfeat(auth): add login\n```", "feat(auth): add login"},
	{"fenced with language", "```text\nfix: handle nil config\n```", "fix: handle nil config"},
	{"inline backticks", "fix: handle nil `Config` in `Load`", "fix: handle nil Config in Load"},
	{"label", "Commit message: feat: add retries", "feat: add retries"},
	{"label on its own line", "Suggested commit message:\n\nrefactor(git): split runner", "refactor(git): split runner"},
	{"branch label", "Branch name: feature/add-login", "feature/add-login"},
	{"quoted", `"docs: update readme"`, "docs: update readme"},
	{"bold", "**feat: add login**", "feat: add login"},
	{"label then quotes", `Commit message: "chore: bump deps"`, "chore: bump deps"},
	{"blank lines", "feat: add login\n\n\n\n- add form\n\n\n- add handler", "feat: add login\n\n- add form\n\n- add handler"},
	{"crlf", "feat: add login\r\n\r\n- add form\r\n", "feat: add login\n\n- add form"},
	{"whitespace", "   \n  fix: trim input  \n\n", "fix: trim input"},
	{"untouched", "feat(api)!: drop v1 endpoints", "feat(api)!: drop v1 endpoints"},
	{"inner quotes kept", `fix: quote "name" field`, `fix: quote "name" field`},
	{"empty", "", ""},
}

func TestSanitize(t *testing.T) {
	for _, tt := range sanitizeCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSanitize_IdempotentAndNeverGrows(t *testing.T) {
	inputs := []string{
		"```\n```\nfeat: nested fences\n```\n```",
		"Commit message: Commit message: fix: twice",
		"'\"feat: double quoted\"'",
		"```go\nfunc main() {}\n```\n\nsome trailing chatter",
		"  **Summary:**  feat: x  ",
		"\n\n\n",
		"``` ```",
		"- bullet\n\n\n\n- bullet",
	}
	for _, tt := range sanitizeCases {
		inputs = append(inputs, tt.in)
	}

	for _, in := range inputs {
		once := Sanitize(in)
		twice := Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize is not idempotent for %q: %q then %q", in, once, twice)
		}
		if len(once) > len(in) {
			t.Errorf("Sanitize grew %q to %q", in, once)
		}
	}
}
