package common

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrapString(t *testing.T) {
	in := "refactor the config loader so that missing files fall back to defaults"
	got := WrapString(in, 30)

	for _, line := range strings.Split(got, "\n") {
		if len(line) > 30 {
			t.Errorf("Expected lines of at most 30 characters, got %q", line)
		}
	}
	if strings.Join(strings.Fields(got), " ") != in {
		t.Errorf("Expected wrapping to keep every word, got %q", got)
	}
}

func TestWrapString_LongWord(t *testing.T) {
	got := WrapString("supercalifragilisticexpialidocious is long", 10)
	want := "supercalifragilisticexpialidocious\nis long"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	if got := WrapString("unbreakablewordwithoutspaces", 5); got != "unbreakablewordwithoutspaces" {
		t.Errorf("Expected a single word to be left alone, got %q", got)
	}
}

func TestWrapText_IndentsBulletContinuations(t *testing.T) {
	in := "feat: add login\n\n- add a login form that validates the email address before submitting"
	got := WrapText(in, 40)

	lines := strings.Split(got, "\n")
	if lines[0] != "feat: add login" || lines[1] != "" {
		t.Fatalf("Expected summary and blank line untouched, got %q", got)
	}
	for _, line := range lines[3:] {
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("Expected continuation line to be indented, got %q", line)
		}
	}
}

func TestTruncateAtWord(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
		ok    bool
	}{
		{"fits", "fix typo in readme", 50, "fix typo in readme", true},
		{"exact", "abcde fghij", 11, "abcde fghij", true},
		{"cut at space", "update the dependency versions and regenerate the lock file", 50, "update the dependency versions and regenerate the", true},
		{"space at limit", "aaaa bbbb", 4, "aaaa", true},
		{"trailing punctuation", "add login, logout and session refresh", 12, "add login", true},
		{"single long word", strings.Repeat("x", 60), 50, "", false},
		{"multibyte", "ajouter la vérification de l'adresse électronique à l'inscription", 30, "ajouter la vérification de", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := TruncateAtWord(tt.in, tt.limit)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if utf8.RuneCountInString(got) > tt.limit {
				t.Errorf("Expected at most %d characters, got %d", tt.limit, utf8.RuneCountInString(got))
			}
		})
	}
}
