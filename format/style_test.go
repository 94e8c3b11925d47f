package format

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/bitrise-io/sage/model"
)

func TestFormat_StandardAcceptsConventionalCommit(t *testing.T) {
	clean := Sanitize("```\nfeat(auth): add login\n```")

	artifact, err := Format(clean, model.StyleStandard)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if artifact.Text != "feat(auth): add login" {
		t.Errorf("Expected message unchanged, got %q", artifact.Text)
	}
	if artifact.Style != model.StyleStandard || artifact.Kind != model.KindCommit {
		t.Errorf("Unexpected artifact tags: %+v", artifact)
	}
}

func TestFormat_StandardMissingPrefix(t *testing.T) {
	_, err := Format("Add a login form to the settings page", model.StyleStandard)
	if err == nil {
		t.Fatal("Expected an error for a message without a type prefix")
	}

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("Expected *FormatError, got %T", err)
	}
	if !errors.Is(err, ErrMissingPrefix) {
		t.Errorf("Expected ErrMissingPrefix, got %v", fe.Reason)
	}
	if fe.Text != "Add a login form to the settings page" {
		t.Errorf("Expected the text to be kept for manual editing, got %q", fe.Text)
	}
	if !IsFormatError(err) {
		t.Error("Expected IsFormatError to be true")
	}
}

func TestFormat_Standard(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"fix: handle nil config", nil},
		{"feat(api)!: drop v1 endpoints", nil},
		{"chore(deps): bump cobra", nil},
		{"fix:missing space", ErrMissingPrefix},
		{"(scope): no type", ErrMissingPrefix},
		{"feat: add login\n\n- add form", ErrMultiline},
	}
	for _, tt := range tests {
		_, err := Format(tt.in, model.StyleStandard)
		if !errors.Is(err, tt.wantErr) && !(err == nil && tt.wantErr == nil) {
			t.Errorf("Format(%q): expected %v, got %v", tt.in, tt.wantErr, err)
		}
	}
}

func TestFormat_Short(t *testing.T) {
	inputs := []string{
		"fix typo",
		"update the dependency versions and regenerate the lock file for the build",
		"feat(settings): allow choosing a default commit style from the config file",
		strings.Repeat("word ", 30),
	}
	for _, in := range inputs {
		artifact, err := Format(in, model.StyleShort)
		if err != nil {
			t.Fatalf("Format(%q): unexpected error %v", in, err)
		}
		if utf8.RuneCountInString(artifact.Text) > MaxSummaryLength {
			t.Errorf("Expected at most %d characters, got %q", MaxSummaryLength, artifact.Text)
		}
		if strings.Contains(artifact.Text, "\n") {
			t.Errorf("Expected a single line, got %q", artifact.Text)
		}
		if !strings.HasPrefix(in, artifact.Text) {
			t.Errorf("Expected a prefix of the input cut at a word, got %q", artifact.Text)
		}
		if len(artifact.Text) < len(strings.TrimSpace(in)) && in[len(artifact.Text)] != ' ' && in[len(artifact.Text)] != ',' {
			t.Errorf("Expected the cut to fall on a word boundary, got %q", artifact.Text)
		}
	}

	if _, err := Format(strings.Repeat("x", 60), model.StyleShort); !errors.Is(err, ErrUnbreakable) {
		t.Errorf("Expected ErrUnbreakable, got %v", err)
	}
	if _, err := Format("fix\nmore", model.StyleShort); !errors.Is(err, ErrMultiline) {
		t.Errorf("Expected ErrMultiline, got %v", err)
	}
}

func TestFormat_Detailed(t *testing.T) {
	in := "feat(auth): add login flow\n- add login form\n* validate email\n  before submit\n\n\n- store session token"

	artifact, err := Format(in, model.StyleDetailed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "feat(auth): add login flow\n\n- add login form\n- validate email\n  before submit\n- store session token"
	if artifact.Text != want {
		t.Errorf("Expected:\n%s\ngot:\n%s", want, artifact.Text)
	}

	parts := strings.Split(artifact.Text, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("Expected exactly one blank line, got %d parts", len(parts))
	}
	if utf8.RuneCountInString(parts[0]) > MaxSummaryLength {
		t.Errorf("Expected summary of at most %d characters", MaxSummaryLength)
	}
}

func TestFormat_DetailedRejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"no body", "feat: add login", ErrMissingBody},
		{"long summary", "feat(auth): add a login flow with email validation and session storage\n\n- a", ErrSummaryTooLong},
		{"prose body", "feat: add login\n\nThis adds a login form.", ErrBodyNotBulleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Format(tt.in, model.StyleDetailed); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFormat_Empty(t *testing.T) {
	for _, style := range model.Styles {
		if _, err := Format("   ", style); !errors.Is(err, ErrEmpty) {
			t.Errorf("Style %s: expected ErrEmpty, got %v", style, err)
		}
	}
}
