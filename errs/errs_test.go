package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	cerr "github.com/cockroachdb/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"configuration", Configuration("no api key", "run sage config"), ExitConfiguration},
		{"diff", Diff(errors.New("no changes"), ""), ExitDiff},
		{"git", Git(errors.New("commit failed"), ""), ExitGit},
		{"wrapped configuration", cerr.Wrap(Configuration("bad", ""), "loading"), ExitConfiguration},
		{"user abort", ErrAborted, ExitOK},
		{"interrupt", Aborted(context.Canceled), ExitInterrupted},
		{"unknown", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("Expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHints(t *testing.T) {
	err := Configuration("no api key configured for openai", "run `sage config -p openai -k <key>`")

	hints := Hints(err)
	if len(hints) != 1 {
		t.Fatalf("Expected 1 hint, got %d", len(hints))
	}
	if hints[0] != "run `sage config -p openai -k <key>`" {
		t.Errorf("Unexpected hint: %s", hints[0])
	}

	if err.Error() != "no api key configured for openai" {
		t.Errorf("Expected message to be preserved, got %s", err.Error())
	}
}

func TestAborted(t *testing.T) {
	if !IsAborted(Aborted(nil)) {
		t.Error("Expected Aborted(nil) to be an abort")
	}

	err := Aborted(context.Canceled)
	if !IsAborted(err) {
		t.Error("Expected wrapped cancellation to be an abort")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected cause to be preserved")
	}

	if IsAborted(Git(errors.New("x"), "")) {
		t.Error("Expected git error not to be an abort")
	}
}

func TestCategoriesMatchStdlibIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		category error
	}{
		{"configuration", Configuration("no api key", "run sage config"), ErrConfiguration},
		{"diff", Diff(errors.New("no changes"), "stage something"), ErrDiff},
		{"git", Git(errors.New("commit failed"), ""), ErrGit},
		{"aborted", Aborted(context.Canceled), ErrAborted},
		{"wrapped git", cerr.Wrap(Git(errors.New("push failed"), ""), "pushing"), ErrGit},
		{"fmt wrapped diff", fmt.Errorf("reading: %w", Diff(errors.New("bad diff"), "")), ErrDiff},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.category) {
				t.Errorf("Expected errors.Is to match %v for %v", tt.category, tt.err)
			}
			if !cerr.Is(tt.err, tt.category) {
				t.Errorf("Expected cerr.Is to match %v for %v", tt.category, tt.err)
			}
			for _, other := range []error{ErrConfiguration, ErrDiff, ErrGit, ErrAborted} {
				if other != tt.category && errors.Is(tt.err, other) {
					t.Errorf("Expected %v not to match %v", tt.err, other)
				}
			}
		})
	}
}

func TestCategoryKeepsMessageAndHint(t *testing.T) {
	err := Git(errors.New("branch \"x\" already exists"), "pick another name")

	if err.Error() != "branch \"x\" already exists" {
		t.Errorf("Expected message to be preserved, got %s", err.Error())
	}
	hints := Hints(cerr.Wrap(err, "creating branch"))
	if len(hints) != 1 || hints[0] != "pick another name" {
		t.Errorf("Expected the hint to survive wrapping, got %v", hints)
	}
}
