package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/generate"
	"github.com/bitrise-io/sage/git"
	"github.com/bitrise-io/sage/llm"
)

func TestPreviewDiff(t *testing.T) {
	small := "diff --git a/a b/a\n+x\n"
	if got, truncated := previewDiff(small); got != small || truncated {
		t.Errorf("Expected a small diff unchanged, got %q (%v)", got, truncated)
	}

	large := strings.Repeat("+0123456789abcdefghij\n", 200)
	got, truncated := previewDiff(large)
	if !truncated {
		t.Fatal("Expected the preview to be truncated")
	}
	if len(got) > previewBytes {
		t.Errorf("Expected at most %d bytes, got %d", previewBytes, len(got))
	}
	if !strings.HasSuffix(got, "abcdefghij") {
		t.Errorf("Expected the preview to end on a whole line, got %q", got[len(got)-20:])
	}
}

func TestPrintError(t *testing.T) {
	out := &bytes.Buffer{}
	PrintError(out, errs.Configuration("no API key configured for openai", "run `sage config --provider openai --key <key>`"))

	if !strings.Contains(out.String(), "Error:") || !strings.Contains(out.String(), "no API key configured for openai") {
		t.Errorf("Expected the error message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Tip:") || !strings.Contains(out.String(), "sage config --provider openai") {
		t.Errorf("Expected the hint, got %q", out.String())
	}

	out.Reset()
	PrintError(out, errs.Aborted(context.Canceled))
	if !strings.Contains(out.String(), "Aborted.") || strings.Contains(out.String(), "Error:") {
		t.Errorf("Expected an abort notice, got %q", out.String())
	}

	out.Reset()
	PrintError(out, nil)
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}

func TestValidateProvider(t *testing.T) {
	if name, err := validateProvider(" Claude "); err != nil || name != "claude" {
		t.Errorf("Expected claude, got %q (%v)", name, err)
	}
	if _, err := validateProvider("gemini"); !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("Expected a configuration error, got %v", err)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"true", "YES", "on", "1"} {
		if b, err := parseBool(v); err != nil || !b {
			t.Errorf("Expected %q to be true", v)
		}
	}
	for _, v := range []string{"false", "No", "off", "0"} {
		if b, err := parseBool(v); err != nil || b {
			t.Errorf("Expected %q to be false", v)
		}
	}
	if _, err := parseBool("maybe"); err == nil {
		t.Error("Expected an error")
	}
}

func TestNewPipeline(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("LLM_API_KEY", "")

	settings := common.WithDefaultSettings()
	settings.SetProvider("claude", "", "", "")

	_, err := newPipeline(settings)
	if !errors.Is(err, errs.ErrConfiguration) {
		t.Errorf("Expected a configuration error without a key, got %v", err)
	}

	settings.SetProvider("claude", "sk-ant-test", "", "")
	if _, err := newPipeline(settings); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestPrintStats(t *testing.T) {
	out := &bytes.Buffer{}
	printStats(out, generate.Result{})
	if out.Len() != 0 {
		t.Errorf("Expected nothing before a provider call, got %q", out.String())
	}

	printStats(out, generate.Result{Response: llm.Response{Provider: "openai", Model: "gpt-4.1", Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 3}}})
	if !strings.Contains(out.String(), "10 prompt + 3 completion") {
		t.Errorf("Expected token usage, got %q", out.String())
	}
}

// recordingRunner answers every git call with output and records the args.
type recordingRunner struct {
	output string
	err    error
	calls  []string
}

func (r *recordingRunner) Run(_ string, args ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(args, " "))
	return r.output, r.err
}

func TestStageChanges(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		all   bool
		want  []string
	}{
		{"nothing", nil, false, nil},
		{"files", []string{"main.go", "cmd/branch.go"}, false, []string{"add -- main.go cmd/branch.go"}},
		{"files win over all", []string{"main.go"}, true, []string{"add -- main.go"}},
		{"all", nil, true, []string{"add --all"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &recordingRunner{}
			if err := stageChanges(git.NewClient(runner), tt.files, tt.all); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if strings.Join(runner.calls, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Expected calls %v, got %v", tt.want, runner.calls)
			}
		})
	}
}

func TestStageChanges_RejectsUnsafePath(t *testing.T) {
	runner := &recordingRunner{}
	err := stageChanges(git.NewClient(runner), []string{"../outside.go"}, false)
	if !errors.Is(err, errs.ErrGit) {
		t.Errorf("Expected a git error, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("Expected no git call, got %v", runner.calls)
	}
}

func TestPrintCurrentBranch(t *testing.T) {
	out := &bytes.Buffer{}
	printCurrentBranch(out, git.NewClient(&recordingRunner{output: "main\n"}))
	if !strings.Contains(out.String(), "Current branch: main") {
		t.Errorf("Expected the current branch, got %q", out.String())
	}

	out.Reset()
	printCurrentBranch(out, git.NewClient(&recordingRunner{err: errors.New("not a repo")}))
	if out.Len() != 0 {
		t.Errorf("Expected nothing when the branch cannot be read, got %q", out.String())
	}
}
