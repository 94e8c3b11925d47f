package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/sage/errs"
)

func scriptEditor(t *testing.T, script string) (*ExternalEditor, string) {
	t.Helper()
	dir := t.TempDir()
	record := filepath.Join(dir, "path")
	return &ExternalEditor{
		Command: `sh -c 'printf "%s" "$1" > ` + record + "; " + script + "' sh",
		Dir:     dir,
	}, record
}

func assertRemoved(t *testing.T, record string) {
	t.Helper()
	path, err := os.ReadFile(record)
	if err != nil {
		t.Fatalf("Expected the editor to record the file path: %v", err)
	}
	if _, err := os.Stat(string(path)); !os.IsNotExist(err) {
		t.Errorf("Expected %s to be removed, stat returned %v", path, err)
	}
}

func TestExternalEditor_Edit(t *testing.T) {
	editor, record := scriptEditor(t, `printf "feat: edited\n\n" > "$1"`)

	text, err := editor.Edit(context.Background(), "feat: original")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "feat: edited\n\n" {
		t.Errorf("Expected the file content verbatim, got %q", text)
	}
	assertRemoved(t, record)
}

func TestExternalEditor_ReceivesArtifactText(t *testing.T) {
	dir := t.TempDir()
	seen := filepath.Join(dir, "seen")
	editor, _ := scriptEditor(t, `cp "$1" `+seen)

	text, err := editor.Edit(context.Background(), "fix: keep me")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if text != "fix: keep me" {
		t.Errorf("Expected unchanged text, got %q", text)
	}
	data, err := os.ReadFile(seen)
	if err != nil || string(data) != "fix: keep me" {
		t.Errorf("Expected the editor to see the artifact text, got %q (%v)", data, err)
	}
}

func TestExternalEditor_NonZeroExit(t *testing.T) {
	editor, record := scriptEditor(t, "exit 3")

	_, err := editor.Edit(context.Background(), "feat: original")
	if !errors.Is(err, errs.ErrEditor) {
		t.Fatalf("Expected an editor error, got %v", err)
	}
	var editorErr *EditorError
	if !errors.As(err, &editorErr) {
		t.Fatalf("Expected *EditorError, got %T", err)
	}
	if errs.ExitCode(err) != errs.ExitEditor {
		t.Errorf("Expected the editor exit code, got %d", errs.ExitCode(err))
	}
	assertRemoved(t, record)
}

func TestExternalEditor_LaunchFailure(t *testing.T) {
	dir := t.TempDir()
	editor := &ExternalEditor{Command: "sage-no-such-editor --wait", Dir: dir}

	_, err := editor.Edit(context.Background(), "feat: original")
	if !errors.Is(err, errs.ErrEditor) {
		t.Fatalf("Expected an editor error, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected the temporary file to be removed, found %d entries", len(entries))
	}
}

func TestExternalEditor_NoCommand(t *testing.T) {
	_, err := (&ExternalEditor{Command: "  "}).Edit(context.Background(), "x")
	if !errors.Is(err, errs.ErrEditor) {
		t.Errorf("Expected an editor error, got %v", err)
	}
}

func TestEditorCommand(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "nano")
	if got := EditorCommand(); got != "nano" {
		t.Errorf("Expected nano, got %s", got)
	}

	t.Setenv("VISUAL", "code --wait")
	if got := EditorCommand(); got != "code --wait" {
		t.Errorf("Expected $VISUAL to win, got %s", got)
	}

	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	if got := EditorCommand(); got == "" {
		t.Error("Expected a default editor")
	}
}
