package review

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
	cerr "github.com/cockroachdb/errors"
	"mvdan.cc/sh/v3/shell"
)

// Editor lets the user rewrite text.
type Editor interface {
	Edit(ctx context.Context, text string) (string, error)
}

// EditorError is a failed edit: the editor could not start or exited
// with an error.
type EditorError struct {
	Command string
	Err     error
}

func (e *EditorError) Error() string {
	return fmt.Sprintf("editor %q: %v", e.Command, e.Err)
}

func (e *EditorError) Unwrap() error {
	return e.Err
}

// Is reports the editor error category.
func (e *EditorError) Is(target error) bool {
	return target == errs.ErrEditor
}

func newEditorError(command string, err error) error {
	return cerr.WithHint(&EditorError{Command: command, Err: err},
		"set $VISUAL or $EDITOR to an installed editor, for example `export EDITOR=\"code --wait\"`")
}

// EditorCommand returns the editor selected by $VISUAL or $EDITOR, or the
// platform default.
func EditorCommand() string {
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if cmd := os.Getenv(name); cmd != "" {
			return cmd
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// ExternalEditor edits text in a temporary file with an external program.
type ExternalEditor struct {
	// Command is split with shell rules, so "code --wait" works.
	Command string
	// Dir holds the temporary file; the system default when empty.
	Dir string
}

// NewExternalEditor returns the editor named by the environment.
func NewExternalEditor() *ExternalEditor {
	return &ExternalEditor{Command: EditorCommand()}
}

// Edit writes text to a temporary file, runs the editor on it and returns
// the file content verbatim once the editor exits. The file is removed on
// every path.
func (e *ExternalEditor) Edit(ctx context.Context, text string) (string, error) {
	args, err := shell.Fields(e.Command, os.Getenv)
	if err != nil {
		return "", newEditorError(e.Command, cerr.Wrap(err, "parse editor command"))
	}
	if len(args) == 0 {
		return "", newEditorError(e.Command, cerr.New("no editor configured"))
	}

	f, err := os.CreateTemp(e.Dir, "sage-*.txt")
	if err != nil {
		return "", newEditorError(e.Command, cerr.Wrap(err, "create temporary file"))
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("Failed to remove %s: %v", path, err)
		}
	}()

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", newEditorError(e.Command, cerr.Wrap(err, "write temporary file"))
	}
	if err := f.Close(); err != nil {
		return "", newEditorError(e.Command, cerr.Wrap(err, "close temporary file"))
	}

	logger.Debugf("Launching editor: %s %s", e.Command, path)

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", newEditorError(e.Command, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", newEditorError(e.Command, cerr.Wrap(err, "read edited file"))
	}
	return string(data), nil
}
