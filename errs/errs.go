package errs

import (
	"context"

	cerr "github.com/cockroachdb/errors"
)

// Category sentinels. Errors report their category from an Is method, so
// both errors.Is and cerr.Is match them across wrapping.
var (
	ErrConfiguration = cerr.New("configuration error")
	ErrDiff          = cerr.New("diff error")
	ErrProvider      = cerr.New("provider error")
	ErrEditor        = cerr.New("editor error")
	ErrGit           = cerr.New("git error")
	ErrAborted       = cerr.New("aborted")
)

// categoryError tags a cause with one of the category sentinels.
type categoryError struct {
	cause    error
	category error
}

func (e *categoryError) Error() string { return e.cause.Error() }

func (e *categoryError) Unwrap() error { return e.cause }

func (e *categoryError) Is(target error) bool {
	return target == e.category
}

func tag(err, category error) error {
	return &categoryError{cause: err, category: category}
}

// Exit codes, one per terminal category.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitDiff          = 3
	ExitProvider      = 4
	ExitEditor        = 5
	ExitGit           = 6
	ExitInterrupted   = 130
)

// Configuration returns a ConfigurationError carrying a remediation hint.
func Configuration(msg, hint string) error {
	err := tag(cerr.NewWithDepth(1, msg), ErrConfiguration)
	if hint != "" {
		err = cerr.WithHint(err, hint)
	}
	return err
}

// Diff tags err as a DiffError.
func Diff(err error, hint string) error {
	if err == nil {
		return nil
	}
	err = tag(cerr.WithStackDepth(err, 1), ErrDiff)
	if hint != "" {
		err = cerr.WithHint(err, hint)
	}
	return err
}

// Git tags err as a failure of the git executor.
func Git(err error, hint string) error {
	if err == nil {
		return nil
	}
	err = tag(cerr.WithStackDepth(err, 1), ErrGit)
	if hint != "" {
		err = cerr.WithHint(err, hint)
	}
	return err
}

// Aborted wraps the cause of a user abort (an interrupt or closed input).
func Aborted(cause error) error {
	if cause == nil {
		return ErrAborted
	}
	return tag(cerr.Wrap(cause, "aborted"), ErrAborted)
}

// IsAborted reports whether err ends the invocation as a deliberate abort
// rather than a failure.
func IsAborted(err error) bool {
	return cerr.Is(err, ErrAborted)
}

// Hints returns every remediation hint attached to err, outermost first.
func Hints(err error) []string {
	return cerr.GetAllHints(err)
}

// ExitCode maps err onto the process exit code for its category.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case cerr.Is(err, ErrAborted):
		if cerr.Is(err, context.Canceled) {
			return ExitInterrupted
		}
		return ExitOK
	case cerr.Is(err, context.Canceled):
		return ExitInterrupted
	case cerr.Is(err, ErrConfiguration):
		return ExitConfiguration
	case cerr.Is(err, ErrDiff):
		return ExitDiff
	case cerr.Is(err, ErrProvider):
		return ExitProvider
	case cerr.Is(err, ErrEditor):
		return ExitEditor
	case cerr.Is(err, ErrGit):
		return ExitGit
	}
	return ExitFailure
}
