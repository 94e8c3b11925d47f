package review

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
	"github.com/bitrise-io/sage/model"
	cerr "github.com/cockroachdb/errors"
)

// State is a state of the confirmation machine.
type State int

const (
	Presenting State = iota
	EditRequested
	Editing
	Accepted
	Edited
	Aborted
)

func (s State) String() string {
	switch s {
	case Presenting:
		return "presenting"
	case EditRequested:
		return "edit requested"
	case Editing:
		return "editing"
	case Accepted:
		return "accepted"
	case Edited:
		return "edited"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

// Terminal reports whether the machine stops in s.
func (s State) Terminal() bool {
	return s == Accepted || s == Edited || s == Aborted
}

// Signal is the user's answer to the confirmation prompt.
type Signal int

const (
	SignalAccept Signal = iota + 1
	SignalReject
	SignalEdit
)

// ParseSignal reads an answer. Empty input accepts.
func ParseSignal(input string) (Signal, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "y", "yes":
		return SignalAccept, true
	case "n", "no":
		return SignalReject, true
	case "e", "edit":
		return SignalEdit, true
	}
	return 0, false
}

// Next is the transition taken from Presenting on sig.
func Next(sig Signal) State {
	switch sig {
	case SignalAccept:
		return Accepted
	case SignalReject:
		return Aborted
	case SignalEdit:
		return EditRequested
	}
	return Presenting
}

// displayWidth is where detailed messages are wrapped on screen.
const displayWidth = 72

// Controller resolves a generated artifact through the user.
type Controller struct {
	in     *bufio.Reader
	out    io.Writer
	editor Editor

	startReader sync.Once
	lines       chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewController reads answers from in and writes prompts to out.
func NewController(in io.Reader, out io.Writer, editor Editor) *Controller {
	return &Controller{
		in:     bufio.NewReader(in),
		out:    out,
		editor: editor,
	}
}

// Run drives the machine from Presenting to a terminal state. In skip mode
// the artifact is accepted without asking. An editor failure returns to
// Presenting with the artifact unchanged; closed input aborts.
func (c *Controller) Run(ctx context.Context, artifact model.Artifact, skip bool) (model.ReviewOutcome, error) {
	state := Presenting
	if skip {
		state = Accepted
	}
	current := artifact

	for {
		logger.Debugf("Review state: %s", state)

		switch state {
		case Presenting:
			c.present(current)
			sig, err := c.ask(ctx, current.Kind)
			if err != nil {
				if cerr.Is(err, io.EOF) {
					state = Aborted
					continue
				}
				return model.ReviewOutcome{Outcome: model.Aborted}, err
			}
			state = Next(sig)

		case EditRequested:
			state = Editing

		case Editing:
			text, err := c.editor.Edit(ctx, current.Text)
			if err != nil {
				if ctx.Err() != nil {
					return model.ReviewOutcome{Outcome: model.Aborted}, errs.Aborted(ctx.Err())
				}
				logger.Warnf("Edit failed: %v", err)
				fmt.Fprintf(c.out, "Editor failed: %v\n", err)
				for _, hint := range errs.Hints(err) {
					fmt.Fprintf(c.out, "Tip: %s\n", hint)
				}
				state = Presenting
				continue
			}
			if strings.TrimSpace(text) == "" {
				state = Aborted
				continue
			}
			current = model.Artifact{Kind: current.Kind, Style: current.Style, Text: text}
			state = Edited

		case Accepted:
			return model.ReviewOutcome{Outcome: model.Accepted, Artifact: current}, nil
		case Edited:
			return model.ReviewOutcome{Outcome: model.Edited, Artifact: current}, nil
		case Aborted:
			return model.ReviewOutcome{Outcome: model.Aborted}, nil
		}
	}
}

// present shows the artifact. Detailed bodies are wrapped for the terminal
// only; the artifact text itself is left as generated.
func (c *Controller) present(artifact model.Artifact) {
	text := artifact.Text
	if artifact.Style == model.StyleDetailed {
		text = common.WrapText(text, displayWidth)
	}
	fmt.Fprintf(c.out, "\nGenerated %s:\n\n%s\n\n", artifact.Kind, text)
}

func question(kind model.Kind) string {
	if kind == model.KindBranch {
		return "Create this branch? [Y/n/e for edit] "
	}
	return "Commit with this message? [Y/n/e for edit] "
}

// ask prompts until a valid answer is read.
func (c *Controller) ask(ctx context.Context, kind model.Kind) (Signal, error) {
	for {
		fmt.Fprint(c.out, question(kind))
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		if sig, ok := ParseSignal(line); ok {
			return sig, nil
		}
		fmt.Fprintln(c.out, "Please answer y, n or e.")
	}
}

// readLine returns the next line of input. A final line without a newline
// is returned as is; io.EOF is returned only when nothing was read.
//
// Lines come from one reader goroutine for the life of the controller. It
// stays blocked in ReadString after a cancellation and hands its line to
// the next call, so the input is never read concurrently.
func (c *Controller) readLine(ctx context.Context) (string, error) {
	c.startReader.Do(func() {
		c.lines = make(chan readResult)
		go c.readLines()
	})

	select {
	case <-ctx.Done():
		return "", errs.Aborted(ctx.Err())
	case r, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		if r.err != nil {
			if r.err == io.EOF && r.line != "" {
				return r.line, nil
			}
			return "", r.err
		}
		return r.line, nil
	}
}

func (c *Controller) readLines() {
	defer close(c.lines)
	for {
		line, err := c.in.ReadString('\n')
		c.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}
