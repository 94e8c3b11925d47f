package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// clearLine returns the cursor to column 0 and erases the line.
const clearLine = "\r\033[K"

// Indicator shows that a blocking call is in flight. The returned stop
// function ends the indication and only returns once nothing more will be
// written; calling it more than once is safe.
type Indicator interface {
	Start(message string) (stop func())
}

// Spinner animates a frame set on a terminal line from its own goroutine.
type Spinner struct {
	out      io.Writer
	frames   []string
	interval time.Duration
	style    lipgloss.Style
}

// NewSpinner returns a spinner drawing the Dot frames to out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{
		out:      out,
		frames:   spinner.Dot.Frames,
		interval: spinner.Dot.FPS,
		style:    lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")),
	}
}

func (s *Spinner) Start(message string) func() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.out, "\r%s%s", s.style.Render(s.frames[i%len(s.frames)]), message)
			select {
			case <-ctx.Done():
				fmt.Fprint(s.out, clearLine)
				return
			case <-ticker.C:
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

// Noop is the indicator used when output is not a terminal.
type Noop struct{}

func (Noop) Start(string) func() { return func() {} }

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// New returns a spinner on out when it is a terminal, and Noop otherwise.
func New(out io.Writer) Indicator {
	if IsTerminal(out) {
		return NewSpinner(out)
	}
	return Noop{}
}
