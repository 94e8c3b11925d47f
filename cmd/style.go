package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#00ff00")
	colorWarning = lipgloss.Color("#ffaa00")
	colorError   = lipgloss.Color("#ff0000")
	colorInfo    = lipgloss.Color("#0099ff")
	colorMuted   = lipgloss.Color("#666666")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	tipStyle     = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningStyle.Render("! "+fmt.Sprintf(format, args...)))
}

func printHeader(w io.Writer, text string) {
	fmt.Fprintln(w, headerStyle.Render(text))
}
