package format

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/model"
	cerr "github.com/cockroachdb/errors"
)

// MaxSummaryLength bounds short messages and the first line of detailed ones.
const MaxSummaryLength = 50

// Reasons a text can fail its style contract.
var (
	ErrEmpty           = cerr.New("the generated text is empty")
	ErrMultiline       = cerr.New("expected a single line")
	ErrMissingPrefix   = cerr.New("missing a type prefix such as feat: or fix(scope):")
	ErrUnbreakable     = cerr.New("the first word alone is longer than the limit")
	ErrSummaryTooLong  = cerr.New(fmt.Sprintf("summary line is longer than %d characters", MaxSummaryLength))
	ErrMissingBody     = cerr.New("missing the bullet list body")
	ErrBodyNotBulleted = cerr.New("body lines must be bullets starting with - or *")
)

// FormatError reports a text that does not satisfy its style. The text is
// kept so it can still be offered for manual editing.
type FormatError struct {
	Style  model.Style
	Reason error
	Text   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s message rejected: %v", e.Style, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Reason
}

var conventionalRegex = regexp.MustCompile(`^[a-zA-Z]+(\([^()\n]+\))?!?: \S`)

var bulletRegex = regexp.MustCompile(`^[-*•] +\S`)

// Format checks clean text against style and returns the artifact, or a
// *FormatError. It never invents content: a missing type prefix is
// reported, not guessed.
func Format(text string, style model.Style) (model.Artifact, error) {
	artifact := model.Artifact{Kind: model.KindCommit, Style: style}

	if strings.TrimSpace(text) == "" {
		return artifact, &FormatError{Style: style, Reason: ErrEmpty, Text: text}
	}

	var (
		out string
		err error
	)
	switch style {
	case model.StyleShort:
		out, err = formatShort(text)
	case model.StyleDetailed:
		out, err = formatDetailed(text)
	default:
		artifact.Style = model.StyleStandard
		out, err = formatStandard(text)
	}
	if err != nil {
		return artifact, &FormatError{Style: artifact.Style, Reason: err, Text: text}
	}

	artifact.Text = out
	return artifact, nil
}

func formatShort(text string) (string, error) {
	if strings.Contains(text, "\n") {
		return "", ErrMultiline
	}
	out, ok := common.TruncateAtWord(text, MaxSummaryLength)
	if !ok {
		return "", ErrUnbreakable
	}
	return out, nil
}

func formatStandard(text string) (string, error) {
	if strings.Contains(text, "\n") {
		return "", ErrMultiline
	}
	if !conventionalRegex.MatchString(text) {
		return "", ErrMissingPrefix
	}
	return text, nil
}

// formatDetailed enforces summary, one blank line, bullets. Continuation
// lines of a bullet must be indented; "*" and "•" bullets become "-".
func formatDetailed(text string) (string, error) {
	lines := strings.Split(text, "\n")
	summary := strings.TrimSpace(lines[0])
	if utf8.RuneCountInString(summary) > MaxSummaryLength {
		return "", ErrSummaryTooLong
	}

	var body []string
	for _, line := range lines[1:] {
		switch {
		case strings.TrimSpace(line) == "":
			continue
		case bulletRegex.MatchString(line):
			_, rest, _ := strings.Cut(line, " ")
			body = append(body, "- "+strings.TrimSpace(rest))
		case len(body) > 0 && (line[0] == ' ' || line[0] == '\t'):
			body = append(body, line)
		default:
			return "", ErrBodyNotBulleted
		}
	}
	if len(body) == 0 {
		return "", ErrMissingBody
	}

	return summary + "\n\n" + strings.Join(body, "\n"), nil
}

// IsFormatError reports whether err is a style rejection, the one failure
// that falls back to manual editing.
func IsFormatError(err error) bool {
	var fe *FormatError
	return cerr.As(err, &fe)
}

