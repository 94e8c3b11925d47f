package format

import (
	"regexp"
	"strings"
)

var (
	fencedBlockRegex = regexp.MustCompile("(?s)^```[\\w+-]*[ \\t]*\\n(.*?)\\n?```$")
	fenceLineRegex   = regexp.MustCompile("(?m)^[ \\t]*```[\\w+-]*[ \\t]*$\\n?")
	labelRegex       = regexp.MustCompile(`(?i)^(?:suggested |generated |proposed )?(?:git )?(?:commit message|commit|message|branch name|branch|summary)\s*:\s*`)
	blankLinesRegex  = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	trailingWSRegex  = regexp.MustCompile(`(?m)[ \t]+$`)
)

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
}

// Sanitize removes the formatting models wrap around an answer: code fences,
// inline backticks, bold markers, surrounding quotes and an echoed label such
// as "Commit message:". Blank line runs collapse to one and the result is
// trimmed. Every step only removes text and the steps repeat until nothing
// changes, so Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(raw string) string {
	text := raw
	for {
		next := sanitizeOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func sanitizeOnce(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSpace(text)

	if m := fencedBlockRegex.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = fenceLineRegex.ReplaceAllString(text, "")

	text = strings.ReplaceAll(text, "`", "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.TrimSpace(text)

	text = unquote(text)
	text = labelRegex.ReplaceAllString(text, "")

	text = trailingWSRegex.ReplaceAllString(text, "")
	text = blankLinesRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// unquote strips one pair of quotes that wraps the whole text.
func unquote(text string) string {
	for _, q := range quotePairs {
		if len(text) >= len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
			inner := text[len(q[0]) : len(text)-len(q[1])]
			if !strings.Contains(inner, q[0]) && !strings.Contains(inner, q[1]) {
				return inner
			}
		}
	}
	return text
}
