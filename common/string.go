package common

import (
	"strings"
	"unicode/utf8"
)

// WrapString wraps s at word boundaries so no line is longer than width,
// unless a single word is.
func WrapString(s string, width int) string {
	var lines []string
	for utf8.RuneCountInString(s) > width {
		runes := []rune(s)
		splitAt := -1
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				splitAt = i
				break
			}
		}
		if splitAt < 0 {
			// No space before the width: break after the long word instead.
			next := strings.IndexByte(s, ' ')
			if next < 0 {
				break
			}
			lines = append(lines, s[:next])
			s = strings.TrimLeft(s[next:], " ")
			continue
		}
		lines = append(lines, string(runes[:splitAt]))
		s = strings.TrimLeft(string(runes[splitAt:]), " ")
	}
	if len(s) > 0 {
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n")
}

// WrapText applies WrapString to each line of s, keeping the indentation
// of continuation lines aligned with the text after a "- " bullet.
func WrapText(s string, width int) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		indent := ""
		if strings.HasPrefix(line, "- ") {
			indent = "  "
		}
		wrapped := strings.Split(WrapString(line, width), "\n")
		for i := 1; i < len(wrapped); i++ {
			wrapped[i] = indent + wrapped[i]
		}
		out = append(out, wrapped...)
	}
	return strings.Join(out, "\n")
}

// TruncateAtWord shortens s to at most limit characters by cutting at the
// last space within the limit; a word is never split. It reports false when
// the first word alone is longer than limit.
func TruncateAtWord(s string, limit int) (string, bool) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s, true
	}

	runes := []rune(s)
	for i := limit; i > 0; i-- {
		if runes[i] != ' ' {
			continue
		}
		out := strings.TrimRight(string(runes[:i]), " ,;:-")
		if out == "" {
			return "", false
		}
		return out, true
	}
	return "", false
}
