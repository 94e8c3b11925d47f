package diff

import (
	"regexp"
	"strings"
)

const fileHeaderPrefix = "diff --git "

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+\d+(?:,\d+)? @@`)

// FileDiff is one file's section of a unified diff.
type FileDiff struct {
	Path string
	// Header holds the lines before the first hunk: "diff --git", index,
	// mode and ---/+++ lines.
	Header []string
	// Body holds the hunk headers and hunk lines.
	Body    []string
	Added   int
	Removed int
	// Raw is the exact text of the section, so concatenating every Raw
	// reproduces the input.
	Raw string
}

// Size is the byte size of the section.
func (f FileDiff) Size() int {
	return len(f.Raw)
}

func (f FileDiff) trailingNewline() bool {
	return strings.HasSuffix(f.Raw, "\n")
}

// ChangeSet is the ordered list of file sections of one diff.
type ChangeSet struct {
	Files []FileDiff
}

// Parse splits git diff output into per-file sections. Text that does not
// look like a git diff becomes a single section with an empty header.
func Parse(text string) ChangeSet {
	var cs ChangeSet
	for _, section := range splitByFileSections(text) {
		cs.Files = append(cs.Files, parseFileSection(section))
	}
	return cs
}

// Size is the total byte size of the diff.
func (c ChangeSet) Size() int {
	size := 0
	for _, f := range c.Files {
		size += f.Size()
	}
	return size
}

func (c ChangeSet) IsEmpty() bool {
	return strings.TrimSpace(c.String()) == ""
}

// String reassembles the original diff text.
func (c ChangeSet) String() string {
	var b strings.Builder
	b.Grow(c.Size())
	for _, f := range c.Files {
		b.WriteString(f.Raw)
	}
	return b.String()
}

// Paths lists the file paths in diff order, skipping sections without one.
func (c ChangeSet) Paths() []string {
	paths := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// Stats sums added and removed lines over all files.
func (c ChangeSet) Stats() (added, removed int) {
	for _, f := range c.Files {
		added += f.Added
		removed += f.Removed
	}
	return added, removed
}

// splitByFileSections cuts the text at every line starting with
// "diff --git ". Any preamble before the first header is its own section.
func splitByFileSections(text string) []string {
	if text == "" {
		return nil
	}

	var starts []int
	if strings.HasPrefix(text, fileHeaderPrefix) {
		starts = append(starts, 0)
	}
	for offset := 0; ; {
		i := strings.Index(text[offset:], "\n"+fileHeaderPrefix)
		if i < 0 {
			break
		}
		pos := offset + i + 1
		starts = append(starts, pos)
		offset = pos
	}

	if len(starts) == 0 || starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	sections := make([]string, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		sections = append(sections, text[start:end])
	}
	return sections
}

func parseFileSection(section string) FileDiff {
	f := FileDiff{Raw: section}
	lines := splitLines(section)

	if !strings.HasPrefix(section, fileHeaderPrefix) {
		f.Body = lines
		f.countChanges()
		return f
	}

	bodyStart := len(lines)
	for i, line := range lines {
		if hunkHeaderRegex.MatchString(line) {
			bodyStart = i
			break
		}
	}
	f.Header = lines[:bodyStart]
	f.Body = lines[bodyStart:]

	var pathA, pathB string
	for _, line := range f.Header {
		switch {
		case strings.HasPrefix(line, fileHeaderPrefix):
			pathA, pathB = parseDiffGitLine(line)
		case strings.HasPrefix(line, "+++ ") && line != "+++ /dev/null":
			pathB = strings.TrimPrefix(strings.TrimPrefix(line, "+++ "), "b/")
		case strings.HasPrefix(line, "rename to "):
			pathB = strings.TrimPrefix(line, "rename to ")
		}
	}
	f.Path = pathB
	if f.Path == "" {
		f.Path = pathA
	}
	f.countChanges()
	return f
}

func (f *FileDiff) countChanges() {
	for _, line := range f.Body {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			f.Added++
		case strings.HasPrefix(line, "-"):
			f.Removed++
		}
	}
}

// parseDiffGitLine extracts both paths from "diff --git a/x b/y".
func parseDiffGitLine(line string) (string, string) {
	rest := strings.TrimPrefix(line, fileHeaderPrefix)
	if i := strings.Index(rest, " b/"); i >= 0 && strings.HasPrefix(rest, "a/") {
		return rest[2:i], rest[i+3:]
	}
	fields := strings.Fields(rest)
	if len(fields) == 2 {
		return fields[0], fields[1]
	}
	return rest, rest
}

// splitLines splits text into lines without their terminators. A trailing
// newline does not produce an empty last line.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
