package diff

import (
	"fmt"
	"strings"
)

const omissionFormat = "… %d lines omitted …"

// OmissionMarker returns the line that replaces n elided diff lines.
func OmissionMarker(n int) string {
	return fmt.Sprintf(omissionFormat, n)
}

// Floor is the size at which every file still keeps its header and an
// omission marker. Budgets below it start dropping whole lines of headers.
func Floor(cs ChangeSet) int {
	floor := 0
	for _, f := range cs.Files {
		floor += f.stubSize()
	}
	return floor
}

// Truncate renders cs in at most budget bytes. A diff that already fits is
// returned unchanged. Otherwise the budget is shared between files in
// proportion to their size, each file keeping its header plus the first
// and last lines of its hunks around an omission marker. Files keep their
// order and lines are never cut.
func Truncate(cs ChangeSet, budget int) string {
	if cs.Size() <= budget {
		return cs.String()
	}
	if budget <= 0 {
		return ""
	}

	allocs := allocate(cs, budget)

	var b strings.Builder
	b.Grow(budget)
	for i, f := range cs.Files {
		b.WriteString(f.render(allocs[i]))
	}
	return b.String()
}

func allocate(cs ChangeSet, budget int) []int {
	n := len(cs.Files)
	allocs := make([]int, n)

	stubs := make([]int, n)
	stubTotal := 0
	for i, f := range cs.Files {
		stubs[i] = f.stubSize()
		stubTotal += stubs[i]
	}

	// Not even the stubs fit: share by stub size and let each file shed
	// header lines.
	if stubTotal >= budget {
		for i := range cs.Files {
			allocs[i] = budget * stubs[i] / stubTotal
		}
		return allocs
	}

	// One file larger than the whole budget takes everything the other
	// files' stubs leave over.
	largest := 0
	for i, f := range cs.Files {
		if f.Size() > cs.Files[largest].Size() {
			largest = i
		}
	}
	if cs.Files[largest].Size() > budget {
		copy(allocs, stubs)
		allocs[largest] = budget - (stubTotal - stubs[largest])
		return allocs
	}

	// Proportional shares over the stubs. Files that fit in their share are
	// settled at their real size and the slack goes back to the pool.
	settled := make([]bool, n)
	for {
		pool := budget
		open := 0
		for i, f := range cs.Files {
			if settled[i] {
				pool -= f.Size()
				continue
			}
			pool -= stubs[i]
			open += f.Size()
		}
		if open == 0 {
			break
		}

		changed := false
		for i, f := range cs.Files {
			if settled[i] {
				continue
			}
			allocs[i] = stubs[i] + pool*f.Size()/open
			if f.Size() <= allocs[i] {
				allocs[i] = f.Size()
				settled[i] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return allocs
}

// stubSize is the size of the header plus a marker for the whole body.
func (f FileDiff) stubSize() int {
	size := linesSize(f.Header)
	if len(f.Body) > 0 {
		size += len(OmissionMarker(len(f.Body))) + 1
	}
	if f.Size() < size {
		return f.Size()
	}
	return size
}

// render returns the file section in at most alloc bytes.
func (f FileDiff) render(alloc int) string {
	if f.Size() <= alloc {
		return f.Raw
	}

	if out, ok := f.elide(alloc); ok {
		return out
	}

	// Header only, then as many header lines as fit.
	var kept []string
	size := 0
	for _, line := range f.Header {
		if size+len(line)+1 > alloc {
			break
		}
		kept = append(kept, line)
		size += len(line) + 1
	}
	return f.join(kept)
}

// elide keeps the header and as many lines from both ends of the body as
// fit, with a marker in place of the rest.
func (f FileDiff) elide(alloc int) (string, bool) {
	n := len(f.Body)
	if n == 0 {
		return "", false
	}

	// The marker is sized for all n lines; the final count is never wider.
	fixed := linesSize(f.Header) + len(OmissionMarker(n)) + 1
	if fixed > alloc {
		return "", false
	}
	room := alloc - fixed

	head, tail := 0, 0
	for head+tail < n {
		progressed := false
		if next := len(f.Body[head]) + 1; head+tail < n && next <= room {
			room -= next
			head++
			progressed = true
		}
		if next := len(f.Body[n-1-tail]) + 1; head+tail < n && next <= room {
			room -= next
			tail++
			progressed = true
		}
		if !progressed {
			break
		}
	}

	anchor := -1
	for tail > 0 {
		anchor = f.tailHunkHeader(head, n-tail)
		if anchor < 0 {
			break
		}
		need := len(f.Body[anchor]) + 1
		if anchor+1 < n-tail {
			need += len(OmissionMarker(n)) + 1
		}
		if need <= room {
			break
		}
		// Give up tail lines until the range header of their hunk fits.
		anchor = -1
		room += len(f.Body[n-tail]) + 1
		tail--
	}

	lines := make([]string, 0, len(f.Header)+head+tail+3)
	lines = append(lines, f.Header...)
	lines = append(lines, f.Body[:head]...)
	if anchor < 0 {
		lines = append(lines, OmissionMarker(n-head-tail))
	} else {
		if anchor > head {
			lines = append(lines, OmissionMarker(anchor-head))
		}
		lines = append(lines, f.Body[anchor])
		if rest := n - tail - anchor - 1; rest > 0 {
			lines = append(lines, OmissionMarker(rest))
		}
	}
	lines = append(lines, f.Body[n-tail:]...)
	return f.join(lines), true
}

// tailHunkHeader returns the index of the last hunk header in the omitted
// span [from, to), or -1 when the kept tail needs none: it starts with its
// own header, or its hunk header is already among the kept head lines.
func (f FileDiff) tailHunkHeader(from, to int) int {
	if to < len(f.Body) && hunkHeaderRegex.MatchString(f.Body[to]) {
		return -1
	}
	for i := to - 1; i >= from; i-- {
		if hunkHeaderRegex.MatchString(f.Body[i]) {
			return i
		}
	}
	return -1
}

func (f FileDiff) join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := strings.Join(lines, "\n")
	if f.trailingNewline() {
		out += "\n"
	}
	return out
}

func linesSize(lines []string) int {
	size := 0
	for _, line := range lines {
		size += len(line) + 1
	}
	return size
}
