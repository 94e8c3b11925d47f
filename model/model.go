package model

import (
	"fmt"
	"strings"
)

// Style is the structural contract a commit message must follow.
type Style string

const (
	StyleStandard Style = "standard"
	StyleDetailed Style = "detailed"
	StyleShort    Style = "short"
)

// Styles lists the accepted style names in display order.
var Styles = []Style{StyleStandard, StyleDetailed, StyleShort}

// ParseStyle accepts a style name, including the "conventional" alias of
// standard.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "conventional":
		return StyleStandard, nil
	case "detailed":
		return StyleDetailed, nil
	case "short":
		return StyleShort, nil
	}
	return "", fmt.Errorf("unknown style %q (expected standard, conventional, detailed or short)", s)
}

// Kind is what the pipeline is asked to produce.
type Kind int

const (
	KindCommit Kind = iota
	KindBranch
)

func (k Kind) String() string {
	if k == KindBranch {
		return "branch name"
	}
	return "commit message"
}

// Artifact is the generated value the user reviews.
type Artifact struct {
	Kind  Kind
	Style Style
	Text  string
}

// Outcome is the terminal state of a review.
type Outcome int

const (
	Accepted Outcome = iota
	Edited
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Edited:
		return "edited"
	}
	return "aborted"
}

// ReviewOutcome is the resolved artifact; Artifact is empty when aborted.
type ReviewOutcome struct {
	Outcome  Outcome
	Artifact Artifact
}

// Committable reports whether the outcome should be applied.
func (r ReviewOutcome) Committable() bool {
	return r.Outcome == Accepted || r.Outcome == Edited
}
