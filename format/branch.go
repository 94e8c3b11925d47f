package format

import (
	"regexp"
	"strings"

	"github.com/bitrise-io/sage/model"
)

// MaxBranchLength bounds generated branch names.
const MaxBranchLength = 50

// BranchCategories are the accepted branch name prefixes.
var BranchCategories = []string{"feature", "bugfix", "hotfix", "refactor", "docs", "test", "chore"}

var (
	invalidBranchChars = regexp.MustCompile(`[^a-z0-9/-]+`)
	repeatedDashes     = regexp.MustCompile(`-{2,}`)
	repeatedSlashes    = regexp.MustCompile(`/{2,}`)
	branchRegex        = regexp.MustCompile(`^(` + strings.Join(BranchCategories, "|") + `)/[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify lowercases name and reduces it to [a-z0-9-/], with whitespace and
// underscores turned into dashes and separator runs collapsed.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.NewReplacer(" ", "-", "_", "-", "\t", "-", ".", "-").Replace(slug)
	slug = invalidBranchChars.ReplaceAllString(slug, "")
	slug = repeatedDashes.ReplaceAllString(slug, "-")
	slug = repeatedSlashes.ReplaceAllString(slug, "/")
	slug = strings.ReplaceAll(slug, "-/", "/")
	slug = strings.ReplaceAll(slug, "/-", "/")
	return strings.Trim(slug, "-/")
}

// BranchName turns clean text into a branch name artifact of the form
// category/kebab-slug. Names without a known category are rejected rather
// than given one.
func BranchName(text string) (model.Artifact, error) {
	artifact := model.Artifact{Kind: model.KindBranch}

	if strings.TrimSpace(text) == "" {
		return artifact, &FormatError{Style: "branch", Reason: ErrEmpty, Text: text}
	}
	if strings.Contains(text, "\n") {
		return artifact, &FormatError{Style: "branch", Reason: ErrMultiline, Text: text}
	}

	slug := shortenSlug(Slugify(text), MaxBranchLength)
	if !branchRegex.MatchString(slug) {
		return artifact, &FormatError{Style: "branch", Reason: ErrMissingPrefix, Text: text}
	}

	artifact.Text = slug
	return artifact, nil
}

// shortenSlug cuts slug at the last dash that keeps it within limit.
func shortenSlug(slug string, limit int) string {
	if len(slug) <= limit {
		return slug
	}
	cut := strings.LastIndexByte(slug[:limit+1], '-')
	if cut <= strings.IndexByte(slug, '/') {
		return slug[:limit]
	}
	return slug[:cut]
}
