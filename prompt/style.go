package prompt

import (
	"fmt"

	"github.com/bitrise-io/sage/format"
	"github.com/bitrise-io/sage/model"
)

// GetStyleInstructions describes the structure a commit message must have
// for style.
func GetStyleInstructions(style model.Style) string {
	switch style {
	case model.StyleDetailed:
		return fmt.Sprintf(`Write a multi-line commit message:
- First line: a summary in conventional commits format, at most %d characters
- Second line: blank
- Then one bullet per change, each starting with "- "
- Do not add any text after the bullets

Example:
feat(auth): add JWT token validation

- Implement token verification middleware
- Add expiration checking
- Handle refresh token logic`, format.MaxSummaryLength)
	case model.StyleShort:
		return fmt.Sprintf(`Write a single-line commit message of at most %d characters.
Be direct and specific.`, format.MaxSummaryLength)
	}

	return `Write a single-line commit message in conventional commits format: type(scope): description
The scope is optional. Common types: feat, fix, docs, style, refactor, perf, test, build, ci, chore.`
}
