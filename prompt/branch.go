package prompt

import (
	"fmt"
	"strings"

	"github.com/bitrise-io/sage/format"
)

func GetBranchPrompt(context string, files []string, diff string) string {
	return fmt.Sprintf(`Generate a git branch name for the following changes.

IMPORTANT RULES:
- Format: category/kebab-case-description, for example feature/add-user-auth
- The category must be one of: %s
- At most %d characters in total
- Only lowercase letters, numbers, hyphens and one forward slash
- Output ONLY the branch name

Common patterns:
- feature/add-authentication
- bugfix/fix-login-error
- refactor/simplify-api-calls
- docs/update-readme
`, strings.Join(format.BranchCategories, ", "), format.MaxBranchLength) + `
` + GetContextPrompt(context) + `

` + GetFilesPrompt(files) + `

` + GetDiffPrompt(diff)
}
