package prompt

import "github.com/bitrise-io/sage/model"

func GetCommitPrompt(style model.Style, context string, files []string, diff string) string {
	return `Generate a git commit message for the following changes.

IMPORTANT RULES:
- Use PLAIN TEXT ONLY, no markdown
- Do NOT use asterisks, underscores or backticks for emphasis
- Do NOT wrap the message in a code block
- Output only the commit message text

` + GetStyleInstructions(style) + `

` + GetContextPrompt(context) + `

` + GetFilesPrompt(files) + `

` + GetDiffPrompt(diff)
}
