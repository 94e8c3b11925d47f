package prompt

import (
	"fmt"
	"strings"
)

// maxListedFiles caps the file list; the diff still covers every file.
const maxListedFiles = 200

func GetDiffPrompt(diffContent string) string {
	return `Diff:
` + diffContent
}

func GetFilesPrompt(files []string) string {
	listed := files
	if len(files) > maxListedFiles {
		listed = files[:maxListedFiles]
	}

	out := "Files changed:\n" + strings.Join(listed, "\n")
	if len(files) > len(listed) {
		out += fmt.Sprintf("\n… and %d more files", len(files)-len(listed))
	}
	return out
}

// GetContextPrompt appends the user's context verbatim.
func GetContextPrompt(context string) string {
	if strings.TrimSpace(context) == "" {
		return "Additional context: None"
	}
	return "Additional context: " + context
}
