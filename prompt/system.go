package prompt

import "github.com/bitrise-io/sage/model"

func GetSystemPrompt(kind model.Kind) string {
	target := "git commit messages"
	if kind == model.KindBranch {
		target = "git branch names"
	}

	return `You are an assistant that writes concise ` + target + ` from code changes.
- Output PLAIN TEXT ONLY, with no markdown formatting of any kind.
- Output only the requested text: no preamble, no label, no explanation.
- Describe what changed and why, based only on the diff and context you are given.`
}
