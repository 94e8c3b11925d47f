package prompt

import (
	"fmt"

	"github.com/bitrise-io/sage/diff"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/llm"
	"github.com/bitrise-io/sage/model"
)

// MinDiffBudget is the least room the templates must leave for the diff.
const MinDiffBudget = 256

// Prompt is the provider-neutral instruction set for one generation.
type Prompt struct {
	System  string
	User    string
	Kind    model.Kind
	Style   model.Style
	Context string
}

// Size is the serialized size checked against the budget.
func (p Prompt) Size() int {
	return len(p.System) + len(p.User)
}

// Request maps the prompt onto a provider request.
func (p Prompt) Request(maxTokens int) llm.Request {
	return llm.Request{
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		MaxTokens:    maxTokens,
	}
}

// Input is what a prompt is built from.
type Input struct {
	Kind    model.Kind
	Style   model.Style
	Context string
	// Files is the changed-path list shown to the model; the change set's
	// own paths are used when it is empty.
	Files   []string
	Changes diff.ChangeSet
}

// Build renders the prompt for in within budget bytes. The diff gets
// whatever the templates leave and is truncated to fit it.
func Build(in Input, budget int) (Prompt, error) {
	files := in.Files
	if len(files) == 0 {
		files = in.Changes.Paths()
	}

	p := Prompt{
		System:  GetSystemPrompt(in.Kind),
		Kind:    in.Kind,
		Style:   in.Style,
		Context: in.Context,
	}

	render := func(diffText string) string {
		if in.Kind == model.KindBranch {
			return GetBranchPrompt(in.Context, files, diffText)
		}
		return GetCommitPrompt(in.Style, in.Context, files, diffText)
	}

	overhead := len(p.System) + len(render(""))
	diffBudget := budget - overhead
	if diffBudget < MinDiffBudget {
		return Prompt{}, errs.Configuration(
			fmt.Sprintf("prompt budget of %d bytes leaves %d bytes for the diff", budget, diffBudget),
			"raise max_prompt_bytes, lower max_tokens or shorten --context")
	}

	p.User = render(diff.Truncate(in.Changes, diffBudget))
	return p, nil
}
