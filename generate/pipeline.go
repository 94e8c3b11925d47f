package generate

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrise-io/sage/diff"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/format"
	"github.com/bitrise-io/sage/llm"
	"github.com/bitrise-io/sage/logger"
	"github.com/bitrise-io/sage/model"
	"github.com/bitrise-io/sage/progress"
	"github.com/bitrise-io/sage/prompt"
	"github.com/bitrise-io/sage/tokens"
	cerr "github.com/cockroachdb/errors"
)

// Pipeline turns a diff into a reviewed-ready artifact: truncate, build the
// prompt, generate, sanitize and format. It holds no per-run state.
type Pipeline struct {
	client   llm.LLM
	budget   tokens.Budget
	progress progress.Indicator
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithProgress shows ind while the provider call is outstanding.
func WithProgress(ind progress.Indicator) Option {
	return func(p *Pipeline) {
		if ind != nil {
			p.progress = ind
		}
	}
}

// New returns a pipeline generating through client within budget.
func New(client llm.LLM, budget tokens.Budget, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:   client,
		budget:   budget,
		progress: progress.Noop{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Input is one generation request.
type Input struct {
	Kind    model.Kind
	Style   model.Style
	Diff    string
	Files   []string
	Context string
}

// Result is the outcome of a successful run.
type Result struct {
	Artifact  model.Artifact
	Prompt    prompt.Prompt
	Response  llm.Response
	Sanitized string
	// FormatErr is set when the sanitized text failed its style. Artifact
	// then carries the sanitized text so it can be edited by hand.
	FormatErr error
}

// NeedsManualReview reports whether the artifact must be shown to the user
// even in skip mode.
func (r Result) NeedsManualReview() bool {
	return r.FormatErr != nil
}

// Stats renders the verbose report of the provider call.
func (r Result) Stats() string {
	return fmt.Sprintf("provider: %s, model: %s, tokens: %d prompt + %d completion, prompt size: %d bytes, latency: %s",
		r.Response.Provider, r.Response.Model,
		r.Response.Usage.PromptTokens, r.Response.Usage.CompletionTokens,
		r.Prompt.Size(), r.Response.Latency.Round(time.Millisecond))
}

// Run generates the artifact for in. Provider failures are returned as
// classified errors; a style violation is not an error and is reported in
// Result.FormatErr. Cancelling ctx ends the run as aborted.
func (p *Pipeline) Run(ctx context.Context, in Input) (Result, error) {
	changes := diff.Parse(in.Diff)
	if changes.IsEmpty() {
		return Result{}, errs.Diff(cerr.New("no changes to commit"), "stage files with `git add` or pass --all")
	}

	pr, err := prompt.Build(prompt.Input{
		Kind:    in.Kind,
		Style:   in.Style,
		Context: in.Context,
		Files:   in.Files,
		Changes: changes,
	}, p.budget.PromptBytes)
	if err != nil {
		return Result{}, err
	}
	logger.Debugw("Prompt built", "kind", in.Kind.String(), "style", string(in.Style),
		"size", pr.Size(), "budget", p.budget.PromptBytes, "estimatedTokens", tokens.Estimate(pr.System+pr.User))

	if err := ctx.Err(); err != nil {
		return Result{}, errs.Aborted(err)
	}

	stop := p.progress.Start(fmt.Sprintf(" Generating %s...", in.Kind))
	resp := p.client.Prompt(ctx, pr.Request(p.budget.MaxOutputTokens))
	stop()

	result := Result{Prompt: pr, Response: resp}
	if err := ctx.Err(); err != nil {
		return result, errs.Aborted(err)
	}
	if resp.Error != nil {
		return result, resp.Error
	}

	result.Sanitized = format.Sanitize(resp.Content)

	var artifact model.Artifact
	if in.Kind == model.KindBranch {
		artifact, err = format.BranchName(result.Sanitized)
	} else {
		artifact, err = format.Format(result.Sanitized, in.Style)
	}
	if err != nil {
		if !format.IsFormatError(err) {
			return result, err
		}
		logger.Warnf("Generated %s needs manual review: %v", in.Kind, err)
		artifact.Text = result.Sanitized
		result.FormatErr = err
	}

	result.Artifact = artifact
	return result, nil
}
