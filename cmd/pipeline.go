package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bitrise-io/sage/common"
	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/generate"
	"github.com/bitrise-io/sage/git"
	"github.com/bitrise-io/sage/llm"
	"github.com/bitrise-io/sage/logger"
	"github.com/bitrise-io/sage/progress"
	"github.com/bitrise-io/sage/tokens"
	cerr "github.com/cockroachdb/errors"
)

// previewBytes bounds the diff shown by --show-diff and `sage diff`.
const previewBytes = 2000

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return common.DefaultPath()
}

func loadSettings() (common.Settings, string, error) {
	path, err := settingsPath()
	if err != nil {
		return common.Settings{}, "", err
	}
	settings, err := common.LoadSettings(path)
	return settings, path, err
}

// newPipeline resolves the active provider and the budget from settings.
func newPipeline(settings common.Settings) (*generate.Pipeline, error) {
	name, provider, err := settings.Active()
	if err != nil {
		return nil, err
	}

	client, err := llm.NewLLM(llm.Identity{
		Name:     name,
		Endpoint: provider.Endpoint,
		Model:    provider.Model,
		APIKey:   provider.APIKey,
	}, llm.WithMaxTokens(settings.MaxTokens), llm.WithAPITimeout(settings.Timeout))
	if err != nil {
		return nil, err
	}

	modelName := provider.Model
	if modelName == "" {
		modelName = llm.DefaultModel(name)
	}
	budget := tokens.NewBudget(modelName, settings.MaxTokens, settings.MaxPromptBytes)
	logger.Debugf("Budget for %s: %d prompt bytes, %d output tokens", modelName, budget.PromptBytes, budget.MaxOutputTokens)

	return generate.New(client, budget, generate.WithProgress(progress.New(os.Stderr))), nil
}

func openRepo() (*git.Client, error) {
	client := git.NewClient(git.NewDefaultRunner(""))
	if !client.IsRepo() {
		return nil, errs.Diff(cerr.New("not a git repository"), "run sage inside a git work tree")
	}
	return client, nil
}

// stageChanges stages files when given, otherwise everything when all is set.
func stageChanges(repo *git.Client, files []string, all bool) error {
	switch {
	case len(files) > 0:
		logger.Infof("Staging %s", strings.Join(files, ", "))
		return repo.StageFiles(files)
	case all:
		logger.Infof("Staging all changes")
		return repo.StageAll()
	}
	return nil
}

func printCurrentBranch(w io.Writer, repo *git.Client) {
	branch, err := repo.CurrentBranch()
	if err != nil {
		logger.Debugf("Could not read the current branch: %v", err)
		return
	}
	fmt.Fprintln(w, mutedStyle.Render("Current branch: "+branch))
}

func errNoChanges() error {
	return errs.Diff(cerr.New("no changes to commit"), "stage files with `git add`, pass them as arguments, or use --all")
}

// previewDiff cuts diff at the last line break within previewBytes.
func previewDiff(diff string) (string, bool) {
	if len(diff) <= previewBytes {
		return diff, false
	}
	cut := diff[:previewBytes]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	return cut, true
}

func showChanges(w io.Writer, files []string, diff string) {
	printHeader(w, "Changes:")
	for _, file := range files {
		fmt.Fprintln(w, "  "+file)
	}

	fmt.Fprintln(w)
	printHeader(w, "Diff:")
	if strings.TrimSpace(diff) == "" {
		fmt.Fprintln(w, mutedStyle.Render("(empty diff)"))
		return
	}
	preview, truncated := previewDiff(diff)
	fmt.Fprintln(w, preview)
	if truncated {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("... (truncated, %d of %d bytes shown)", len(preview), len(diff))))
	}
	fmt.Fprintln(w)
}

func printStats(w io.Writer, result generate.Result) {
	if result.Response.Provider == "" {
		return
	}
	fmt.Fprintln(w, mutedStyle.Render(result.Stats()))
}

// PrintError renders a terminal error and its hints.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	if errs.IsAborted(err) {
		fmt.Fprintln(w, warningStyle.Render("Aborted."))
		return
	}
	fmt.Fprintln(w, errorStyle.Render("Error: ")+err.Error())
	for _, hint := range errs.Hints(err) {
		fmt.Fprintln(w, tipStyle.Render("Tip: ")+hint)
	}
}
