package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bitrise-io/sage/generate"
	"github.com/bitrise-io/sage/model"
	"github.com/bitrise-io/sage/review"
	"github.com/spf13/cobra"
)

type branchOptions struct {
	all     bool
	dryRun  bool
	context string
	yes     bool
}

var branchOpts branchOptions

var branchCmd = &cobra.Command{
	Use:   "branch [FILES...]",
	Short: "Create a branch named after your changes",
	Long: `Generate a branch name of the form category/kebab-slug from the staged and
unstaged changes, then create and switch to it. FILES, or every change with
--all, are staged first.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBranch(cmd.Context(), branchOpts, args)
	},
}

func runBranch(ctx context.Context, opts branchOptions, files []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}

	report := verbose || settings.Preferences.Verbose
	if report {
		printCurrentBranch(os.Stderr, repo)
	}
	if err := stageChanges(repo, files, opts.all); err != nil {
		return err
	}

	diffText, err := repo.GetDiff(true)
	if err != nil {
		return err
	}
	changed, err := repo.GetChangedFiles(true)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diffText) == "" {
		return errNoChanges()
	}

	pipeline, err := newPipeline(settings)
	if err != nil {
		return err
	}
	result, err := pipeline.Run(ctx, generate.Input{
		Kind:    model.KindBranch,
		Diff:    diffText,
		Files:   changed,
		Context: opts.context,
	})
	if report {
		printStats(os.Stderr, result)
	}
	if err != nil {
		return err
	}

	if result.NeedsManualReview() {
		printWarning(os.Stderr, "The branch name is not of the form category/kebab-slug: %v. Edit it before creating the branch.", result.FormatErr)
	}

	if opts.dryRun {
		printHeader(os.Stdout, "Generated branch name:")
		fmt.Println(result.Artifact.Text)
		return nil
	}

	skip := (opts.yes || settings.Preferences.SkipConfirmation) && !result.NeedsManualReview()
	controller := review.NewController(os.Stdin, os.Stdout, review.NewExternalEditor())
	outcome, err := controller.Run(ctx, result.Artifact, skip)
	if err != nil {
		return err
	}
	if !outcome.Committable() {
		printWarning(os.Stdout, "Branch creation aborted.")
		return nil
	}

	name := strings.TrimSpace(outcome.Artifact.Text)
	if err := repo.CreateBranch(name); err != nil {
		return err
	}
	printSuccess(os.Stdout, "Switched to new branch '%s'", name)
	return nil
}

func init() {
	rootCmd.AddCommand(branchCmd)

	branchCmd.Flags().BoolVarP(&branchOpts.all, "all", "a", false, "Stage all changes before analyzing")
	branchCmd.Flags().BoolVarP(&branchOpts.dryRun, "dry-run", "d", false, "Print the branch name without creating it")
	branchCmd.Flags().StringVarP(&branchOpts.context, "context", "c", "", "Extra context passed to the AI")
	branchCmd.Flags().BoolVarP(&branchOpts.yes, "yes", "y", false, "Create the branch without asking for confirmation")
}
