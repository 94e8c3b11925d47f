package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/generate"
	"github.com/bitrise-io/sage/logger"
	"github.com/bitrise-io/sage/model"
	"github.com/bitrise-io/sage/review"
	"github.com/spf13/cobra"
)

var (
	// Command line flags
	logLevel   string
	configPath string
	verbose    bool
)

type commitOptions struct {
	all       bool
	dryRun    bool
	message   string
	context   string
	style     string
	showDiff  bool
	amend     bool
	push      bool
	forcePush bool
	yes       bool
}

var commitOpts commitOptions

var rootCmd = &cobra.Command{
	Use:   "sage [FILES...]",
	Short: "Sage - commit messages and branch names written by AI",
	Long: `Sage reads your pending changes, asks an AI provider (OpenAI or Claude) for a
commit message in the style you choose, and lets you accept, edit or reject it
before anything is committed.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := logLevel
		if verbose && !cmd.Flags().Changed("log-level") {
			level = "info"
		}
		// Initialize logger with the specified log level
		logger.Init(level)
		logger.Debugf("Log level set to: %s", level)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommit(cmd.Context(), commitOpts, args)
	},
}

// Execute runs the root command; an interrupt cancels its context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Subcommands are added in their respective init() functions
	return rootCmd.ExecuteContext(ctx)
}

func runCommit(ctx context.Context, opts commitOptions, files []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}
	prefs := settings.Preferences

	repo, err := openRepo()
	if err != nil {
		return err
	}

	all := opts.all || prefs.AutoStageAll
	if err := stageChanges(repo, files, all); err != nil {
		return err
	}

	var message string
	if opts.message != "" {
		if !opts.amend {
			staged, err := repo.HasStagedChanges()
			if err != nil {
				return err
			}
			if !staged {
				return errNoChanges()
			}
		}
		message = opts.message
	} else {
		diffText, err := repo.GetDiff(all)
		if err != nil {
			return err
		}
		changed, err := repo.GetChangedFiles(all)
		if err != nil {
			return err
		}
		if strings.TrimSpace(diffText) == "" {
			return errNoChanges()
		}

		if opts.showDiff || prefs.ShowDiff {
			showChanges(os.Stdout, changed, diffText)
		}

		style := settings.Style()
		if opts.style != "" {
			if style, err = model.ParseStyle(opts.style); err != nil {
				return errs.Configuration(err.Error(), "use --style standard, conventional, detailed or short")
			}
		}

		pipeline, err := newPipeline(settings)
		if err != nil {
			return err
		}
		result, err := pipeline.Run(ctx, generate.Input{
			Kind:    model.KindCommit,
			Style:   style,
			Diff:    diffText,
			Files:   changed,
			Context: opts.context,
		})
		if verbose || prefs.Verbose {
			printStats(os.Stderr, result)
		}
		if err != nil {
			return err
		}

		if result.NeedsManualReview() {
			printWarning(os.Stderr, "The message does not follow the %s style: %v. Edit it before committing.", style, result.FormatErr)
		}

		if opts.dryRun {
			printHeader(os.Stdout, "Generated commit message:")
			fmt.Println(result.Artifact.Text)
			return nil
		}

		skip := (opts.yes || prefs.SkipConfirmation) && !result.NeedsManualReview()
		controller := review.NewController(os.Stdin, os.Stdout, review.NewExternalEditor())
		outcome, err := controller.Run(ctx, result.Artifact, skip)
		if err != nil {
			return err
		}
		if !outcome.Committable() {
			printWarning(os.Stdout, "Commit aborted.")
			return nil
		}
		message = outcome.Artifact.Text
	}

	if opts.dryRun {
		printHeader(os.Stdout, "Commit message:")
		fmt.Println(message)
		return nil
	}

	if err := repo.Commit(message, opts.amend); err != nil {
		return err
	}
	summary, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	printSuccess(os.Stdout, "Committed: %s", summary)

	if opts.push || opts.forcePush || prefs.AutoPush {
		if err := repo.Push(opts.forcePush); err != nil {
			return err
		}
		printSuccess(os.Stdout, "Pushed")
	}
	return nil
}

func init() {
	// Add persistent flags that will be available to all subcommands
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn",
		"Set the logging level (debug, info, warn, error, dpanic, panic, fatal)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default $SAGE_CONFIG or ~/.sage.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show provider, model, token usage and latency")

	flags := rootCmd.Flags()
	flags.BoolVarP(&commitOpts.all, "all", "a", false, "Stage all changes and describe staged and unstaged work")
	flags.BoolVarP(&commitOpts.dryRun, "dry-run", "d", false, "Print the message without committing")
	flags.StringVarP(&commitOpts.message, "message", "m", "", "Commit with this message instead of generating one")
	flags.StringVarP(&commitOpts.context, "context", "c", "", "Extra context passed to the AI")
	flags.StringVarP(&commitOpts.style, "style", "t", "", "Message style: standard, conventional, detailed or short")
	flags.BoolVarP(&commitOpts.showDiff, "show-diff", "s", false, "Show the changes before generating")
	flags.BoolVar(&commitOpts.amend, "amend", false, "Amend the previous commit")
	flags.BoolVarP(&commitOpts.push, "push", "p", false, "Push after committing")
	flags.BoolVarP(&commitOpts.forcePush, "force-push", "f", false, "Force push after committing")
	flags.BoolVarP(&commitOpts.yes, "yes", "y", false, "Commit without asking for confirmation")
}
