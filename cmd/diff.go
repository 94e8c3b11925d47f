package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bitrise-io/sage/diff"
	"github.com/spf13/cobra"
)

var diffAll bool

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show the changes sage would describe",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := openRepo()
		if err != nil {
			return err
		}

		diffText, err := repo.GetDiff(diffAll)
		if err != nil {
			return err
		}
		changed, err := repo.GetChangedFiles(diffAll)
		if err != nil {
			return err
		}
		if strings.TrimSpace(diffText) == "" {
			return errNoChanges()
		}

		showChanges(os.Stdout, changed, diffText)

		added, removed := diff.Parse(diffText).Stats()
		fmt.Fprintln(os.Stdout, mutedStyle.Render(fmt.Sprintf("%d files, +%d -%d", len(changed), added, removed)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().BoolVarP(&diffAll, "all", "a", false, "Include unstaged changes")
}
