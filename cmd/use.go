package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:       "use PROVIDER",
	Short:     "Switch the active provider",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"openai", "claude"},
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := validateProvider(args[0])
		if err != nil {
			return err
		}

		settings, path, err := loadSettings()
		if err != nil {
			return err
		}
		if err := settings.UseProvider(name); err != nil {
			return err
		}
		if err := settings.Save(path); err != nil {
			return err
		}

		printSuccess(os.Stdout, "Now using %s", name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
