package cmd

import (
	"fmt"

	"github.com/bitrise-io/sage/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the version of sage`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sage v%s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
