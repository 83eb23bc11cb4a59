package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear/version"
)

var versionCmd = &cobra.Command{
	Use:              "version",
	Short:            "Print the version",
	Args:             cobra.NoArgs,
	PersistentPreRun: skipConfig,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
