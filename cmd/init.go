package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear/config"
)

var initCmd = &cobra.Command{
	Use:              "init",
	Short:            "Write a default config file",
	Long:             `Creates ` + config.DefaultFile + ` in the current directory (or the file given with --config) with the default settings.`,
	Args:             cobra.NoArgs,
	PersistentPreRun: skipConfig,
	RunE:             runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.DefaultFile
	if cfgFile != "" {
		configPath = cfgFile
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configPath)
	return nil
}
