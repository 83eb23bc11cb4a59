// Package cmd implements the pianoear command line: quiz sessions played on
// the audio device, simulated sessions, and tools to inspect the keyboard and
// render cue assets.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vsariola/pianoear/config"
)

var (
	cfgFile   string
	debug     bool
	midiInput string

	cfg    config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "pianoear",
	Short: "Ear training on a virtual piano keyboard",
	Long: `pianoear plays the sound of random keys of a piano keyboard and asks you to
recognize them. In practice mode the answer is revealed after a while; in test
mode it is revealed when you press a key.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./"+config.DefaultFile+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages")
	rootCmd.PersistentFlags().StringVar(&midiInput, "midi-input", "", "connect MIDI input to matching device name prefix")
}

// Execute runs the command line and returns the exit code of the process.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func setupLogger(cmd *cobra.Command) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), opts))
	slog.SetDefault(logger)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	setupLogger(cmd)
	var err error
	if cfg, err = config.Load(viper.New(), cfgFile); err != nil {
		return err
	}
	if cmd.Flags().Changed("midi-input") {
		cfg.MIDI.Input = midiInput
	}
	logger.Debug("config loaded", "file", cfgFile, "time_to_guess", cfg.Timing.TimeToGuess,
		"time_for_show_answer", cfg.Timing.TimeForShowAnswer, "sounds", cfg.Sounds.Count)
	return nil
}

// skipConfig replaces loadConfig for commands that must work without a valid
// config file.
func skipConfig(cmd *cobra.Command, args []string) {
	setupLogger(cmd)
}
