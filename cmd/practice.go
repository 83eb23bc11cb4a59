package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear/quiz"
)

var practiceFlags sessionFlags

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Listen to random keys, the answer is revealed after a while",
	Long: `Plays the sound of a random key every round. After time_to_guess the key
is revealed, and the next round starts time_for_show_answer later.`,
	Args: cobra.NoArgs,
	RunE: runPractice,
}

func init() {
	practiceFlags.register(practiceCmd)
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, args []string) error {
	f := &practiceFlags
	if err := f.resolve(cmd); err != nil {
		return err
	}
	registry, err := f.newRegistry()
	if err != nil {
		return err
	}
	player, audioContext, err := newAudioPlayer()
	if err != nil {
		return err
	}
	defer audioContext.Close()
	defer player.Close()
	printer := newEventPrinter(cmd.OutOrStdout(), registry, f.count, f.showKeys)
	loop := quiz.NewEventLoop()
	ctrl, err := f.newController(registry, player, loop, quiz.WithEvents(printer.Print))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return runLoop(ctx, loop, ctrl, func() error {
		return ctrl.StartPractice(f.count, func() {
			logger.Info("practice", "rounds", f.count, "one_octave", f.oneOctave)
		}, f.oneOctave)
	})
}
