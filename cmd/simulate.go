package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/quiz"
)

var (
	simulateFlags  sessionFlags
	simulateMode   string
	simulateAnswer time.Duration
	simulateStopAt time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Print the timeline of a session without playing it",
	Long: `Runs a session on a virtual clock with silent cues and prints every event
with its time. In test mode the answer is requested --answer-after each cue.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateFlags.register(simulateCmd)
	simulateCmd.Flags().StringVar(&simulateMode, "mode", "practice", "practice or test")
	simulateCmd.Flags().DurationVar(&simulateAnswer, "answer-after", 3*time.Second, "time to answer in test mode")
	simulateCmd.Flags().DurationVar(&simulateStopAt, "stop-at", 0, "stop the session at this time (0 runs it to the end)")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	f := &simulateFlags
	if err := f.resolve(cmd); err != nil {
		return err
	}
	registry, err := f.newRegistry()
	if err != nil {
		return err
	}
	clock := quiz.NewManualClock()
	printer := newEventPrinter(cmd.OutOrStdout(), registry, f.count, f.showKeys)
	var ctrl *quiz.Controller
	onEvent := func(e quiz.Event) {
		printer.Print(e)
		if e.Kind == quiz.EventCue && e.Mode == quiz.Test {
			clock.AfterFunc(simulateAnswer, ctrl.Trigger)
		}
	}
	ctrl, err = f.newController(registry, pianoear.NullCueSource{}, clock, quiz.WithEvents(onEvent))
	if err != nil {
		return err
	}
	switch simulateMode {
	case "practice":
		err = ctrl.StartPractice(f.count, nil, f.oneOctave)
	case "test":
		err = ctrl.StartTest(f.count, nil, f.oneOctave)
	default:
		return fmt.Errorf("unknown mode %q, want practice or test", simulateMode)
	}
	if err != nil {
		return err
	}
	if simulateStopAt > 0 {
		clock.AfterFunc(simulateStopAt, ctrl.Stop)
	}
	clock.RunUntilIdle()
	return nil
}
