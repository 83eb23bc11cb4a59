package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/quiz"
)

var testFlags sessionFlags

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Name the keys you hear, the answer is revealed when you press a key",
	Long: `Plays the sound of a random key and waits. Type the key you think it was
(e.g. C4 or Gb3) and press enter, or just press enter to see the answer. The
next round starts time_for_show_answer later. Type q to quit.`,
	Args: cobra.NoArgs,
	RunE: runTest,
}

func init() {
	testFlags.register(testCmd)
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	f := &testFlags
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
	out := cmd.OutOrStdout()
	printer := newEventPrinter(out, registry, f.count, f.showKeys)
	loop := quiz.NewEventLoop()
	ctrl, err := f.newController(registry, player, loop, quiz.WithEvents(printer.Print))
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	go readAnswers(cmd.InOrStdin(), out, loop, ctrl)
	return runLoop(ctx, loop, ctrl, func() error {
		return ctrl.StartTest(f.count, func() {
			lowest, _ := registry.Key(0)
			highest, _ := registry.Key(registry.Len() - 1)
			fmt.Fprintf(out, "Test of %d rounds on %s..%s\n", f.count, lowest.Name(), highest.Name())
		}, f.oneOctave)
	})
}

// readAnswers turns lines of r into key presses on the event loop. It returns
// when r is exhausted, the user quits or the loop has finished.
func readAnswers(r io.Reader, out io.Writer, loop *quiz.EventLoop, ctrl *quiz.Controller) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		var ok bool
		switch strings.ToLower(line) {
		case "":
			ok = loop.Do(ctrl.Trigger)
		case "q", "quit":
			ok = loop.Do(ctrl.Stop)
		default:
			note, octave, err := pianoear.ParseKeyName(line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			ok = loop.Do(func() { pressKey(out, ctrl, note, octave) })
		}
		if !ok {
			return
		}
	}
}

func pressKey(out io.Writer, ctrl *quiz.Controller, note pianoear.Note, octave int) {
	index, ok := ctrl.Registry().Find(note, octave)
	if !ok {
		fmt.Fprintf(out, "%s is not on the keyboard\n", pianoear.KeyName(note, octave))
		return
	}
	if err := ctrl.Press(index); err != nil {
		logger.Warn("key press failed", "err", err)
	}
}
