package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/quiz"
)

var (
	keysFlags     sessionFlags
	keysTranspose int
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys of the keyboard",
	Long: `Lists the keys of the keyboard at the starting octave, after moving it
--transpose octaves up (or down, if negative).`,
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

func init() {
	keysFlags.register(keysCmd)
	keysCmd.Flags().IntVar(&keysTranspose, "transpose", 0, "octaves to transpose the keyboard by")
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	f := &keysFlags
	if err := f.resolve(cmd); err != nil {
		return err
	}
	registry, err := f.newRegistry()
	if err != nil {
		return err
	}
	ctrl, err := f.newController(registry, pianoear.NullCueSource{}, quiz.NewManualClock())
	if err != nil {
		return err
	}
	transpose := ctrl.TransposeUp
	if keysTranspose < 0 {
		transpose = ctrl.TransposeDown
	}
	for range max(keysTranspose, -keysTranspose) {
		if err := transpose(); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current octave %d\n", registry.CurrentOctave())
	title := cases.Title(language.English)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tKEY\tCOLOR\tMIDI")
	for i, k := range registry.Keys {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", i, k.Name(), title.String(k.Color().String()),
			pianoear.MIDINote(k.Note(), k.Octave()))
	}
	return w.Flush()
}
