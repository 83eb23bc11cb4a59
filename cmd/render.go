package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/cue"
)

var (
	renderDir      string
	renderPattern  string
	renderOctave   int
	renderOctaves  int
	renderVariants int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write synthesized cues as WAV files",
	Long: `Renders every variant of every key of the given octaves with the built-in
synthesizer and writes them as 16-bit WAV files. Point sounds.assets and
sounds.pattern of the config to the output to use them as recorded cues.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDir, "out", "o", "cues", "output directory")
	renderCmd.Flags().StringVar(&renderPattern, "pattern", "{{.Note}} id {{.Variant}} octave_{{.Octave}}.wav", "file name template")
	renderCmd.Flags().IntVar(&renderOctave, "octave", pianoear.MinOctave, "lowest octave")
	renderCmd.Flags().IntVar(&renderOctaves, "octaves", pianoear.MaxOctave, "number of octaves")
	renderCmd.Flags().IntVar(&renderVariants, "variants", 0, "variants per key (default sounds.count of the config)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("variants") {
		renderVariants = cfg.Sounds.Count
	}
	if renderOctave < pianoear.MinOctave || renderOctave+renderOctaves-1 > pianoear.MaxOctave {
		return fmt.Errorf("%w: %d octaves from octave %d", pianoear.ErrInvalidRange, renderOctaves, renderOctave)
	}
	namer, err := cue.NewNamer(renderPattern)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	r := &cue.Renderer{Source: cue.ToneSynth{}, Namer: namer, Dir: renderDir, Logger: logger}
	n, err := r.Render(ctx, renderOctave, renderOctaves, renderVariants)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s\n", n, renderDir)
	return err
}
