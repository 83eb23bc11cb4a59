package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/cue"
	"github.com/vsariola/pianoear/keyboard"
	"github.com/vsariola/pianoear/midi"
	"github.com/vsariola/pianoear/oto"
	"github.com/vsariola/pianoear/quiz"
)

type (
	// sessionFlags are the flags shared by every command running a quiz.
	// Unset flags take their value from the config.
	sessionFlags struct {
		count     int
		octave    int
		octaves   int
		oneOctave bool
		mute      bool
		showKeys  bool
	}

	eventPrinter struct {
		w        io.Writer
		registry *keyboard.Registry
		rounds   int
		showKeys bool
		title    cases.Caser
	}
)

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.count, "count", "n", 0, "number of rounds (default from config)")
	cmd.Flags().IntVar(&f.octave, "octave", 0, "lowest octave of the keyboard (default from config)")
	cmd.Flags().IntVar(&f.octaves, "octaves", 0, "number of octaves of the keyboard (default from config)")
	cmd.Flags().BoolVar(&f.oneOctave, "one-octave", false, "draw keys from the current octave only")
	cmd.Flags().BoolVar(&f.mute, "mute", false, "mute the keyboard")
	cmd.Flags().BoolVar(&f.showKeys, "show-keys", false, "print the keyboard when an answer is revealed")
}

// resolve fills the flags the user did not set from the config.
func (f *sessionFlags) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if !flags.Changed("count") {
		f.count = cfg.Defaults.SoundsPerSession
	}
	if !flags.Changed("octave") {
		f.octave = cfg.Defaults.StartingOctave
	}
	if !flags.Changed("octaves") {
		f.octaves = cfg.Defaults.Octaves
	}
	if !flags.Changed("one-octave") {
		f.oneOctave = cfg.Defaults.OneOctaveOnly
	}
	if !flags.Changed("show-keys") {
		f.showKeys = cfg.Defaults.ShowKeys
	}
	return cfg.CheckRounds(f.count)
}

// newRegistry builds the keyboard. When the starting octave lies above the
// highest window of f.octaves octaves, the keyboard is built on that window
// and newController transposes it. The whole keyboard plays one sound
// variant, drawn at random.
func (f *sessionFlags) newRegistry() (*keyboard.Registry, error) {
	return keyboard.Build(min(f.octave, pianoear.MaxOctave+1-f.octaves), f.octaves, rand.IntN(cfg.Sounds.Count))
}

// newController creates the controller of registry and applies the starting
// octave and the mute flag.
func (f *sessionFlags) newController(registry *keyboard.Registry, cues pianoear.CueSource, sched quiz.Scheduler, opts ...quiz.Option) (*quiz.Controller, error) {
	opts = append([]quiz.Option{quiz.WithLogger(logger)}, opts...)
	ctrl := quiz.NewController(registry, cues, sched, cfg.Settings(), opts...)
	if err := ctrl.SetCurrentOctave(f.octave); err != nil {
		return nil, err
	}
	if err := ctrl.SetMuted(f.mute); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// newCueSource returns the recorded assets of the config, backed by a
// ToneSynth for the missing ones, or the ToneSynth alone.
func newCueSource() (cue.Source, []cue.PlayerOption, error) {
	opts := []cue.PlayerOption{cue.WithPlayerLogger(logger)}
	if cfg.Sounds.Assets == "" {
		return cue.ToneSynth{}, opts, nil
	}
	namer, err := cue.NewNamer(cfg.Sounds.Pattern)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, cue.WithFallback(cue.ToneSynth{}))
	return cue.NewAssetLibrary(cfg.Sounds.Assets, namer), opts, nil
}

// newAudioPlayer opens the audio device and returns the cue source playing
// on it. Closing the returned context stops the cues still sounding.
func newAudioPlayer() (*cue.Player, pianoear.AudioContext, error) {
	audioContext, err := oto.NewContext()
	if err != nil {
		return nil, nil, fmt.Errorf("could not acquire oto AudioContext: %w", err)
	}
	source, opts, err := newCueSource()
	if err != nil {
		audioContext.Close()
		return nil, nil, err
	}
	return cue.NewPlayer(audioContext, source, opts...), audioContext, nil
}

// runLoop runs start on the event loop and then serves the loop until ctx is
// done or the game is over. ctrl must be scheduled on loop. MIDI note-ons of
// the configured input press keys.
func runLoop(ctx context.Context, loop *quiz.EventLoop, ctrl *quiz.Controller, start func() error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ctrl.SetGameOver(func() {
		if err := ctrl.ResetKeyboard(); err != nil {
			logger.Error("cannot reset keyboard", "err", err)
		}
		cancel()
	})
	if cfg.MIDI.Input != "" {
		midiContext := NewMidiContext(logger)
		defer midiContext.Close()
		closeInput := openMidiInput(midiContext, loop, ctrl)
		defer closeInput()
	}
	var startErr error
	loop.Do(func() {
		if startErr = start(); startErr != nil {
			cancel()
		}
	})
	loop.Run(ctx)
	// the loop is gone, nothing else touches the controller
	ctrl.Stop()
	return startErr
}

func openMidiInput(c midi.Context, loop *quiz.EventLoop, ctrl *quiz.Controller) func() {
	input, ok := midi.FindInputByPrefix(c, cfg.MIDI.Input)
	if !ok {
		logger.Warn("no MIDI input device found", "prefix", cfg.MIDI.Input)
		return func() {}
	}
	mapper := midi.NewKeyMapper(ctrl.Registry(), ctrl, logger)
	err := input.Open(func(e midi.NoteEvent) {
		loop.Do(func() {
			if err := mapper.Handle(e); err != nil {
				logger.Warn("MIDI key press failed", "err", err)
			}
		})
	})
	if err != nil {
		logger.Warn("failed to open MIDI input", "input", input.String(), "err", err)
		return func() {}
	}
	return func() { input.Close() }
}

func newEventPrinter(w io.Writer, registry *keyboard.Registry, rounds int, showKeys bool) *eventPrinter {
	return &eventPrinter{w: w, registry: registry, rounds: rounds, showKeys: showKeys, title: cases.Title(language.English)}
}

func (p *eventPrinter) Print(e quiz.Event) {
	label := p.title.String(e.Kind.String())
	at := e.At.Seconds()
	switch e.Kind {
	case quiz.EventCue:
		muted := ""
		if e.Muted {
			muted = " (muted)"
		}
		fmt.Fprintf(p.w, "%8.2fs  %-8s round %d/%d%s\n", at, label, e.Round+1, p.rounds, muted)
	case quiz.EventReveal:
		answer := pianoear.KeyName(e.Key.Note, e.Key.Octave)
		verdict := ""
		if k, err := p.registry.Key(e.Pressed); err == nil {
			if e.Pressed == e.Index {
				verdict = fmt.Sprintf(", you pressed %s: right", k.Name())
			} else {
				verdict = fmt.Sprintf(", you pressed %s: wrong", k.Name())
			}
		}
		fmt.Fprintf(p.w, "%8.2fs  %-8s round %d/%d was %s%s\n", at, label, e.Round+1, p.rounds, answer, verdict)
		if p.showKeys {
			fmt.Fprintf(p.w, "%10s  %s\n", "", p.layout())
		}
	case quiz.EventPress:
		fmt.Fprintf(p.w, "%8.2fs  %-8s %s\n", at, label, pianoear.KeyName(e.Key.Note, e.Key.Octave))
	case quiz.EventComplete, quiz.EventStop:
		fmt.Fprintf(p.w, "%8.2fs  %s\n", at, label)
	}
}

// layout draws the keyboard on one line, the highlighted key in brackets.
func (p *eventPrinter) layout() string {
	var b strings.Builder
	for i, k := range p.registry.Keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		if k.Highlighted() {
			b.WriteString("[" + k.Name() + "]")
		} else {
			b.WriteString(k.Name())
		}
	}
	return b.String()
}
