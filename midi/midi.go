// Package midi connects MIDI keyboards to the quiz: a note-on on a physical
// key presses the key of the same pitch on the virtual keyboard.
package midi

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/keyboard"
)

type (
	// Context lists the MIDI inputs of the system.
	Context interface {
		Inputs(yield func(Input) bool)
		Close()
	}

	// Input is a MIDI input device. Open starts delivering its note events to
	// handler, on a goroutine owned by the driver.
	Input interface {
		Open(handler func(NoteEvent)) error
		Close() error
		String() string
	}

	NoteEvent struct {
		On       bool
		Channel  byte
		Note     byte
		Velocity byte
	}

	NullContext struct{}

	// Presser receives key presses by registry index; a quiz.Controller is
	// one.
	Presser interface {
		Press(index int) error
	}

	// KeyMapper turns note events into key presses. Notes outside the octave
	// window of the keyboard are ignored.
	KeyMapper struct {
		registry *keyboard.Registry
		presser  Presser
		logger   *slog.Logger
	}
)

func (NullContext) Inputs(yield func(Input) bool) {}
func (NullContext) Close()                        {}

// FindInputByPrefix returns the first input whose name starts with prefix.
// An empty prefix matches any input.
func FindInputByPrefix(c Context, prefix string) (Input, bool) {
	for input := range c.Inputs {
		if strings.HasPrefix(input.String(), prefix) {
			return input, true
		}
	}
	return nil, false
}

func NewKeyMapper(registry *keyboard.Registry, presser Presser, logger *slog.Logger) *KeyMapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeyMapper{registry: registry, presser: presser, logger: logger}
}

// Index returns the registry index of the key playing a MIDI note.
func (m *KeyMapper) Index(midiNote byte) (int, bool) {
	note, octave := pianoear.NoteFromMIDI(int(midiNote))
	return m.registry.Find(note, octave)
}

// Handle presses the key of a note-on event. Note-off events and note-ons
// with zero velocity are ignored.
func (m *KeyMapper) Handle(e NoteEvent) error {
	if !e.On || e.Velocity == 0 {
		return nil
	}
	index, ok := m.Index(e.Note)
	if !ok {
		note, octave := pianoear.NoteFromMIDI(int(e.Note))
		m.logger.Debug("midi note outside keyboard", "key", pianoear.KeyName(note, octave))
		return nil
	}
	if err := m.presser.Press(index); err != nil {
		return fmt.Errorf("midi note %d: %w", e.Note, err)
	}
	return nil
}
