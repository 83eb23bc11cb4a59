package pianoear

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Note is one of the twelve keys of a physical octave, ordered as they appear
// on the keyboard from left to right. The black keys are named after the
// white key on their left, with a "b" suffix: Cb sits between C and D, Db
// between D and E and so on. The numeric value of a Note is its semitone
// offset from C.
type Note int

const (
	C Note = iota
	Cb
	D
	Db
	E
	F
	Fb
	G
	Gb
	A
	Ab
	B
	NumNotes
)

// Color is the color of a key on the keyboard.
type Color int

const (
	White Color = iota
	Black
)

const (
	MinOctave     = 1
	MaxOctave     = 8
	KeysPerOctave = int(NumNotes)
)

var (
	// ErrInvalidRange is returned when a keyboard is built with an octave
	// window that does not fit in [MinOctave, MaxOctave].
	ErrInvalidRange = errors.New("invalid octave range")
	// ErrIndexOutOfRange is returned when a key is addressed outside the
	// keyboard.
	ErrIndexOutOfRange = errors.New("key index out of range")
	// ErrSessionActive is returned when a quiz is started, or the keyboard
	// mutated, while another quiz run is still active on the same keyboard.
	ErrSessionActive = errors.New("a quiz session is already active")
)

var noteNames = [NumNotes]string{"C", "Cb", "D", "Db", "E", "F", "Fb", "G", "Gb", "A", "Ab", "B"}

func (n Note) String() string {
	if n < 0 || n >= NumNotes {
		return "Note(" + strconv.Itoa(int(n)) + ")"
	}
	return noteNames[n]
}

// Color returns the color of the key playing the note.
func (n Note) Color() Color {
	switch n {
	case Cb, Db, Fb, Gb, Ab:
		return Black
	}
	return White
}

// Semitone returns the offset of the note from C of the same octave.
func (n Note) Semitone() int { return int(n) }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// ParseNote parses a note name, case-insensitively.
func ParseNote(s string) (Note, error) {
	for i, name := range noteNames {
		if strings.EqualFold(name, s) {
			return Note(i), nil
		}
	}
	return 0, fmt.Errorf("unknown note %q", s)
}

// ParseKeyName splits a key name like "C4" or "gb2" into its note and octave.
func ParseKeyName(s string) (Note, int, error) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, "0123456789")
	if i <= 0 {
		return 0, 0, fmt.Errorf("key name %q must be a note followed by an octave", s)
	}
	note, err := ParseNote(s[:i])
	if err != nil {
		return 0, 0, err
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0, 0, fmt.Errorf("key name %q has an invalid octave: %w", s, err)
	}
	return note, octave, nil
}

// KeyName formats a note and an octave as used in cue logs and key labels,
// e.g. "C4".
func KeyName(n Note, octave int) string {
	return n.String() + strconv.Itoa(octave)
}

// MIDINote returns the MIDI note number of the note in the given octave,
// using the convention where middle C (C4) is 60.
func MIDINote(n Note, octave int) int {
	return (octave+1)*KeysPerOctave + n.Semitone()
}

// NoteFromMIDI is the inverse of MIDINote.
func NoteFromMIDI(midiNote int) (Note, int) {
	return Note(midiNote % KeysPerOctave), midiNote/KeysPerOctave - 1
}
