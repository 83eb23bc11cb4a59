// Package cue produces the audio cues of the keys: synthesized tones,
// recorded assets loaded from disk, and a Player turning any of them into a
// pianoear.CueSource.
package cue

import (
	"errors"
	"math"

	"github.com/vsariola/pianoear"
)

// Source renders the cue of a key. variant selects one of the versions of
// the same pitch.
type Source interface {
	Cue(note pianoear.Note, octave, variant int) (pianoear.AudioBuffer, error)
}

var (
	// ErrAssetNotFound is returned by an AssetLibrary when no file exists
	// for the requested cue.
	ErrAssetNotFound = errors.New("cue asset not found")
	// ErrInvalidVariant is returned for a negative variant.
	ErrInvalidVariant = errors.New("invalid cue variant")
)

// Frequency returns the frequency of the note in Hz, in equal temperament
// with A4 = 440 Hz.
func Frequency(note pianoear.Note, octave int) float64 {
	return 440 * math.Exp2(float64(pianoear.MIDINote(note, octave)-69)/12)
}
