// Package keyboard models the virtual piano the quiz is played on: an ordered
// registry of keys spanning a window of octaves, with per-key enable, mute and
// highlight state, and transposition of the whole window.
package keyboard

import (
	"fmt"

	"github.com/vsariola/pianoear"
)

type (
	// Key is one key of the keyboard. The identity of a key (its position in
	// the Registry) never changes; only its octave is rewritten when the
	// keyboard transposes.
	Key struct {
		note    pianoear.Note
		octave  int
		soundID *int // nil = muted

		enabled       bool
		highlighted   bool
		revealTrigger bool
	}

	// KeyState is a copy of the observable state of a Key.
	KeyState struct {
		Note          pianoear.Note
		Octave        int
		Color         pianoear.Color
		SoundID       *int
		Enabled       bool
		Highlighted   bool
		RevealTrigger bool
	}

	// Registry is the ordered collection of keys of one keyboard, of length
	// octaveCount*12. The order is the physical left-to-right order of the
	// keys and never changes.
	Registry struct {
		keys          []*Key
		startOctave   int
		octaveCount   int
		currentOctave int
		soundID       int
	}
)

// Build creates a keyboard of octaveCount octaves, the lowest being
// startOctave. Every key starts enabled and unmuted, playing soundID when
// pressed.
func Build(startOctave, octaveCount, soundID int) (*Registry, error) {
	if startOctave < pianoear.MinOctave || octaveCount < 1 || startOctave+octaveCount-1 > pianoear.MaxOctave {
		return nil, fmt.Errorf("%w: start octave %d, %d octaves (keys must stay within octaves %d..%d)",
			pianoear.ErrInvalidRange, startOctave, octaveCount, pianoear.MinOctave, pianoear.MaxOctave)
	}
	r := &Registry{
		keys:          make([]*Key, 0, octaveCount*pianoear.KeysPerOctave),
		startOctave:   startOctave,
		octaveCount:   octaveCount,
		currentOctave: startOctave,
		soundID:       soundID,
	}
	for o := 0; o < octaveCount; o++ {
		for n := pianoear.C; n < pianoear.NumNotes; n++ {
			id := soundID
			r.keys = append(r.keys, &Key{note: n, octave: startOctave + o, soundID: &id, enabled: true})
		}
	}
	return r, nil
}

func (r *Registry) Len() int           { return len(r.keys) }
func (r *Registry) OctaveCount() int   { return r.octaveCount }
func (r *Registry) StartOctave() int   { return r.startOctave }
func (r *Registry) CurrentOctave() int { return r.currentOctave }

// Key returns the key at index.
func (r *Registry) Key(index int) (*Key, error) {
	if index < 0 || index >= len(r.keys) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", pianoear.ErrIndexOutOfRange, index, len(r.keys))
	}
	return r.keys[index], nil
}

// Keys iterates over the keys in keyboard order.
func (r *Registry) Keys(yield func(int, *Key) bool) {
	for i, k := range r.keys {
		if !yield(i, k) {
			return
		}
	}
}

// Find returns the index of the key playing note in octave.
func (r *Registry) Find(note pianoear.Note, octave int) (int, bool) {
	for i, k := range r.keys {
		if k.note == note && k.octave == octave {
			return i, true
		}
	}
	return 0, false
}

// TransposeUp moves the keyboard one octave up. The keys only move while
// currentOctave <= 8-octaveCount and the highest key stays within octave 8;
// the tracked current octave keeps advancing until it saturates at 8.
func (r *Registry) TransposeUp() {
	if r.currentOctave <= pianoear.MaxOctave-r.octaveCount && r.highestOctave() < pianoear.MaxOctave {
		r.shift(1)
	}
	r.currentOctave = min(r.currentOctave+1, pianoear.MaxOctave)
}

// TransposeDown moves the keyboard one octave down. The keys only move while
// currentOctave <= 9-octaveCount and the lowest key stays within octave 1;
// the tracked current octave saturates at 1.
func (r *Registry) TransposeDown() {
	if r.currentOctave <= pianoear.MaxOctave+1-r.octaveCount && r.lowestOctave() > pianoear.MinOctave {
		r.shift(-1)
	}
	r.currentOctave = max(r.currentOctave-1, pianoear.MinOctave)
}

// SetCurrentOctave transposes the keyboard step by step until the tracked
// current octave equals octave, or it cannot move any further.
func (r *Registry) SetCurrentOctave(octave int) {
	for r.currentOctave < octave {
		prev := r.currentOctave
		r.TransposeUp()
		if r.currentOctave == prev {
			return
		}
	}
	for r.currentOctave > octave {
		prev := r.currentOctave
		r.TransposeDown()
		if r.currentOctave == prev {
			return
		}
	}
}

// SetEnabled enables or disables every key.
func (r *Registry) SetEnabled(enabled bool) {
	for _, k := range r.keys {
		k.enabled = enabled
	}
}

// MuteAll silences every key.
func (r *Registry) MuteAll() {
	for _, k := range r.keys {
		k.soundID = nil
	}
}

// UnmuteAll gives every key back the sound id the keyboard was built with.
func (r *Registry) UnmuteAll() {
	for _, k := range r.keys {
		id := r.soundID
		k.soundID = &id
	}
}

// SetRevealTrigger switches every key between playing its own cue when
// pressed (false) and requesting the reveal of the current quiz answer (true).
func (r *Registry) SetRevealTrigger(on bool) {
	for _, k := range r.keys {
		k.revealTrigger = on
	}
}

func (r *Registry) Highlight(index int) error { return r.setHighlight(index, true) }
func (r *Registry) Restore(index int) error   { return r.setHighlight(index, false) }

func (r *Registry) setHighlight(index int, on bool) error {
	k, err := r.Key(index)
	if err != nil {
		return err
	}
	k.highlighted = on
	return nil
}

// IndexOf returns the position of k in the registry.
func (r *Registry) IndexOf(k *Key) (int, bool) {
	for i, other := range r.keys {
		if other == k {
			return i, true
		}
	}
	return 0, false
}

// Reset brings the keyboard back to the state it was built in: the original
// octave window, every key enabled, unmuted, unhighlighted and playing its
// own cue.
func (r *Registry) Reset() {
	for i, k := range r.keys {
		k.octave = r.startOctave + i/pianoear.KeysPerOctave
		k.enabled = true
		k.highlighted = false
		k.revealTrigger = false
	}
	r.currentOctave = r.startOctave
	r.UnmuteAll()
}

// Snapshot returns a copy of the state of every key, in keyboard order.
func (r *Registry) Snapshot() []KeyState {
	ret := make([]KeyState, len(r.keys))
	for i, k := range r.keys {
		ret[i] = k.State()
	}
	return ret
}

func (r *Registry) shift(delta int) {
	for _, k := range r.keys {
		k.octave += delta
	}
}

func (r *Registry) lowestOctave() int  { return r.keys[0].octave }
func (r *Registry) highestOctave() int { return r.keys[len(r.keys)-1].octave }

func (k *Key) Note() pianoear.Note   { return k.note }
func (k *Key) Octave() int           { return k.octave }
func (k *Key) Color() pianoear.Color { return k.note.Color() }
func (k *Key) Name() string          { return pianoear.KeyName(k.note, k.octave) }
func (k *Key) Enabled() bool         { return k.enabled }
func (k *Key) Highlighted() bool     { return k.highlighted }
func (k *Key) RevealTrigger() bool   { return k.revealTrigger }
func (k *Key) Muted() bool           { return k.soundID == nil }

// SoundID returns the sound variant played when the key is pressed, and
// false if the key is muted.
func (k *Key) SoundID() (int, bool) {
	if k.soundID == nil {
		return 0, false
	}
	return *k.soundID, true
}

func (k *Key) State() KeyState {
	s := KeyState{
		Note:          k.note,
		Octave:        k.octave,
		Color:         k.note.Color(),
		Enabled:       k.enabled,
		Highlighted:   k.highlighted,
		RevealTrigger: k.revealTrigger,
	}
	if k.soundID != nil {
		id := *k.soundID
		s.SoundID = &id
	}
	return s
}
