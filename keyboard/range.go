package keyboard

import "github.com/vsariola/pianoear"

// EligibleRange returns the half-open window [start, end) of registry indices
// the quiz may draw keys from. Unrestricted, that is the whole keyboard.
// Restricted to the current octave, it is a single 12-key block: the first
// block while the keyboard could still follow the current octave, otherwise
// block currentOctave mod octaveCount.
//
// The wrap-around picks the right block only for some octave counts (e.g. it
// does for 3 octaves, but not for 2); it is kept as is on purpose.
func EligibleRange(r *Registry, restrictToCurrentOctave bool) (start, end int) {
	if !restrictToCurrentOctave {
		return 0, r.Len()
	}
	if r.currentOctave > pianoear.MaxOctave+1-r.octaveCount {
		start = r.currentOctave % r.octaveCount * pianoear.KeysPerOctave
	}
	return start, start + pianoear.KeysPerOctave
}
