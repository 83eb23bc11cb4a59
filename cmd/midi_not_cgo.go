//go:build !cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/pianoear/midi"
)

func NewMidiContext(logger *slog.Logger) midi.Context {
	// with no cgo, we cannot use MIDI, so return a null context
	return midi.NullContext{}
}
