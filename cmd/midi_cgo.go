//go:build cgo

package cmd

import (
	"log/slog"

	"github.com/vsariola/pianoear/midi"
	"github.com/vsariola/pianoear/midi/gomidi"
)

func NewMidiContext(logger *slog.Logger) midi.Context {
	return gomidi.NewContext(logger)
}
