package cue

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vsariola/pianoear"
)

// Renderer writes the cues of a Source to disk as 16-bit WAV files, named so
// that an AssetLibrary with the same Namer loads them back.
type Renderer struct {
	Source Source
	Namer  *Namer
	Dir    string
	Logger *slog.Logger
}

// Render writes every variant of every key of octaves [startOctave,
// startOctave+octaves) and returns the number of files written.
func (r *Renderer) Render(ctx context.Context, startOctave, octaves, variants int) (int, error) {
	if err := os.MkdirAll(r.Dir, os.ModePerm); err != nil {
		return 0, fmt.Errorf("could not create output directory %v: %w", r.Dir, err)
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	written := 0
	for octave := startOctave; octave < startOctave+octaves; octave++ {
		for note := pianoear.C; note < pianoear.NumNotes; note++ {
			for variant := 0; variant < variants; variant++ {
				if err := ctx.Err(); err != nil {
					return written, err
				}
				name, err := r.Namer.Name(note, octave, variant)
				if err != nil {
					return written, err
				}
				buffer, err := r.Source.Cue(note, octave, variant)
				if err != nil {
					return written, fmt.Errorf("could not render %s: %w", name, err)
				}
				wav, err := buffer.Wav(true)
				if err != nil {
					return written, fmt.Errorf("could not generate %s: %w", name, err)
				}
				path := filepath.Join(r.Dir, name)
				if err := os.WriteFile(path, wav, 0644); err != nil {
					return written, fmt.Errorf("could not write file %v: %w", path, err)
				}
				logger.Debug("cue rendered", "file", path, "seconds", buffer.Duration())
				written++
			}
		}
	}
	return written, nil
}
