package cue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"github.com/vsariola/pianoear"
)

type (
	// AssetLibrary loads recorded cues from a directory. Files are found with
	// a Namer, decoded according to their extension (.wav or .mp3), resampled
	// to pianoear.SampleRate and cached.
	//
	// AssetLibrary is not safe for concurrent use.
	AssetLibrary struct {
		dir   string
		namer *Namer
		cache map[assetKey]pianoear.AudioBuffer
	}

	assetKey struct {
		note            pianoear.Note
		octave, variant int
	}
)

const resampleQuality = 4

// pcm16Gain undoes the scaling of beep's WAV decoder, which divides 16-bit
// samples by 1<<16-1 instead of 1<<15.
const pcm16Gain = (1<<16-1)/float64(1<<15) - 1

func NewAssetLibrary(dir string, namer *Namer) *AssetLibrary {
	return &AssetLibrary{dir: dir, namer: namer, cache: make(map[assetKey]pianoear.AudioBuffer)}
}

// Path returns the file the cue would be loaded from.
func (l *AssetLibrary) Path(note pianoear.Note, octave, variant int) (string, error) {
	name, err := l.namer.Name(note, octave, variant)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.dir, name), nil
}

func (l *AssetLibrary) Cue(note pianoear.Note, octave, variant int) (pianoear.AudioBuffer, error) {
	if variant < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVariant, variant)
	}
	key := assetKey{note, octave, variant}
	if b, ok := l.cache[key]; ok {
		return b, nil
	}
	path, err := l.Path(note, octave, variant)
	if err != nil {
		return nil, err
	}
	b, err := loadAsset(path)
	if err != nil {
		return nil, err
	}
	l.cache[key] = b
	return b, nil
}

func loadAsset(path string) (pianoear.AudioBuffer, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open cue asset: %w", err)
	}
	defer f.Close()
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("cue asset %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot decode cue asset %s: %w", path, err)
	}
	var s beep.Streamer = streamer
	if ext == ".wav" && format.Precision == 2 {
		s = &effects.Gain{Streamer: s, Gain: pcm16Gain}
	}
	if format.SampleRate != pianoear.SampleRate {
		s = beep.Resample(resampleQuality, format.SampleRate, pianoear.SampleRate, s)
	}
	buffer := readAll(s)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("cannot decode cue asset %s: %w", path, err)
	}
	return buffer, nil
}

func readAll(s beep.Streamer) pianoear.AudioBuffer {
	var ret pianoear.AudioBuffer
	chunk := make([][2]float64, 1024)
	for {
		n, ok := s.Stream(chunk)
		for _, v := range chunk[:n] {
			ret = append(ret, [2]float32{float32(v[0]), float32(v[1])})
		}
		if !ok {
			return ret
		}
	}
}
