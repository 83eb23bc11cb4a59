package cue_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/cue"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestFrequency(t *testing.T) {
	assert.InDelta(t, 440, cue.Frequency(pianoear.A, 4), 1e-9)
	assert.InDelta(t, 261.6256, cue.Frequency(pianoear.C, 4), 1e-3)
	assert.InDelta(t, 880, cue.Frequency(pianoear.A, 5), 1e-9)
	assert.InDelta(t, 466.1638, cue.Frequency(pianoear.Ab, 4), 1e-3)
}

func TestToneSynth(t *testing.T) {
	synth := cue.ToneSynth{Duration: 200 * time.Millisecond, Gain: 0.25}
	a, err := synth.Cue(pianoear.A, 4, 0)
	require.NoError(t, err)
	require.Len(t, a, pianoear.SampleRate/5)
	peak := float32(0)
	for _, v := range a {
		assert.Equal(t, v[0], v[1])
		peak = max(peak, v[0], -v[0])
	}
	assert.InDelta(t, 0.25, peak, 1e-5)
	assert.Equal(t, [2]float32{}, a[0], "attack starts from silence")

	b, err := synth.Cue(pianoear.A, 4, 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "variants have different timbres")
	wrapped, err := synth.Cue(pianoear.A, 4, synth.Variants())
	require.NoError(t, err)
	assert.Equal(t, a, wrapped)

	_, err = synth.Cue(pianoear.A, 4, -1)
	assert.ErrorIs(t, err, cue.ErrInvalidVariant)
}

func TestNamer(t *testing.T) {
	n, err := cue.NewNamer("")
	require.NoError(t, err)
	name, err := n.Name(pianoear.Gb, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, "Gb id 2 octave_3.mp3", name)

	n, err = cue.NewNamer(`{{.Key | lower}}_{{.Variant | printf "%02d"}}_{{.MIDI}}.wav`)
	require.NoError(t, err)
	name, err = n.Name(pianoear.C, 4, 1)
	require.NoError(t, err)
	assert.Equal(t, "c4_01_60.wav", name)

	_, err = cue.NewNamer("{{.Note")
	assert.Error(t, err)
	n, err = cue.NewNamer("{{.Missing}}")
	require.NoError(t, err)
	_, err = n.Name(pianoear.C, 4, 1)
	assert.Error(t, err)
}

func TestRenderThenLoad(t *testing.T) {
	dir := t.TempDir()
	namer, err := cue.NewNamer("{{.Key}}-{{.Variant}}.wav")
	require.NoError(t, err)
	synth := cue.ToneSynth{Duration: 50 * time.Millisecond}
	r := &cue.Renderer{Source: synth, Namer: namer, Dir: dir, Logger: quiet}
	n, err := r.Render(context.Background(), 3, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 24, n)
	assert.FileExists(t, filepath.Join(dir, "Db3-1.wav"))

	lib := cue.NewAssetLibrary(dir, namer)
	loaded, err := lib.Cue(pianoear.Db, 3, 1)
	require.NoError(t, err)
	original, err := synth.Cue(pianoear.Db, 3, 1)
	require.NoError(t, err)
	require.Len(t, loaded, len(original))
	for i := range original {
		assert.InDelta(t, original[i][0], loaded[i][0], 1e-3)
	}

	// served from the cache once loaded
	require.NoError(t, os.Remove(filepath.Join(dir, "Db3-1.wav")))
	_, err = lib.Cue(pianoear.Db, 3, 1)
	assert.NoError(t, err)

	_, err = lib.Cue(pianoear.Db, 4, 1)
	assert.ErrorIs(t, err, cue.ErrAssetNotFound)
}

func TestRenderCancelled(t *testing.T) {
	namer, err := cue.NewNamer("{{.Key}}-{{.Variant}}.wav")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &cue.Renderer{Source: cue.ToneSynth{}, Namer: namer, Dir: t.TempDir(), Logger: quiet}
	n, err := r.Render(ctx, 1, 1, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestAssetResampled(t *testing.T) {
	dir := t.TempDir()
	buffer := make(pianoear.AudioBuffer, 1000)
	for i := range buffer {
		buffer[i] = [2]float32{0.1, -0.1}
	}
	wav, err := buffer.Wav(true)
	require.NoError(t, err)
	// rewrite the header as 22050 Hz
	binary.LittleEndian.PutUint32(wav[24:28], 22050)
	binary.LittleEndian.PutUint32(wav[28:32], 22050*4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C id 0 octave_4.wav"), wav, 0644))

	namer, err := cue.NewNamer("{{.Note}} id {{.Variant}} octave_{{.Octave}}.wav")
	require.NoError(t, err)
	loaded, err := cue.NewAssetLibrary(dir, namer).Cue(pianoear.C, 4, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2000, len(loaded), 10)
	// 16-bit samples load at the level they were written at
	assert.InDelta(t, 0.1, loaded[1000][0], 1e-3)
	assert.InDelta(t, -0.1, loaded[1000][1], 1e-3)
}

func TestRenderedAssetKeepsLevel(t *testing.T) {
	dir := t.TempDir()
	namer, err := cue.NewNamer("{{.Key}}.wav")
	require.NoError(t, err)
	synth := cue.ToneSynth{Duration: 100 * time.Millisecond, Gain: 0.8}
	r := &cue.Renderer{Source: synth, Namer: namer, Dir: dir, Logger: quiet}
	_, err = r.Render(context.Background(), 4, 1, 1)
	require.NoError(t, err)
	loaded, err := cue.NewAssetLibrary(dir, namer).Cue(pianoear.A, 4, 0)
	require.NoError(t, err)
	peak := float32(0)
	for _, v := range loaded {
		peak = max(peak, v[0], -v[0])
	}
	assert.InDelta(t, 0.8, peak, 1e-3)
}

func TestAssetUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "C4.ogg"), []byte("OggS"), 0644))
	namer, err := cue.NewNamer("{{.Key}}.ogg")
	require.NoError(t, err)
	_, err = cue.NewAssetLibrary(dir, namer).Cue(pianoear.C, 4, 0)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, cue.ErrAssetNotFound))
}

type fakeContext struct {
	mu     sync.Mutex
	played []pianoear.AudioBuffer
}

type fakePlayback struct{ done chan struct{} }

func (p *fakePlayback) Close() error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return nil
}
func (p *fakePlayback) Wait() { <-p.done }

func (c *fakeContext) Play(b pianoear.AudioBuffer) pianoear.CloserWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.played = append(c.played, b)
	return &fakePlayback{done: make(chan struct{})}
}
func (c *fakeContext) Close() error { return nil }

type failingSource struct{ calls int }

func (s *failingSource) Cue(pianoear.Note, int, int) (pianoear.AudioBuffer, error) {
	s.calls++
	return nil, cue.ErrAssetNotFound
}

func TestPlayerFallback(t *testing.T) {
	ctx := &fakeContext{}
	primary := &failingSource{}
	p := cue.NewPlayer(ctx, primary, cue.WithFallback(cue.ToneSynth{Duration: 10 * time.Millisecond}), cue.WithPlayerLogger(quiet))
	p.PlayCue(pianoear.E, 2, 0)
	assert.Equal(t, 1, primary.calls)
	require.Len(t, ctx.played, 1)
	assert.Len(t, ctx.played[0], pianoear.SampleRate/100)
	assert.Equal(t, 1, p.Playing())
	require.NoError(t, p.Close())
	assert.Zero(t, p.Playing())
}

func TestPlayerSkipsFailedCue(t *testing.T) {
	ctx := &fakeContext{}
	var logs bytes.Buffer
	p := cue.NewPlayer(ctx, &failingSource{}, cue.WithPlayerLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	p.PlayCue(pianoear.E, 2, 0)
	assert.Empty(t, ctx.played)
	assert.Contains(t, logs.String(), "cue skipped")
	assert.Contains(t, logs.String(), "key=E2")
}
