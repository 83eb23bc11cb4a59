package cue

import (
	"fmt"
	"math"
	"time"

	"github.com/viterin/vek/vek32"

	"github.com/vsariola/pianoear"
)

type (
	// ToneSynth renders cues with additive synthesis. Each variant has its own
	// timbre: the relative amplitudes of the harmonics and the decay rate of
	// the envelope.
	ToneSynth struct {
		Duration time.Duration // length of a cue, DefaultCueDuration if zero
		Gain     float32       // peak amplitude, DefaultGain if zero
	}

	timbre struct {
		harmonics []float32
		decay     float32 // 1/s
	}
)

const (
	DefaultCueDuration = 1500 * time.Millisecond
	DefaultGain        = 0.5
	attackTime         = 0.005 // s
)

var timbres = []timbre{
	{harmonics: []float32{1, 0.5, 0.25, 0.12, 0.06}, decay: 2.5},   // soft piano
	{harmonics: []float32{1, 0, 0.33, 0, 0.2, 0, 0.14}, decay: 1.5}, // hollow, odd harmonics
	{harmonics: []float32{1, 0.8, 0.6, 0.5, 0.4, 0.3}, decay: 4},    // bright and short
}

// Variants returns the number of distinct timbres; larger variants wrap
// around.
func (s ToneSynth) Variants() int { return len(timbres) }

func (s ToneSynth) Cue(note pianoear.Note, octave, variant int) (pianoear.AudioBuffer, error) {
	if variant < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVariant, variant)
	}
	duration, gain := s.Duration, s.Gain
	if duration <= 0 {
		duration = DefaultCueDuration
	}
	if gain <= 0 {
		gain = DefaultGain
	}
	tb := timbres[variant%len(timbres)]
	length := int(duration.Seconds() * pianoear.SampleRate)
	freq := Frequency(note, octave)
	mono := make([]float32, length)
	partial := make([]float32, length)
	for h, amp := range tb.harmonics {
		f := freq * float64(h+1)
		if amp == 0 || f >= pianoear.SampleRate/2 {
			continue
		}
		w := 2 * math.Pi * f / pianoear.SampleRate
		for i := range partial {
			partial[i] = float32(math.Sin(w * float64(i)))
		}
		vek32.MulNumber_Inplace(partial, amp)
		vek32.Add_Inplace(mono, partial)
	}
	envelope := partial
	for i := range envelope {
		t := float32(i) / pianoear.SampleRate
		envelope[i] = float32(math.Exp(float64(-tb.decay * t)))
		if t < attackTime {
			envelope[i] *= t / attackTime
		}
	}
	vek32.Mul_Inplace(mono, envelope)
	if length > 0 {
		abs := vek32.Abs(mono)
		if peak := vek32.Max(abs); peak > 0 {
			vek32.MulNumber_Inplace(mono, gain/peak)
		}
	}
	buffer := make(pianoear.AudioBuffer, length)
	for i, v := range mono {
		buffer[i] = [2]float32{v, v}
	}
	return buffer, nil
}
