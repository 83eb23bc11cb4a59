package pianoear

// SampleRate is the sample rate of all audio rendered and played by pianoear.
const SampleRate = 44100

type (
	// AudioBuffer is a buffer of stereo audio samples of variable length, each
	// sample represented by [2]float32. [0] is left channel, [1] is right.
	AudioBuffer [][2]float32

	// CloserWaiter is a handle to something that is playing in the
	// background: Close stops it, Wait blocks until it has finished.
	CloserWaiter interface {
		Close() error
		Wait()
	}

	// AudioContext plays fully rendered buffers. Several buffers may play at
	// the same time; practice mode overlaps the tail of one cue with the next.
	AudioContext interface {
		Play(buffer AudioBuffer) CloserWaiter
		Close() error
	}

	// CueSource plays the audio cue identifying a key. variant selects one of
	// the recorded (or synthesized) versions of the same pitch. A CueSource
	// never reports errors to its caller: a cue that cannot be played is
	// skipped, so that a long quiz does not die because of one missing asset.
	CueSource interface {
		PlayCue(note Note, octave, variant int)
	}

	// NullCueSource is a CueSource that plays nothing.
	NullCueSource struct{}
)

func (NullCueSource) PlayCue(Note, int, int) {}

// Duration returns the length of the buffer in seconds.
func (b AudioBuffer) Duration() float64 {
	return float64(len(b)) / SampleRate
}
