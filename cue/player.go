package cue

import (
	"log/slog"
	"sync"

	"github.com/vsariola/pianoear"
)

type (
	// Player is a pianoear.CueSource playing the cues of a Source on an
	// AudioContext. Cues that cannot be rendered are logged and skipped; if a
	// fallback Source is set, it is tried before giving up.
	Player struct {
		context  pianoear.AudioContext
		source   Source
		fallback Source
		logger   *slog.Logger

		mu      sync.Mutex
		playing map[*playback]struct{}
	}

	PlayerOption func(*Player)

	playback struct {
		pianoear.CloserWaiter
	}
)

// WithFallback sets the Source used when the main one fails, typically a
// ToneSynth behind an AssetLibrary with missing files.
func WithFallback(s Source) PlayerOption { return func(p *Player) { p.fallback = s } }

func WithPlayerLogger(l *slog.Logger) PlayerOption { return func(p *Player) { p.logger = l } }

func NewPlayer(context pianoear.AudioContext, source Source, opts ...PlayerOption) *Player {
	p := &Player{
		context: context,
		source:  source,
		logger:  slog.Default(),
		playing: make(map[*playback]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) PlayCue(note pianoear.Note, octave, variant int) {
	key := pianoear.KeyName(note, octave)
	buffer, err := p.source.Cue(note, octave, variant)
	if err != nil && p.fallback != nil {
		p.logger.Debug("cue source failed, using fallback", "key", key, "variant", variant, "err", err)
		buffer, err = p.fallback.Cue(note, octave, variant)
	}
	if err != nil {
		p.logger.Warn("cue skipped", "key", key, "variant", variant, "err", err)
		return
	}
	pb := &playback{p.context.Play(buffer)}
	p.mu.Lock()
	p.playing[pb] = struct{}{}
	p.mu.Unlock()
	go func() {
		pb.Wait()
		p.mu.Lock()
		delete(p.playing, pb)
		p.mu.Unlock()
	}()
}

// Playing returns the number of cues still sounding.
func (p *Player) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.playing)
}

// Close stops every cue still sounding. The AudioContext is not closed.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for pb := range p.playing {
		if err := pb.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.playing, pb)
	}
	return firstErr
}
