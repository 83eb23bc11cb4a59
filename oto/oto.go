package oto

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/vsariola/pianoear"
)

type (
	// OtoContext plays rendered AudioBuffers on the default audio device.
	// Every Play creates its own player, so cues may overlap.
	OtoContext struct {
		context *oto.Context

		mu      sync.Mutex
		outputs map[*OtoOutput]struct{}
	}

	OtoOutput struct {
		context *OtoContext
		player  *oto.Player
		done    chan struct{}
		once    sync.Once
	}
)

const (
	otoBufferSize = 50 * time.Millisecond
	pollInterval  = 10 * time.Millisecond
)

// NewContext creates the oto context and waits until the audio device is
// ready. There can be only one per process.
func NewContext() (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   pianoear.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   otoBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context, outputs: make(map[*OtoOutput]struct{})}, nil
}

// Play starts playing the buffer in the background.
func (c *OtoContext) Play(buffer pianoear.AudioBuffer) pianoear.CloserWaiter {
	data := BufferToFloat32LE(buffer, make([]byte, 0, len(buffer)*8))
	o := &OtoOutput{context: c, player: c.context.NewPlayer(bytes.NewReader(data)), done: make(chan struct{})}
	c.mu.Lock()
	c.outputs[o] = struct{}{}
	c.mu.Unlock()
	o.player.Play()
	go o.watch()
	return o
}

// Close stops everything still playing. The oto context itself lives until
// the process exits.
func (c *OtoContext) Close() error {
	c.mu.Lock()
	outputs := make([]*OtoOutput, 0, len(c.outputs))
	for o := range c.outputs {
		outputs = append(outputs, o)
	}
	c.mu.Unlock()
	var firstErr error
	for _, o := range outputs {
		if err := o.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (o *OtoOutput) watch() {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-o.done:
			return
		case <-ticker.C:
			if !o.player.IsPlaying() {
				o.Close()
				return
			}
		}
	}
}

// Wait blocks until the buffer has been played or the output closed.
func (o *OtoOutput) Wait() { <-o.done }

// Close disposes of resources
func (o *OtoOutput) Close() (err error) {
	o.once.Do(func() {
		if e := o.player.Close(); e != nil {
			err = fmt.Errorf("cannot close oto player: %w", e)
		}
		o.context.mu.Lock()
		delete(o.context.outputs, o)
		o.context.mu.Unlock()
		close(o.done)
	})
	return err
}
