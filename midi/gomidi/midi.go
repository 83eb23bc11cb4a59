package gomidi

import (
	"errors"
	"fmt"
	"log/slog"

	gmidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/vsariola/pianoear/midi"
)

type (
	RTMIDIContext struct {
		driver *rtmididrv.Driver
		logger *slog.Logger
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
		stop    func()
	}
)

// Open the driver.
func NewContext(logger *slog.Logger) *RTMIDIContext {
	if logger == nil {
		logger = slog.Default()
	}
	m := RTMIDIContext{logger: logger}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	var err error
	if m.driver, err = rtmididrv.New(); err != nil {
		logger.Warn("no MIDI driver available", "err", err)
	}
	return &m
}

func (m *RTMIDIContext) Inputs(yield func(midi.Input) bool) {
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		m.logger.Warn("cannot list MIDI inputs", "err", err)
		return
	}
	for _, in := range ins {
		if !yield(&RTMIDIDevice{context: m, in: in}) {
			return
		}
	}
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.driver.Close()
}

// Open the input and start forwarding its note events to handler.
func (d *RTMIDIDevice) Open(handler func(midi.NoteEvent)) error {
	if d.context.driver == nil {
		return errors.New("no driver available")
	}
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := gmidi.ListenTo(d.in, func(msg gmidi.Message, timestampms int32) {
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity):
			handler(midi.NoteEvent{On: true, Channel: channel, Note: key, Velocity: velocity})
		case msg.GetNoteOff(&channel, &key, &velocity):
			handler(midi.NoteEvent{Channel: channel, Note: key, Velocity: velocity})
		}
	})
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	d.stop = stop
	d.context.logger.Info("MIDI input opened", "input", d.String())
	return nil
}

func (d *RTMIDIDevice) Close() error {
	if d.stop != nil {
		d.stop()
		d.stop = nil
	}
	if d.in.IsOpen() {
		return d.in.Close()
	}
	return nil
}

func (d *RTMIDIDevice) String() string {
	return d.in.String()
}
