package quiz

import (
	"time"

	"github.com/vsariola/pianoear/keyboard"
)

type (
	// sessionRun is the state of one invocation of practice or test mode. It
	// owns every timer scheduled for the run, so that they can be cancelled
	// together.
	sessionRun struct {
		id        string
		mode      Mode
		phase     Phase
		count     int
		selection []int // registry indices, one per round
		cursor    int

		sched     Scheduler
		timers    map[uint64]Timer
		nextTimer uint64
	}

	// Event is emitted by the Controller for everything a presenter may want
	// to show: cues, reveals of the answer, the answer going back to normal,
	// free key presses and the end of a run.
	Event struct {
		Kind    EventKind
		RunID   string
		Mode    Mode
		Round   int
		Index   int               // registry index of the key concerned
		Key     keyboard.KeyState // state of that key after the event
		Variant int               // sound variant of a cue, -1 if muted
		Muted   bool
		Pressed int           // key pressed to request a reveal, -1 for Trigger
		At      time.Duration // time on the scheduler timeline
	}

	EventKind int
)

const (
	EventCue EventKind = iota
	EventReveal
	EventRestore
	EventPress
	EventComplete
	EventStop
)

// schedule runs f after d, unless the run is cancelled first.
func (r *sessionRun) schedule(d time.Duration, f func()) {
	id := r.nextTimer
	r.nextTimer++
	r.timers[id] = r.sched.AfterFunc(d, func() {
		if _, ok := r.timers[id]; !ok {
			return
		}
		delete(r.timers, id)
		f()
	})
}

// cancel stops every pending timer of the run and returns how many there
// were.
func (r *sessionRun) cancel() int {
	n := 0
	for id, t := range r.timers {
		if t.Stop() {
			n++
		}
		delete(r.timers, id)
	}
	return n
}

func (k EventKind) String() string {
	switch k {
	case EventCue:
		return "cue"
	case EventReveal:
		return "reveal"
	case EventRestore:
		return "restore"
	case EventPress:
		return "press"
	case EventComplete:
		return "complete"
	case EventStop:
		return "stop"
	}
	return "unknown"
}
