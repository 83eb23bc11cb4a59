package quiz

import (
	"context"
	"time"
)

type (
	// EventLoop is a real-time Scheduler. All callbacks, and all functions
	// posted with Do, run one at a time on the goroutine that called Run.
	//
	// Timers must be stopped from the loop goroutine: a stopped timer whose
	// callback was already queued is dropped when it reaches the front of the
	// queue, so once Stop returns the callback never runs.
	EventLoop struct {
		tasks    chan func()
		start    time.Time
		finished chan struct{}
	}

	loopTimer struct {
		timer   *time.Timer
		stopped bool // only accessed on the loop goroutine
		fired   bool
	}
)

const loopQueueSize = 1024

func NewEventLoop() *EventLoop {
	return &EventLoop{
		tasks:    make(chan func(), loopQueueSize),
		start:    time.Now(),
		finished: make(chan struct{}),
	}
}

// Run executes posted functions until ctx is done.
func (l *EventLoop) Run(ctx context.Context) error {
	defer close(l.finished)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
		}
	}
}

// Do posts f to be run on the loop goroutine. It is safe to call from any
// goroutine. Returns false if the loop has finished and f will never run.
func (l *EventLoop) Do(f func()) bool {
	select {
	case <-l.finished:
		return false
	default:
	}
	select {
	case l.tasks <- f:
		return true
	case <-l.finished:
		return false
	}
}

// Call runs f on the loop goroutine and waits for it to return. It must not
// be called from the loop goroutine itself.
func (l *EventLoop) Call(f func()) bool {
	done := make(chan struct{})
	if !l.Do(func() { f(); close(done) }) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.finished:
		return false
	}
}

func (l *EventLoop) Now() time.Duration { return time.Since(l.start) }

func (l *EventLoop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Do(func() {
			if t.stopped {
				return
			}
			t.fired = true
			f()
		})
	})
	return t
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.timer.Stop()
	return true
}
