package quiz

import (
	"container/heap"
	"time"
)

type (
	// Scheduler runs one-shot callbacks after a delay, on a single logical
	// timeline: callbacks never run concurrently with each other, and never
	// synchronously from within AfterFunc, even when d is zero.
	Scheduler interface {
		AfterFunc(d time.Duration, f func()) Timer
		// Now returns the time elapsed on the timeline since it was created.
		Now() time.Duration
	}

	// Timer is a pending callback. Stop returns true if the call prevented
	// the callback from running, false if it already ran or was stopped.
	Timer interface {
		Stop() bool
	}

	// ManualClock is a Scheduler on virtual time, which only moves when
	// Advance is called. Callbacks due at the same instant run in the order
	// they were scheduled.
	ManualClock struct {
		now     time.Duration
		seq     uint64
		pending timerHeap
	}

	manualTimer struct {
		clock *ManualClock
		at    time.Duration
		seq   uint64
		f     func()
		index int // index in the heap, -1 when not pending
	}

	timerHeap []*manualTimer
)

func NewManualClock() *ManualClock {
	return &ManualClock{}
}

func (c *ManualClock) Now() time.Duration { return c.now }

// Pending returns the number of callbacks that have not run nor been stopped.
func (c *ManualClock) Pending() int { return len(c.pending) }

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	t := &manualTimer{clock: c, at: c.now + d, seq: c.seq, f: f}
	c.seq++
	heap.Push(&c.pending, t)
	return t
}

// Advance moves the clock forward by d, running every callback that becomes
// due, including the ones scheduled by callbacks during the advance.
func (c *ManualClock) Advance(d time.Duration) {
	target := c.now + d
	for len(c.pending) > 0 && c.pending[0].at <= target {
		t := heap.Pop(&c.pending).(*manualTimer)
		c.now = t.at
		t.f()
	}
	c.now = target
}

// RunUntilIdle advances the clock until no callbacks are pending.
func (c *ManualClock) RunUntilIdle() {
	for len(c.pending) > 0 {
		c.Advance(c.pending[0].at - c.now)
	}
}

// NextDeadline returns the time the next pending callback is due.
func (c *ManualClock) NextDeadline() (time.Duration, bool) {
	if len(c.pending) == 0 {
		return 0, false
	}
	return c.pending[0].at, true
}

func (t *manualTimer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.clock.pending, t.index)
	return true
}

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
