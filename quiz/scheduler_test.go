package quiz_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsariola/pianoear/quiz"
)

func TestManualClockOrder(t *testing.T) {
	c := quiz.NewManualClock()
	var got []string
	c.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	c.AfterFunc(time.Second, func() { got = append(got, "a") })
	c.AfterFunc(2*time.Second, func() { got = append(got, "c") })
	c.AfterFunc(0, func() {
		got = append(got, "zero")
		c.AfterFunc(0, func() { got = append(got, "nested") })
	})
	assert.Empty(t, got, "AfterFunc never runs the callback synchronously")

	c.Advance(0)
	assert.Equal(t, []string{"zero", "nested"}, got)
	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, []string{"zero", "nested", "a"}, got)
	assert.Equal(t, 1500*time.Millisecond, c.Now())
	c.RunUntilIdle()
	assert.Equal(t, []string{"zero", "nested", "a", "b", "c"}, got)
	assert.Equal(t, 2*time.Second, c.Now())
}

func TestManualClockStop(t *testing.T) {
	c := quiz.NewManualClock()
	fired := 0
	t1 := c.AfterFunc(time.Second, func() { fired++ })
	t2 := c.AfterFunc(time.Second, func() { fired++ })
	c.AfterFunc(-time.Second, func() { fired++ })
	require.Equal(t, 3, c.Pending())
	deadline, ok := c.NextDeadline()
	assert.True(t, ok)
	assert.Equal(t, time.Duration(0), deadline)

	assert.True(t, t1.Stop())
	assert.False(t, t1.Stop())
	assert.Equal(t, 2, c.Pending())
	c.Advance(time.Second)
	assert.Equal(t, 2, fired)
	assert.False(t, t2.Stop(), "fired timers cannot be stopped")
	_, ok = c.NextDeadline()
	assert.False(t, ok)
}

func TestEventLoop(t *testing.T) {
	loop := quiz.NewEventLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- loop.Run(ctx) }()

	fired := make(chan time.Duration, 1)
	var stopped quiz.Timer
	require.True(t, loop.Call(func() {
		loop.AfterFunc(10*time.Millisecond, func() { fired <- loop.Now() })
		stopped = loop.AfterFunc(5*time.Millisecond, func() { t.Error("stopped timer fired") })
	}))
	var ok bool
	require.True(t, loop.Call(func() { ok = stopped.Stop() }))
	assert.True(t, ok)

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at, 10*time.Millisecond)
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, loop.Do(func() {}))
	assert.False(t, loop.Call(func() {}))
}
