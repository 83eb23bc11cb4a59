package quiz

// StartTest starts a test run of count rounds. onStart is called first,
// synchronously. Every key of the keyboard is switched to request a reveal
// when pressed, count keys are drawn at random (with replacement) and the cue
// of the first one is played at once.
//
// Each reveal, requested with Trigger or by pressing any key, highlights the
// answer and disables the keyboard; TimeForShowAnswer later the next cue plays,
// or the run completes after the last round. Rounds never overlap, and at most
// one callback of the run is pending at any time.
//
// StartTest returns pianoear.ErrSessionActive if a run is already active.
func (c *Controller) StartTest(count int, onStart func(), restrictToCurrentOctave bool) error {
	start, end, err := c.begin(Test, onStart, restrictToCurrentOctave)
	if err != nil {
		return err
	}
	r := c.newRun(Test, count)
	if count <= 0 {
		c.completeEmpty(r)
		return nil
	}
	c.registry.SetRevealTrigger(true)
	for i := 0; i < count; i++ {
		r.selection = append(r.selection, c.drawKey(start, end))
	}
	c.run = r
	c.logger.Info("test started", "run", r.id, "rounds", count, "from", start, "to", end,
		"octave", c.registry.CurrentOctave())
	c.testCue(r)
	return nil
}

// Trigger requests the reveal of the answer of the current test round. The
// reveal happens on the next turn of the scheduler, not during the call.
// Trigger does nothing unless a test run is waiting for a guess, so calling it
// repeatedly is safe.
func (c *Controller) Trigger() {
	c.trigger(-1)
}

func (c *Controller) trigger(pressed int) {
	r := c.run
	if r == nil || r.mode != Test || r.phase != AwaitingGuess {
		return
	}
	r.phase = Revealing
	r.schedule(0, func() { c.testReveal(r, pressed) })
}

func (c *Controller) testCue(r *sessionRun) {
	r.phase = AwaitingGuess
	c.playCue(r, r.cursor, r.selection[r.cursor])
}

func (c *Controller) testReveal(r *sessionRun, pressed int) {
	round, index := r.cursor, r.selection[r.cursor]
	c.reveal(r, round, index, pressed)
	r.schedule(c.settings.restoreDelay(), func() {
		c.restore(r, round, index)
		r.schedule(c.settings.TimeForShowAnswer-c.settings.restoreDelay(), func() { c.testAdvance(r) })
	})
}

func (c *Controller) testAdvance(r *sessionRun) {
	r.cursor++
	if r.cursor < r.count {
		c.testCue(r)
		return
	}
	c.finish(r)
}
