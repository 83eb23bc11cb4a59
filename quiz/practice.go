package quiz

import "time"

// StartPractice starts a practice run of count rounds. onStart is called
// first, synchronously. Round i plays the cue of a random key at
// i*TotalTime, reveals the answer TimeToGuess later, and puts the key back
// 500ms before the round ends. Rounds overlap: the next cue may sound while the
// previous answer is still shown. The run completes at count*TotalTime.
//
// If restrictToCurrentOctave is set, keys are drawn from the current octave
// only, see keyboard.EligibleRange. A run with count <= 0 completes at once.
// StartPractice returns pianoear.ErrSessionActive if a run is already active.
func (c *Controller) StartPractice(count int, onStart func(), restrictToCurrentOctave bool) error {
	start, end, err := c.begin(Practice, onStart, restrictToCurrentOctave)
	if err != nil {
		return err
	}
	r := c.newRun(Practice, count)
	if count <= 0 {
		c.completeEmpty(r)
		return nil
	}
	c.run = r
	r.phase = Scheduling
	total := c.settings.TotalTime()
	for i := 0; i < count; i++ {
		index := c.drawKey(start, end)
		r.selection = append(r.selection, index)
		r.schedule(time.Duration(i)*total, func() { c.practiceCue(r, i, index) })
	}
	r.schedule(time.Duration(count)*total, func() { c.finish(r) })
	r.phase = Running
	c.logger.Info("practice started", "run", r.id, "rounds", count, "from", start, "to", end,
		"octave", c.registry.CurrentOctave())
	return nil
}

func (c *Controller) practiceCue(r *sessionRun, round, index int) {
	c.playCue(r, round, index)
	r.schedule(c.settings.TimeToGuess, func() { c.practiceReveal(r, round, index) })
}

func (c *Controller) practiceReveal(r *sessionRun, round, index int) {
	c.reveal(r, round, index, -1)
	r.schedule(c.settings.restoreDelay(), func() { c.restore(r, round, index) })
}
