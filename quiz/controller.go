// Package quiz runs the ear-training sessions on a keyboard: practice mode,
// where cues and their answers follow each other on a fixed timeline, and test
// mode, where the answer of each cue is revealed when the learner presses a
// key.
package quiz

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/keyboard"
)

type (
	// Controller owns the quiz runs played on one keyboard. At most one run is
	// active at a time; while it is, the Controller is the only one mutating
	// the keyboard.
	//
	// Controller is not safe for concurrent use. All its methods, and all the
	// callbacks of its Scheduler, must run on the same logical timeline, e.g.
	// the goroutine of an EventLoop.
	Controller struct {
		registry *keyboard.Registry
		cues     pianoear.CueSource
		sched    Scheduler
		settings Settings

		rand     *rand.Rand
		logger   *slog.Logger
		onEvent  func(Event)
		gameOver func()

		run       *sessionRun
		lastPhase Phase
	}

	// Settings are the timing constants of a quiz and the number of sound
	// variants cues are drawn from.
	Settings struct {
		TimeToGuess       time.Duration
		TimeForShowAnswer time.Duration
		SoundsCount       int
	}

	// Option configures a Controller.
	Option func(*Controller)

	// Status describes the run a Controller is playing.
	Status struct {
		Active bool
		RunID  string
		Mode   Mode
		Phase  Phase
		Round  int // index of the round awaiting reveal, test mode only
		Rounds int
	}

	Mode  int
	Phase int
)

const (
	Practice Mode = iota
	Test
)

const (
	Idle Phase = iota
	Scheduling
	Running
	AwaitingGuess
	Revealing
	Completed
)

// restoreLead is how long before the next round the revealed key returns to
// its default state.
const restoreLead = 500 * time.Millisecond

func WithLogger(l *slog.Logger) Option { return func(c *Controller) { c.logger = l } }
func WithRand(r *rand.Rand) Option     { return func(c *Controller) { c.rand = r } }

// WithEvents registers a function receiving every Event of every run.
func WithEvents(f func(Event)) Option { return func(c *Controller) { c.onEvent = f } }

// WithGameOver sets the function called once when a run completes or is
// stopped.
func WithGameOver(f func()) Option { return func(c *Controller) { c.gameOver = f } }

func NewController(registry *keyboard.Registry, cues pianoear.CueSource, sched Scheduler, settings Settings, opts ...Option) *Controller {
	c := &Controller{
		registry: registry,
		cues:     cues,
		sched:    sched,
		settings: settings,
		rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cues == nil {
		c.cues = pianoear.NullCueSource{}
	}
	return c
}

// TotalTime is the length of one practice round.
func (s Settings) TotalTime() time.Duration { return s.TimeToGuess + s.TimeForShowAnswer }

func (s Settings) restoreDelay() time.Duration {
	return max(s.TimeForShowAnswer-restoreLead, 0)
}

// SetGameOver replaces the function called when a run completes or is
// stopped.
func (c *Controller) SetGameOver(f func()) { c.gameOver = f }

func (c *Controller) Registry() *keyboard.Registry { return c.registry }
func (c *Controller) Settings() Settings           { return c.settings }
func (c *Controller) Active() bool                 { return c.run != nil }

// Selection returns the registry indices of the keys drawn for the active
// run, one per round.
func (c *Controller) Selection() []int {
	if c.run == nil {
		return nil
	}
	return append([]int(nil), c.run.selection...)
}

func (c *Controller) Status() Status {
	r := c.run
	if r == nil {
		return Status{Phase: c.lastPhase}
	}
	return Status{Active: true, RunID: r.id, Mode: r.mode, Phase: r.phase, Round: r.cursor, Rounds: r.count}
}

// Stop cancels the active run: none of its pending callbacks will run after
// Stop returns. The keyboard is left as it is; use ResetKeyboard to bring it
// back to its initial state. The game over function is called once. Stop does
// nothing when no run is active.
func (c *Controller) Stop() {
	r := c.run
	if r == nil {
		return
	}
	n := r.cancel()
	c.run = nil
	c.lastPhase = Idle
	c.logger.Info("quiz stopped", "run", r.id, "mode", r.mode, "cancelled", n)
	c.emit(r, Event{Kind: EventStop, Round: r.cursor})
	c.callGameOver()
}

// Press is the entry point for a key being pressed by the learner. Disabled
// keys ignore presses. In test mode, any key requests the reveal of the
// current answer; otherwise the key plays its own cue, unless it is muted.
func (c *Controller) Press(index int) error {
	k, err := c.registry.Key(index)
	if err != nil {
		return fmt.Errorf("press: %w", err)
	}
	if !k.Enabled() {
		c.logger.Debug("press ignored, keyboard disabled", "key", k.Name())
		return nil
	}
	if k.RevealTrigger() {
		c.trigger(index)
		return nil
	}
	id, ok := k.SoundID()
	if !ok {
		return nil
	}
	c.cues.PlayCue(k.Note(), k.Octave(), id)
	c.emit(c.run, Event{Kind: EventPress, Index: index, Key: k.State(), Variant: id, Pressed: index})
	return nil
}

// TransposeUp moves the keyboard one octave up. Not allowed during a run.
func (c *Controller) TransposeUp() error {
	return c.mutate("transpose up", c.registry.TransposeUp)
}

// TransposeDown moves the keyboard one octave down. Not allowed during a run.
func (c *Controller) TransposeDown() error {
	return c.mutate("transpose down", c.registry.TransposeDown)
}

func (c *Controller) SetCurrentOctave(octave int) error {
	return c.mutate("set current octave", func() { c.registry.SetCurrentOctave(octave) })
}

// SetMuted mutes or unmutes the whole keyboard. Not allowed during a run.
func (c *Controller) SetMuted(muted bool) error {
	if muted {
		return c.mutate("mute", c.registry.MuteAll)
	}
	return c.mutate("unmute", c.registry.UnmuteAll)
}

// ResetKeyboard brings the keyboard back to the state it was built in. It is
// meant to be called from the game over function, after a run ended.
func (c *Controller) ResetKeyboard() error {
	return c.mutate("reset keyboard", c.registry.Reset)
}

func (c *Controller) mutate(op string, f func()) error {
	if c.run != nil {
		return fmt.Errorf("%s: %w", op, pianoear.ErrSessionActive)
	}
	f()
	return nil
}

func (c *Controller) newRun(mode Mode, count int) *sessionRun {
	return &sessionRun{
		id:     uuid.NewString(),
		mode:   mode,
		count:  count,
		sched:  c.sched,
		timers: make(map[uint64]Timer),
	}
}

// begin checks that no run is active, notifies onStart and computes the
// window keys are drawn from.
func (c *Controller) begin(mode Mode, onStart func(), restrict bool) (start, end int, err error) {
	if c.run != nil {
		return 0, 0, fmt.Errorf("start %s: %w", mode, pianoear.ErrSessionActive)
	}
	if onStart != nil {
		onStart()
	}
	start, end = keyboard.EligibleRange(c.registry, restrict)
	return start, end, nil
}

// completeEmpty finishes a run with no rounds at once, without scheduling
// anything.
func (c *Controller) completeEmpty(r *sessionRun) {
	r.phase = Completed
	c.lastPhase = Completed
	c.logger.Info("quiz completed", "run", r.id, "mode", r.mode, "rounds", 0)
	c.emit(r, Event{Kind: EventComplete})
	c.callGameOver()
}

func (c *Controller) finish(r *sessionRun) {
	r.cancel()
	r.phase = Completed
	c.run = nil
	c.lastPhase = Completed
	c.logger.Info("quiz completed", "run", r.id, "mode", r.mode, "rounds", r.count)
	c.emit(r, Event{Kind: EventComplete, Round: r.count})
	c.callGameOver()
}

func (c *Controller) callGameOver() {
	if c.gameOver != nil {
		c.gameOver()
	}
}

func (c *Controller) drawKey(start, end int) int {
	return start + c.rand.IntN(end-start)
}

func (c *Controller) drawVariant() int {
	if c.settings.SoundsCount <= 1 {
		return 0
	}
	return c.rand.IntN(c.settings.SoundsCount)
}

// playCue plays a random variant of the cue of the key at index. Muted keys
// stay silent; the returned variant is then -1.
func (c *Controller) playCue(r *sessionRun, round, index int) {
	k, err := c.registry.Key(index)
	if err != nil {
		c.logger.Error("cue for unknown key", "run", r.id, "index", index, "err", err)
		return
	}
	if k.Muted() {
		c.logger.Debug("cue skipped, key muted", "run", r.id, "round", round, "key", k.Name())
		c.emit(r, Event{Kind: EventCue, Round: round, Index: index, Key: k.State(), Variant: -1, Muted: true})
		return
	}
	variant := c.drawVariant()
	c.logger.Debug("playing cue", "run", r.id, "round", round, "key", k.Name(), "variant", variant)
	c.cues.PlayCue(k.Note(), k.Octave(), variant)
	c.emit(r, Event{Kind: EventCue, Round: round, Index: index, Key: k.State(), Variant: variant})
}

// reveal disables the keyboard and highlights the answer of a round.
func (c *Controller) reveal(r *sessionRun, round, index, pressed int) {
	c.registry.SetEnabled(false)
	if err := c.registry.Highlight(index); err != nil {
		c.logger.Error("cannot highlight answer", "run", r.id, "err", err)
	}
	k, _ := c.registry.Key(index)
	c.emit(r, Event{Kind: EventReveal, Round: round, Index: index, Key: k.State(), Pressed: pressed})
}

// restore returns the answer key to its default look and enables the
// keyboard again.
func (c *Controller) restore(r *sessionRun, round, index int) {
	if err := c.registry.Restore(index); err != nil {
		c.logger.Error("cannot restore answer", "run", r.id, "err", err)
	}
	c.registry.SetEnabled(true)
	k, _ := c.registry.Key(index)
	c.emit(r, Event{Kind: EventRestore, Round: round, Index: index, Key: k.State()})
}

func (c *Controller) emit(r *sessionRun, e Event) {
	if c.onEvent == nil {
		return
	}
	if r != nil {
		e.RunID = r.id
		e.Mode = r.mode
	}
	e.At = c.sched.Now()
	c.onEvent(e)
}

func (m Mode) String() string {
	switch m {
	case Practice:
		return "practice"
	case Test:
		return "test"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Scheduling:
		return "scheduling"
	case Running:
		return "running"
	case AwaitingGuess:
		return "awaiting guess"
	case Revealing:
		return "revealing"
	case Completed:
		return "completed"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}
