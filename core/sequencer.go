package core

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sequencer errors.
var (
	// ErrAlreadyRunning is returned by Play while a run is in progress.
	// The rejected call leaves the sequencer and the current run untouched.
	ErrAlreadyRunning = errors.New("sequencer: already running")

	// ErrInvalidDuration is returned by WithDuration for a negative duration.
	ErrInvalidDuration = errors.New("sequencer: negative duration")
)

// Sequencer chains an ordered, immutable list of animation steps into a
// single playable timeline. A run walks the steps strictly in order, either
// synchronously (Play with animated=false) or cooperatively on a Loop
// (animated=true), and can be cancelled or terminated mid-flight. Derived
// timelines (Reversed, WithDuration, Clone) are new independent instances;
// the receiver is never mutated by them.
//
// A sequencer is replayable: nothing is consumed by a run, and the step
// cursor is reset at each accepted Play call.
type Sequencer struct {
	steps []AnimationStep // immutable after construction

	mu           sync.Mutex
	loop         Loop
	tag          string
	userInfo     map[string]any
	resizeViews  bool
	lockingUI    bool
	bringToFront bool
	delay        time.Duration

	animated    bool
	running     bool
	cancelling  bool
	terminating bool

	// cursor is the resumable position into steps: the index of the step
	// currently executing (or next to execute). Cancel/Terminate force-
	// complete steps[cursor:].
	cursor int

	// generation is bumped at every accepted Play and every forced stop.
	// Scheduled callbacks capture the generation they belong to and drop
	// themselves when it no longer matches, so stale completion signals
	// from a superseded run can never advance the current one.
	generation uint64

	runID      string
	runStarted time.Time

	link    *DelegateLink
	logger  Logger
	metrics Metrics
	history *stepHistory
}

// NewSequencer creates a sequencer playing steps in order on loop. A nil or
// empty step list yields a valid empty sequencer, which still fires the
// start/stop notifications when played. The step slice is copied; the steps
// themselves are never mutated. Nil steps are skipped.
//
// It panics if loop is nil: every animated run needs a loop to schedule on,
// and failing at construction pins the error to the call site instead of a
// later Play.
func NewSequencer(loop Loop, steps ...AnimationStep) *Sequencer {
	if loop == nil {
		panic("sequencer: nil Loop. Pass the loop animated runs schedule on.")
	}
	kept := make([]AnimationStep, 0, len(steps))
	for _, step := range steps {
		if step != nil {
			kept = append(kept, step)
		}
	}
	return &Sequencer{
		steps:   kept,
		loop:    loop,
		logger:  NopLogger{},
		metrics: &NilMetrics{},
		history: newStepHistory(defaultHistoryCapacity),
	}
}

// Steps returns a copy of the step list.
func (s *Sequencer) Steps() []AnimationStep {
	out := make([]AnimationStep, len(s.steps))
	copy(out, s.steps)
	return out
}

// Tag returns the optional identifying tag, empty if unset.
func (s *Sequencer) Tag() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// SetTag sets the identifying tag.
func (s *Sequencer) SetTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = tag
}

// UserInfo returns the free-form metadata map, nil if unset.
func (s *Sequencer) UserInfo() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userInfo
}

// SetUserInfo attaches a free-form metadata map conveying additional
// information about the timeline.
func (s *Sequencer) SetUserInfo(userInfo map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userInfo = userInfo
}

// ResizeViews reports whether steps should resize their targets rather than
// only scale them. Carried as data for the step implementations.
func (s *Sequencer) ResizeViews() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizeViews
}

// SetResizeViews sets the resize-views flag. Default is false.
func (s *Sequencer) SetResizeViews(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizeViews = v
}

// LockingUI reports whether user interaction should be blocked while the
// sequencer is running. Carried as data for an external collaborator.
func (s *Sequencer) LockingUI() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockingUI
}

// SetLockingUI sets the UI-locking flag. Default is false.
func (s *Sequencer) SetLockingUI(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockingUI = v
}

// BringToFront reports whether animated targets should be brought to the
// front during the run. Carried as data for an external collaborator.
func (s *Sequencer) BringToFront() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bringToFront
}

// SetBringToFront sets the bring-to-front flag. Default is false.
func (s *Sequencer) SetBringToFront(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bringToFront = v
}

// Delay returns the pre-play delay applied to animated runs.
func (s *Sequencer) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// SetDelay sets the pre-play delay for animated runs. Negative delays are
// clamped to 0. The delay postpones the whole run, including the will-start
// notification; synchronous runs ignore it.
func (s *Sequencer) SetDelay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = delay
}

// Running reports whether a run is in progress: true from the moment a play
// call is accepted (even during a pre-play delay) until the terminal step
// completes or the run is cancelled or terminated.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Animated reports the animated flag of the current (or most recent) run.
func (s *Sequencer) Animated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.animated
}

// Cancelling reports whether the sequencer is currently performing the
// forced end-state jump of a cancellation.
func (s *Sequencer) Cancelling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelling
}

// Terminating reports whether the sequencer is currently performing the
// forced end-state jump of a termination.
func (s *Sequencer) Terminating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminating
}

// SetLogger installs a structured logger. A nil logger restores the no-op
// default.
func (s *Sequencer) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// SetMetrics installs a metrics sink. A nil sink restores the no-op default.
func (s *Sequencer) SetMetrics(metrics Metrics) {
	if metrics == nil {
		metrics = &NilMetrics{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = metrics
}

// BindDelegate connects a delegate and returns the liveness link. The
// sequencer holds the delegate only through the link; the delegate's owner
// must call Invalidate on the returned link at teardown, which cancels any
// run in progress. Binding replaces a previous delegate; binding nil merely
// clears it.
func (s *Sequencer) BindDelegate(d Delegate) *DelegateLink {
	var link *DelegateLink
	if d != nil {
		link = &DelegateLink{seq: s, delegate: d}
	}
	s.mu.Lock()
	old := s.link
	s.link = link
	s.mu.Unlock()

	old.detach()
	return link
}

// RecentSteps returns up to limit step execution records, most recent first.
// limit <= 0 returns everything retained.
func (s *Sequencer) RecentSteps(limit int) []StepRecord {
	return s.history.Recent(limit)
}

// LastStep returns the most recent step execution record, if any.
func (s *Sequencer) LastStep() (StepRecord, bool) {
	return s.history.Last()
}

// Duration returns the total duration of the timeline: the sum of all step
// durations. An empty sequencer has duration 0.
func (s *Sequencer) Duration() time.Duration {
	var total time.Duration
	for _, step := range s.steps {
		total += step.Duration()
	}
	return total
}

// AlphaVariation returns the total alpha delta applied to target across all
// steps, or 0 if no step ever touches it.
func (s *Sequencer) AlphaVariation(target Target) float64 {
	var total float64
	for _, step := range s.steps {
		total += step.AlphaVariation(target)
	}
	return total
}

// Play starts a run. It returns ErrAlreadyRunning, without any state change,
// if a run is already in progress.
//
// With animated=false the whole run happens synchronously: every step is
// applied with animated=false in order, and the start, per-step and stop
// notifications all fire before Play returns. The pre-play delay is ignored.
//
// With animated=true, Play returns immediately after scheduling the run on
// the loop. The will-start notification fires after any pre-play delay, each
// step's completion signal triggers the next step, and the stop notification
// fires after the last step completes.
func (s *Sequencer) Play(animated bool) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.animated = animated
	s.cancelling = false
	s.terminating = false
	s.cursor = 0
	s.generation++
	gen := s.generation
	s.runID = uuid.NewString()
	s.runStarted = time.Now()
	delay := s.delay
	loop := s.loop
	logger := s.logger
	metrics := s.metrics
	tag := s.tag
	runID := s.runID
	s.mu.Unlock()

	logger.Debug("run accepted",
		F("run", runID), F("tag", tag), F("animated", animated), F("delay", delay))
	metrics.RecordRunStarted(tag, animated)

	if !animated {
		s.runSynchronously(gen)
		return nil
	}

	start := func() { s.startRun(gen) }
	if delay > 0 {
		loop.PostDelayed(start, delay)
	} else {
		loop.Post(start)
	}
	return nil
}

// PlayAfterDelay sets a validated pre-play delay (negative values are
// clamped to 0) and starts an animated run.
func (s *Sequencer) PlayAfterDelay(delay time.Duration) error {
	s.SetDelay(delay)
	return s.Play(true)
}

// Cancel aborts a run in progress: every target touched by the remaining
// steps is forced to its final end state with animated=false, and the run
// ends silently, without any further delegate notification (not even the
// stop one). Cancelling a non-running sequencer is a no-op. Cancel is
// synchronous and runs to completion before returning.
func (s *Sequencer) Cancel() {
	s.forceStop(true)
}

// Terminate forces a run in progress to its end state exactly like Cancel,
// but the delegate still receives the step-finished notifications for the
// current and any skipped steps, and the final stop notification, all with
// animated=false regardless of how the run was started. Terminating a
// non-running sequencer is a no-op.
func (s *Sequencer) Terminate() {
	s.forceStop(false)
}

// forceStop performs the forced end-state jump shared by Cancel and
// Terminate. silent selects the cancellation semantics (no notifications).
func (s *Sequencer) forceStop(silent bool) {
	s.mu.Lock()
	// A forced stop is itself not cancellable.
	if !s.running || s.cancelling || s.terminating {
		s.mu.Unlock()
		return
	}
	if silent {
		s.cancelling = true
	} else {
		s.terminating = true
	}
	// Invalidate pending loop callbacks of this run.
	s.generation++
	remaining := s.steps[s.cursor:]
	tag := s.tag
	runID := s.runID
	started := s.runStarted
	logger := s.logger
	metrics := s.metrics
	s.mu.Unlock()

	for _, step := range remaining {
		at := time.Now()
		s.applyStep(step, false, nil)
		s.record(StepRecord{
			RunID:        runID,
			SequencerTag: tag,
			StepTag:      step.Tag(),
			Animated:     false,
			Forced:       true,
			StartedAt:    at,
			Duration:     time.Since(at),
		})
		metrics.RecordStepFinished(tag, step.Tag(), true, time.Since(at))
		if !silent {
			s.notifyStepFinished(step, false)
		}
	}

	s.mu.Lock()
	s.running = false
	s.cancelling = false
	s.terminating = false
	s.mu.Unlock()

	outcome := RunCancelled
	if !silent {
		outcome = RunTerminated
	}
	logger.Debug("run stopped", F("run", runID), F("tag", tag), F("outcome", outcome))
	metrics.RecordRunFinished(tag, outcome, time.Since(started))

	if !silent {
		s.notifyDidStop(false)
	}
}

// runSynchronously executes a whole non-animated run inline.
func (s *Sequencer) runSynchronously(gen uint64) {
	s.notifyWillStart(false)
	for {
		s.mu.Lock()
		if s.generation != gen || !s.running {
			// Superseded from inside a delegate callback.
			s.mu.Unlock()
			return
		}
		if s.cursor >= len(s.steps) {
			s.mu.Unlock()
			s.completeRun(gen)
			return
		}
		step := s.steps[s.cursor]
		s.mu.Unlock()

		at := time.Now()
		s.applyStep(step, false, nil)

		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			return
		}
		s.cursor++
		tag := s.tag
		runID := s.runID
		metrics := s.metrics
		s.mu.Unlock()

		s.record(StepRecord{
			RunID:        runID,
			SequencerTag: tag,
			StepTag:      step.Tag(),
			StartedAt:    at,
			Duration:     time.Since(at),
		})
		metrics.RecordStepFinished(tag, step.Tag(), false, time.Since(at))
		s.notifyStepFinished(step, false)
	}
}

// startRun begins an animated run on the loop, after any pre-play delay.
func (s *Sequencer) startRun(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || !s.running {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.notifyWillStart(true)
	s.playNextStep(gen)
}

// playNextStep applies the step at the cursor, wiring its completion signal
// back onto the loop. Runs on the loop.
func (s *Sequencer) playNextStep(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || !s.running {
		s.mu.Unlock()
		return
	}
	if s.cursor >= len(s.steps) {
		s.mu.Unlock()
		s.completeRun(gen)
		return
	}
	step := s.steps[s.cursor]
	loop := s.loop
	s.mu.Unlock()

	at := time.Now()
	// Guard against steps signalling completion more than once.
	var once sync.Once
	done := func() {
		once.Do(func() {
			loop.Post(func() { s.stepCompleted(gen, step, at) })
		})
	}
	s.applyStep(step, true, done)
}

// stepCompleted advances the cursor after a step's completion signal has
// been delivered by the loop. Stale signals from a superseded run are
// dropped by the generation guard.
func (s *Sequencer) stepCompleted(gen uint64, step AnimationStep, startedAt time.Time) {
	s.mu.Lock()
	if s.generation != gen || !s.running {
		s.mu.Unlock()
		return
	}
	s.cursor++
	tag := s.tag
	runID := s.runID
	metrics := s.metrics
	s.mu.Unlock()

	s.record(StepRecord{
		RunID:        runID,
		SequencerTag: tag,
		StepTag:      step.Tag(),
		Animated:     true,
		StartedAt:    startedAt,
		Duration:     time.Since(startedAt),
	})
	metrics.RecordStepFinished(tag, step.Tag(), false, time.Since(startedAt))
	s.notifyStepFinished(step, true)
	s.playNextStep(gen)
}

// completeRun ends a run that reached its terminal step naturally.
func (s *Sequencer) completeRun(gen uint64) {
	s.mu.Lock()
	if s.generation != gen || !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	animated := s.animated
	tag := s.tag
	runID := s.runID
	started := s.runStarted
	logger := s.logger
	metrics := s.metrics
	s.mu.Unlock()

	logger.Debug("run completed", F("run", runID), F("tag", tag), F("animated", animated))
	metrics.RecordRunFinished(tag, RunCompleted, time.Since(started))

	// running is already false: the delegate may replay from here.
	s.notifyDidStop(animated)
}

// applyStep shields the state machine from panicking steps: a panic is
// logged and the step counts as applied, so the run can still make progress
// or be force-completed.
func (s *Sequencer) applyStep(step AnimationStep, animated bool, done DoneFunc) {
	defer func() {
		if rec := recover(); rec != nil {
			s.mu.Lock()
			logger := s.logger
			tag := s.tag
			s.mu.Unlock()
			logger.Error("step apply panic",
				F("tag", tag), F("step", step.Tag()), F("panic", rec))
			if animated && done != nil {
				done()
			}
		}
	}()
	step.Apply(animated, done)
}

func (s *Sequencer) record(r StepRecord) {
	s.history.Add(r)
}

func (s *Sequencer) delegate() Delegate {
	s.mu.Lock()
	link := s.link
	s.mu.Unlock()
	return link.get()
}

func (s *Sequencer) notifyWillStart(animated bool) {
	if d := s.delegate(); d != nil {
		d.AnimationWillStart(s, animated)
	}
}

func (s *Sequencer) notifyStepFinished(step AnimationStep, animated bool) {
	if d := s.delegate(); d != nil {
		d.AnimationStepFinished(step, animated)
	}
}

func (s *Sequencer) notifyDidStop(animated bool) {
	if d := s.delegate(); d != nil {
		d.AnimationDidStop(s, animated)
	}
}
