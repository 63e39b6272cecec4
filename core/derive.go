package core

import "time"

// WithDuration generates a copy of the timeline with its total duration
// overridden. The appearance is preserved: each step is rescaled
// proportionally so the copy is only faster or slower, and its total
// duration equals duration. Tag, flags, delay and metadata are carried over
// (the metadata map is deep-copied).
//
// A negative duration yields ErrInvalidDuration and leaves the receiver
// unmodified. When the original total is 0 there is no relative timing to
// preserve; the new duration is spread evenly across the steps.
func (s *Sequencer) WithDuration(duration time.Duration) (*Sequencer, error) {
	if duration < 0 {
		return nil, ErrInvalidDuration
	}

	total := s.Duration()
	steps := make([]AnimationStep, len(s.steps))
	switch {
	case len(s.steps) == 0:
		// Empty timeline stays empty.
	case total == 0:
		share := duration / time.Duration(len(s.steps))
		var acc time.Duration
		for i, step := range s.steps {
			d := share
			if i == len(s.steps)-1 {
				d = duration - acc
			}
			acc += d
			steps[i] = step.Retimed(d)
		}
	default:
		// Give the last step the remainder so the totals match exactly
		// despite rounding.
		var acc time.Duration
		for i, step := range s.steps {
			var d time.Duration
			if i == len(s.steps)-1 {
				d = duration - acc
			} else {
				d = time.Duration(float64(step.Duration()) / float64(total) * float64(duration))
			}
			acc += d
			steps[i] = step.Retimed(d)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shellCopyLocked(steps)
	out.tag = s.tag
	out.delay = s.delay
	out.userInfo = copyUserInfo(s.userInfo)
	return out, nil
}

// Reversed generates the reverse timeline: the reverse-transition
// equivalents of the steps, in reverse order. The resizeViews, lockingUI and
// bringToFront flags are carried over; the pre-play delay is not. A set tag
// (on the sequencer, and independently on each step) gains the
// ReverseTagPrefix; unset tags stay unset. The metadata map is not carried
// over.
func (s *Sequencer) Reversed() *Sequencer {
	steps := make([]AnimationStep, 0, len(s.steps))
	for i := len(s.steps) - 1; i >= 0; i-- {
		steps = append(steps, s.steps[i].Reversed())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shellCopyLocked(steps)
	if s.tag != "" {
		out.tag = ReverseTagPrefix + s.tag
	}
	return out
}

// Clone generates an independent deep copy of the timeline: steps, tag and
// metadata are duplicated, never aliased. The delegate link and any run
// state are not part of the copy.
func (s *Sequencer) Clone() *Sequencer {
	steps := make([]AnimationStep, len(s.steps))
	for i, step := range s.steps {
		steps[i] = step.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.shellCopyLocked(steps)
	out.tag = s.tag
	out.delay = s.delay
	out.userInfo = copyUserInfo(s.userInfo)
	return out
}

// shellCopyLocked builds a fresh, idle sequencer around steps, carrying the
// loop, flags, logger and metrics sink. Caller holds s.mu.
func (s *Sequencer) shellCopyLocked(steps []AnimationStep) *Sequencer {
	return &Sequencer{
		steps:        steps,
		loop:         s.loop,
		resizeViews:  s.resizeViews,
		lockingUI:    s.lockingUI,
		bringToFront: s.bringToFront,
		logger:       s.logger,
		metrics:      s.metrics,
		history:      newStepHistory(defaultHistoryCapacity),
	}
}

func copyUserInfo(userInfo map[string]any) map[string]any {
	if userInfo == nil {
		return nil
	}
	out := make(map[string]any, len(userInfo))
	for k, v := range userInfo {
		out[k] = v
	}
	return out
}
