package core

import "sync"

// Delegate receives sequencer lifecycle notifications. Every notification
// carries the animated flag the run was played with; for terminated runs the
// flag is always false.
//
// All methods are invoked on the goroutine driving the run: inline during a
// synchronous play, on the loop during an animated one.
type Delegate interface {
	// AnimationWillStart is called right before the first step begins,
	// after any pre-play delay.
	AnimationWillStart(s *Sequencer, animated bool)

	// AnimationStepFinished is called when a step's visual change has
	// completed.
	AnimationStepFinished(step AnimationStep, animated bool)

	// AnimationDidStop is called right after the last step has completed.
	AnimationDidStop(s *Sequencer, animated bool)
}

// DelegateLink is a non-owning, liveness-observing connection between a
// sequencer and its delegate. The sequencer never keeps the delegate alive;
// instead, the delegate's owner must call Invalidate on teardown. If the
// link is invalidated while a run is in progress, the run is cancelled, so
// a destroyed delegate can never be notified.
type DelegateLink struct {
	mu       sync.Mutex
	seq      *Sequencer
	delegate Delegate
}

// Invalidate severs the link. If the bound sequencer is running, it is
// cancelled, exactly as if Cancel had been called. Safe to call multiple
// times and on a nil link.
func (l *DelegateLink) Invalidate() {
	if l == nil {
		return
	}
	l.mu.Lock()
	seq := l.seq
	l.seq = nil
	l.delegate = nil
	l.mu.Unlock()

	if seq != nil {
		seq.Cancel()
	}
}

// get returns the linked delegate, or nil once invalidated.
func (l *DelegateLink) get() Delegate {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delegate
}

// detach severs the link without cancelling. Used when the sequencer
// replaces the link with a newer one.
func (l *DelegateLink) detach() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.seq = nil
	l.delegate = nil
	l.mu.Unlock()
}
