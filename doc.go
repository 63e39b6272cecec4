// Package sequencer provides a sequenced-animation controller: it chains
// ordered groups of visual-property changes (animation steps) into a single
// playable timeline with delay, cancellation, forced termination, reversal,
// duration rescaling and delegate notifications.
//
// # Quick Start
//
// Initialize the global main loop at application startup:
//
//	sequencer.InitMainLoop()
//	defer sequencer.ShutdownMainLoop()
//
// Build a timeline from steps (the motion package provides a ready-made step
// implementation) and play it:
//
//	seq := sequencer.New(stepIn, stepOut)
//	seq.SetTag("fade")
//	if err := seq.Play(true); err != nil {
//		// a run is already in progress
//	}
//
// # Key Concepts
//
// Sequencer: owns an immutable, ordered step list and drives playback.
// Animated playback is cooperative: Play(true) returns immediately and the
// run progresses as the loop delivers each step's completion signal.
// Play(false) reaches the end state synchronously, firing every notification
// before it returns. A sequencer is replayable once a run ends.
//
// Cancel and Terminate: both force the remaining steps to their end state
// immediately and non-animated. Cancel is a silent abort (no further
// delegate notifications); Terminate still delivers the step-finished and
// stop notifications, reported with animated=false.
//
// Derived timelines: Reversed generates the reverse transition, WithDuration
// rescales pacing while preserving appearance, Clone deep-copies. All three
// return new independent sequencers.
//
// Delegate liveness: delegates are bound through a DelegateLink rather than
// owned. Invalidating the link at delegate teardown cancels any run in
// progress, so a destroyed delegate is never notified.
//
// # Example
//
//	import (
//		sequencer "github.com/motionkit/sequencer"
//		"github.com/motionkit/sequencer/motion"
//	)
//
//	func main() {
//		sequencer.InitMainLoop()
//		defer sequencer.ShutdownMainLoop()
//
//		view := motion.NewView("banner")
//		step := motion.NewStep(300 * time.Millisecond)
//		step.AddChange(view, motion.Change{AlphaDelta: -1})
//
//		seq := sequencer.New(step)
//		seq.PlayAfterDelay(time.Second)
//	}
package sequencer
