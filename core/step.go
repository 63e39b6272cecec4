package core

import "time"

// ReverseTagPrefix is prepended to a set tag when a sequencer or a step is
// reversed. Unset tags stay unset.
const ReverseTagPrefix = "reverse_"

// Target identifies a visual object touched by an animation step. The
// sequencer never inspects targets beyond identity, so the dynamic type must
// be comparable; pointer types are the usual choice.
type Target any

// DoneFunc signals that an animated step application has completed.
type DoneFunc func()

// AnimationStep is a bounded-duration change applied to a set of targets.
// Steps are externally supplied and treated as immutable: derivation methods
// return new instances and never mutate the receiver.
//
// A sequencer chains steps together but knows nothing about what they do to
// their targets; it only relies on the contract below.
type AnimationStep interface {
	// Duration reports the step's own duration. Never negative.
	Duration() time.Duration

	// Tag optionally identifies the step. Empty means unset.
	Tag() string

	// Targets returns the visual objects touched by the step, in the order
	// they were registered.
	Targets() []Target

	// AlphaVariation reports the alpha delta the step applies to target,
	// or 0 if the step does not touch it.
	AlphaVariation(target Target) float64

	// Apply performs the step's visual changes.
	//
	// When animated is false, the end state is reached before Apply returns,
	// done (if non-nil) is invoked synchronously, and any in-flight animated
	// application of the same step is halted. When animated is true, Apply
	// returns immediately and done is invoked exactly once when the change
	// completes (synchronously for zero-duration steps).
	Apply(animated bool, done DoneFunc)

	// Reversed returns the reverse-transition copy of the step: playing it
	// after the original restores the targets' initial state. A set tag
	// gains the ReverseTagPrefix; an unset tag stays unset. Timing is
	// preserved.
	Reversed() AnimationStep

	// Retimed returns a copy of the step with the given duration. All
	// non-timing attributes are preserved.
	Retimed(duration time.Duration) AnimationStep

	// Clone returns an independent copy of the step. Targets are shared
	// (they are the animated objects, not step state); everything else is
	// duplicated.
	Clone() AnimationStep
}
