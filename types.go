package sequencer

import "github.com/motionkit/sequencer/core"

// Re-export commonly used types from the core package for convenience.
// This allows users to import only the sequencer package for most use cases.

// Sequencer chains animation steps into a playable timeline
type Sequencer = core.Sequencer

// AnimationStep is the unit a timeline is made of
type AnimationStep = core.AnimationStep

// Target identifies a visual object touched by a step
type Target = core.Target

// DoneFunc signals completion of an animated step application
type DoneFunc = core.DoneFunc

// Delegate receives lifecycle notifications
type Delegate = core.Delegate

// DelegateLink is the liveness-observing delegate connection
type DelegateLink = core.DelegateLink

// Loop is the event-loop seam animated playback cooperates with
type Loop = core.Loop

// Logger is the structured logging seam
type Logger = core.Logger

// Field is a structured logging key-value pair
type Field = core.Field

// Metrics is the playback metrics sink
type Metrics = core.Metrics

// RunOutcome describes how a run ended
type RunOutcome = core.RunOutcome

// StepRecord is one step execution in the run history
type StepRecord = core.StepRecord

// ReverseTagPrefix is prepended to set tags on reversal
const ReverseTagPrefix = core.ReverseTagPrefix

// Run outcomes
const (
	RunCompleted  RunOutcome = core.RunCompleted
	RunCancelled  RunOutcome = core.RunCancelled
	RunTerminated RunOutcome = core.RunTerminated
)

// Sequencer errors
var (
	ErrAlreadyRunning  = core.ErrAlreadyRunning
	ErrInvalidDuration = core.ErrInvalidDuration
)

// F creates a structured logging field
var F = core.F

// NewSequencer creates a sequencer on an explicit loop. This is re-exported
// for users who manage their own loops instead of the global one.
func NewSequencer(loop Loop, steps ...AnimationStep) *Sequencer {
	return core.NewSequencer(loop, steps...)
}
