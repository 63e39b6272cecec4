package core

import "time"

// RunOutcome describes how a run ended.
type RunOutcome string

const (
	// RunCompleted means the run reached its terminal step naturally.
	RunCompleted RunOutcome = "completed"

	// RunCancelled means the run was aborted silently via Cancel (or by a
	// delegate link invalidation).
	RunCancelled RunOutcome = "cancelled"

	// RunTerminated means the run was forced to its end state via Terminate,
	// with delegate notifications delivered.
	RunTerminated RunOutcome = "terminated"
)

// Metrics defines the interface for collecting playback metrics.
// Implementations can send metrics to monitoring systems; the
// observability/prometheus package ships one for Prometheus.
//
// Methods should be non-blocking and fast to avoid stalling playback.
type Metrics interface {
	// RecordRunStarted records that a play call was accepted.
	RecordRunStarted(tag string, animated bool)

	// RecordRunFinished records that a run ended, how, and how long the
	// whole run took (wall clock, including any pre-play delay).
	RecordRunFinished(tag string, outcome RunOutcome, duration time.Duration)

	// RecordStepFinished records a completed step and its wall-clock
	// duration. Forced jumps (cancel/terminate) report forced=true.
	RecordStepFinished(tag string, stepTag string, forced bool, duration time.Duration)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordRunStarted is a no-op.
func (m *NilMetrics) RecordRunStarted(tag string, animated bool) {}

// RecordRunFinished is a no-op.
func (m *NilMetrics) RecordRunFinished(tag string, outcome RunOutcome, duration time.Duration) {}

// RecordStepFinished is a no-op.
func (m *NilMetrics) RecordStepFinished(tag string, stepTag string, forced bool, duration time.Duration) {
}
