package core

import "time"

// Loop is the event loop animated playback cooperates with. The sequencer
// never blocks: it schedules the start of a run and each step-to-step
// transition as callbacks on the loop, and expects the loop to execute
// callbacks one at a time, in posting order.
//
// The root package provides MainLoop, a production implementation backed by
// a dedicated goroutine. Tests typically substitute a manually pumped fake.
type Loop interface {
	// Post schedules fn for execution on the loop.
	Post(fn func())

	// PostDelayed schedules fn for execution on the loop after delay has
	// elapsed. A delay <= 0 behaves like Post.
	PostDelayed(fn func(), delay time.Duration)
}
