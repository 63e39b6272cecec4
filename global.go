package sequencer

import (
	"sync"

	"github.com/motionkit/sequencer/core"
)

var (
	globalMu   sync.Mutex
	globalLoop *MainLoop
)

// InitMainLoop initializes the process-wide main loop used by New. It starts
// the loop immediately; calling it again is a no-op.
func InitMainLoop(opts ...LoopOption) {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLoop != nil {
		return // Already initialized
	}
	globalLoop = NewMainLoop(opts...)
}

// ShutdownMainLoop stops the global main loop and forgets it. Sequencers
// created with New keep a reference to the stopped loop; animated playback
// on them will no longer progress.
func ShutdownMainLoop() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLoop == nil {
		return
	}
	globalLoop.Stop()
	globalLoop = nil
}

// GetMainLoop returns the global main loop.
// It panics if InitMainLoop has not been called.
func GetMainLoop() *MainLoop {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLoop == nil {
		panic("MainLoop not initialized. Call InitMainLoop() first.")
	}
	return globalLoop
}

// New creates a sequencer chaining the given steps on the global main loop.
// A nil or empty step list yields a valid empty sequencer.
func New(steps ...core.AnimationStep) *core.Sequencer {
	return core.NewSequencer(GetMainLoop(), steps...)
}
