package sequencer

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/motionkit/sequencer/core"
)

const defaultLoopCapacity = 100

// MainLoop is the production core.Loop: a dedicated goroutine executing
// posted callbacks sequentially, in posting order. It stands in for the UI
// toolkit's event loop when the library is used headless (tests, demos,
// server-side rendering of timelines).
//
// All callbacks run on the same goroutine, so sequencers driven by one
// MainLoop never observe concurrent step transitions.
type MainLoop struct {
	work chan func()

	ctx    context.Context
	cancel context.CancelFunc

	stopped chan struct{}
	once    sync.Once
	closed  atomic.Bool

	logger core.Logger
}

// LoopOption configures a MainLoop.
type LoopOption func(*loopConfig)

type loopConfig struct {
	capacity int
	logger   core.Logger
}

// WithQueueCapacity sets the callback queue capacity. Posting beyond it
// blocks until the loop catches up. Default is 100.
func WithQueueCapacity(capacity int) LoopOption {
	return func(c *loopConfig) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithLoopLogger installs a logger for loop diagnostics (dropped callbacks,
// recovered panics). Default is the no-op logger.
func WithLoopLogger(logger core.Logger) LoopOption {
	return func(c *loopConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewMainLoop creates and starts a MainLoop. It immediately spawns the
// dedicated goroutine; call Stop to release it.
func NewMainLoop(opts ...LoopOption) *MainLoop {
	cfg := loopConfig{
		capacity: defaultLoopCapacity,
		logger:   core.NopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &MainLoop{
		work:    make(chan func(), cfg.capacity),
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		logger:  cfg.logger,
	}

	go l.run()
	return l
}

// Post schedules fn for execution on the loop. Callbacks posted after Stop
// are dropped.
func (l *MainLoop) Post(fn func()) {
	if l.closed.Load() {
		l.logger.Debug("callback dropped, loop stopped")
		return
	}

	select {
	case <-l.ctx.Done():
		l.logger.Debug("callback dropped, loop stopped")
	case l.work <- fn:
	}
}

// PostDelayed schedules fn for execution on the loop once delay has elapsed.
// A delay <= 0 behaves like Post. The timer fires on its own goroutine and
// injects the callback back into the loop, preserving single-threaded
// execution.
func (l *MainLoop) PostDelayed(fn func(), delay time.Duration) {
	if delay <= 0 {
		l.Post(fn)
		return
	}
	if l.closed.Load() {
		l.logger.Debug("delayed callback dropped, loop stopped")
		return
	}
	time.AfterFunc(delay, func() {
		l.Post(fn)
	})
}

// WaitIdle blocks until every callback posted before the call has executed.
// It is implemented with a barrier callback, so callbacks posted afterwards
// are not waited for.
func (l *MainLoop) WaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	l.Post(func() { close(done) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return context.Canceled
	}
}

// Stop terminates the loop and waits for the current callback to finish.
// Pending callbacks are discarded. Safe to call multiple times.
func (l *MainLoop) Stop() {
	l.once.Do(func() {
		l.closed.Store(true)
		l.cancel()
		<-l.stopped
	})
}

// IsStopped reports whether Stop has been called.
func (l *MainLoop) IsStopped() bool {
	return l.closed.Load()
}

func (l *MainLoop) run() {
	defer close(l.stopped)

	for {
		select {
		case fn := <-l.work:
			l.execute(fn)
		case <-l.ctx.Done():
			return
		}
	}
}

// execute shields the loop goroutine from panicking callbacks.
func (l *MainLoop) execute(fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			l.logger.Error("callback panic",
				core.F("panic", rec), core.F("stack", string(debug.Stack())))
		}
	}()
	fn()
}
