package core_test

import (
	"fmt"
	"time"

	"github.com/motionkit/sequencer/core"
)

// manualLoop is a deterministic core.Loop for tests: callbacks run only when
// the test pumps the loop, mimicking a UI event loop under test control.
type manualLoop struct {
	queue   []func()
	delayed []delayedCall
}

type delayedCall struct {
	fn    func()
	delay time.Duration
}

func (l *manualLoop) Post(fn func()) {
	l.queue = append(l.queue, fn)
}

func (l *manualLoop) PostDelayed(fn func(), delay time.Duration) {
	if delay <= 0 {
		l.Post(fn)
		return
	}
	l.delayed = append(l.delayed, delayedCall{fn: fn, delay: delay})
}

// runNext executes the oldest queued callback. Returns false when idle.
func (l *manualLoop) runNext() bool {
	if len(l.queue) == 0 {
		return false
	}
	fn := l.queue[0]
	l.queue = l.queue[1:]
	fn()
	return true
}

// runAll pumps the loop until it is idle, including callbacks enqueued while
// pumping.
func (l *manualLoop) runAll() {
	for l.runNext() {
	}
}

// fireDelayed promotes all delayed callbacks to the immediate queue, as if
// their delays had elapsed.
func (l *manualLoop) fireDelayed() {
	for _, d := range l.delayed {
		l.queue = append(l.queue, d.fn)
	}
	l.delayed = nil
}

// fakeStep implements core.AnimationStep with full test control over the
// completion signal. All activity is appended to a shared event log so tests
// can assert exact call ordering across steps and delegate.
type fakeStep struct {
	name     string
	tag      string
	duration time.Duration
	alphas   map[core.Target]float64
	targets  []core.Target

	events  *[]string
	pending core.DoneFunc
}

func newFakeStep(name string, duration time.Duration, events *[]string) *fakeStep {
	return &fakeStep{
		name:     name,
		tag:      name,
		duration: duration,
		alphas:   make(map[core.Target]float64),
		events:   events,
	}
}

func (f *fakeStep) addAlpha(target core.Target, delta float64) *fakeStep {
	if _, ok := f.alphas[target]; !ok {
		f.targets = append(f.targets, target)
	}
	f.alphas[target] = delta
	return f
}

func (f *fakeStep) logf(format string, args ...any) {
	if f.events != nil {
		*f.events = append(*f.events, fmt.Sprintf(format, args...))
	}
}

func (f *fakeStep) Duration() time.Duration { return f.duration }
func (f *fakeStep) Tag() string             { return f.tag }

func (f *fakeStep) Targets() []core.Target {
	out := make([]core.Target, len(f.targets))
	copy(out, f.targets)
	return out
}

func (f *fakeStep) AlphaVariation(target core.Target) float64 {
	return f.alphas[target]
}

func (f *fakeStep) Apply(animated bool, done core.DoneFunc) {
	f.logf("apply %s animated=%v", f.name, animated)
	if !animated {
		// A non-animated application supersedes any in-flight one.
		f.pending = nil
		if done != nil {
			done()
		}
		return
	}
	f.pending = done
}

// complete fires the pending completion signal of an animated application.
func (f *fakeStep) complete() {
	if f.pending == nil {
		return
	}
	done := f.pending
	f.pending = nil
	done()
}

func (f *fakeStep) copy() *fakeStep {
	out := &fakeStep{
		name:     f.name,
		tag:      f.tag,
		duration: f.duration,
		alphas:   make(map[core.Target]float64, len(f.alphas)),
		targets:  append([]core.Target(nil), f.targets...),
		events:   f.events,
	}
	for k, v := range f.alphas {
		out.alphas[k] = v
	}
	return out
}

func (f *fakeStep) Reversed() core.AnimationStep {
	out := f.copy()
	if out.tag != "" {
		out.tag = core.ReverseTagPrefix + out.tag
	}
	for k, v := range out.alphas {
		out.alphas[k] = -v
	}
	return out
}

func (f *fakeStep) Retimed(duration time.Duration) core.AnimationStep {
	out := f.copy()
	out.duration = duration
	return out
}

func (f *fakeStep) Clone() core.AnimationStep {
	return f.copy()
}

// recordingDelegate appends every notification to the shared event log.
type recordingDelegate struct {
	events *[]string
}

func (d *recordingDelegate) AnimationWillStart(s *core.Sequencer, animated bool) {
	*d.events = append(*d.events, fmt.Sprintf("willStart animated=%v", animated))
}

func (d *recordingDelegate) AnimationStepFinished(step core.AnimationStep, animated bool) {
	*d.events = append(*d.events, fmt.Sprintf("stepFinished %s animated=%v", step.Tag(), animated))
}

func (d *recordingDelegate) AnimationDidStop(s *core.Sequencer, animated bool) {
	*d.events = append(*d.events, fmt.Sprintf("didStop animated=%v", animated))
}

// recordingMetrics is a core.Metrics capturing every call.
type recordingMetrics struct {
	started  []string
	finished []string
	steps    []string
}

func (m *recordingMetrics) RecordRunStarted(tag string, animated bool) {
	m.started = append(m.started, fmt.Sprintf("%s animated=%v", tag, animated))
}

func (m *recordingMetrics) RecordRunFinished(tag string, outcome core.RunOutcome, duration time.Duration) {
	m.finished = append(m.finished, fmt.Sprintf("%s outcome=%s", tag, outcome))
}

func (m *recordingMetrics) RecordStepFinished(tag string, stepTag string, forced bool, duration time.Duration) {
	m.steps = append(m.steps, fmt.Sprintf("%s forced=%v", stepTag, forced))
}

func assertEvents(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, got []string, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("event count = %d, want %d (got %q)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event[%d] = %q, want %q (got %q)", i, got[i], want[i], got)
		}
	}
}
