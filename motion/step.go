// Package motion provides a ready-made AnimationStep implementation: a
// bounded-duration set of property changes (opacity, translation, scale,
// hue) applied to View targets, eased by a timing curve. Steps are
// delta-based, so reverse transitions can be derived without storing any
// per-view state.
package motion

import (
	"math"
	"sync"
	"time"

	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/motionkit/sequencer/core"
)

const defaultFrameInterval = 16 * time.Millisecond

// Curve maps linear progress in [0, 1] to eased progress. The fogleman/ease
// functions satisfy this signature directly.
type Curve func(t float64) float64

// Change is the delta a step applies to one view. The zero value changes
// nothing.
type Change struct {
	// AlphaDelta is added to the view's opacity.
	AlphaDelta float64

	// TranslateX and TranslateY are added to the view's position.
	TranslateX float64
	TranslateY float64

	// ScaleX and ScaleY multiply the view's scale factors. A zero factor
	// means "unchanged" (treated as 1), so the zero Change stays neutral.
	ScaleX float64
	ScaleY float64

	// HueShift rotates the view's hue by the given number of degrees.
	HueShift float64
}

// reversed returns the inverse delta.
func (c Change) reversed() Change {
	return Change{
		AlphaDelta: -c.AlphaDelta,
		TranslateX: -c.TranslateX,
		TranslateY: -c.TranslateY,
		ScaleX:     invertFactor(c.ScaleX),
		ScaleY:     invertFactor(c.ScaleY),
		HueShift:   -c.HueShift,
	}
}

func invertFactor(f float64) float64 {
	if f == 0 || f == 1 {
		return f
	}
	return 1 / f
}

func normalizeFactor(f float64) float64 {
	if f == 0 {
		return 1
	}
	return f
}

type targetChange struct {
	view   *View
	change Change
}

// Step is a concrete core.AnimationStep. Configure it (tag, curve, changes)
// before handing it to a sequencer; steps are treated as immutable once a
// timeline owns them.
type Step struct {
	tag           string
	duration      time.Duration
	curve         Curve
	frameInterval time.Duration
	changes       []targetChange

	mu  sync.Mutex
	gen uint64
	// finals are the end states of the in-flight animated application, kept
	// so a forced non-animated application lands on the same end state the
	// animation was heading to.
	finals []viewState
}

var _ core.AnimationStep = (*Step)(nil)

// NewStep creates a step of the given duration with a linear timing curve.
// Negative durations are clamped to 0.
func NewStep(duration time.Duration) *Step {
	if duration < 0 {
		duration = 0
	}
	return &Step{
		duration:      duration,
		curve:         ease.Linear,
		frameInterval: defaultFrameInterval,
	}
}

// SetTag sets the identifying tag.
func (s *Step) SetTag(tag string) { s.tag = tag }

// SetCurve sets the timing curve. Nil restores linear.
func (s *Step) SetCurve(curve Curve) {
	if curve == nil {
		curve = ease.Linear
	}
	s.curve = curve
}

// SetFrameInterval sets the tick interval of animated applications.
// Values <= 0 restore the default.
func (s *Step) SetFrameInterval(interval time.Duration) {
	if interval <= 0 {
		interval = defaultFrameInterval
	}
	s.frameInterval = interval
}

// AddChange registers a delta for view. Registering a view again replaces
// its previous delta; registration order determines Targets order.
func (s *Step) AddChange(view *View, change Change) {
	if view == nil {
		return
	}
	for i := range s.changes {
		if s.changes[i].view == view {
			s.changes[i].change = change
			return
		}
	}
	s.changes = append(s.changes, targetChange{view: view, change: change})
}

// Duration reports the step duration.
func (s *Step) Duration() time.Duration { return s.duration }

// Tag returns the step tag, empty if unset.
func (s *Step) Tag() string { return s.tag }

// Targets returns the changed views in registration order.
func (s *Step) Targets() []core.Target {
	out := make([]core.Target, len(s.changes))
	for i, tc := range s.changes {
		out[i] = tc.view
	}
	return out
}

// AlphaVariation reports the alpha delta applied to target, 0 when the step
// does not touch it.
func (s *Step) AlphaVariation(target core.Target) float64 {
	view, ok := target.(*View)
	if !ok {
		return 0
	}
	for _, tc := range s.changes {
		if tc.view == view {
			return tc.change.AlphaDelta
		}
	}
	return 0
}

// Apply performs the step's changes. Non-animated applications reach the end
// state synchronously and halt any in-flight animated application of this
// step; if that animation was still running, its precomputed end state is
// used, so forced jumps land exactly where the animation was heading.
func (s *Step) Apply(animated bool, done core.DoneFunc) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	finals := s.finals
	s.finals = nil

	if finals == nil {
		starts := s.captureStates()
		finals = s.finalStates(starts)

		if animated && s.duration > 0 {
			s.finals = finals
			s.mu.Unlock()
			go s.animate(gen, starts, finals, done)
			return
		}
	}

	// The end state is written under s.mu so a concurrent frame of a halted
	// animation cannot land after it.
	s.applyStates(finals)
	s.mu.Unlock()

	if done != nil {
		done()
	}
}

// animate ticks eased frames until the duration elapses, then lands on the
// exact end state and signals completion. A bumped generation (forced jump
// or re-application) stops the ticking without signalling.
func (s *Step) animate(gen uint64, starts, finals []viewState, done core.DoneFunc) {
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	begin := time.Now()
	for range ticker.C {
		progress := float64(time.Since(begin)) / float64(s.duration)

		// Generation check and frame write share one critical section, so a
		// forced jump that already landed the views on finals can never be
		// overwritten by a straggling frame.
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		if progress >= 1 {
			s.finals = nil
			s.applyStates(finals)
			s.mu.Unlock()

			if done != nil {
				done()
			}
			return
		}
		s.applyProgress(starts, finals, s.curve(progress))
		s.mu.Unlock()
	}
}

func (s *Step) captureStates() []viewState {
	out := make([]viewState, len(s.changes))
	for i, tc := range s.changes {
		out[i] = tc.view.state()
	}
	return out
}

// finalStates computes where each view ends up once the step completes.
func (s *Step) finalStates(starts []viewState) []viewState {
	out := make([]viewState, len(starts))
	for i, tc := range s.changes {
		st := starts[i]
		change := tc.change
		out[i] = viewState{
			alpha:  st.alpha + change.AlphaDelta,
			x:      st.x + change.TranslateX,
			y:      st.y + change.TranslateY,
			scaleX: st.scaleX * normalizeFactor(change.ScaleX),
			scaleY: st.scaleY * normalizeFactor(change.ScaleY),
			color:  shiftHue(st.color, change.HueShift),
		}
	}
	return out
}

func (s *Step) applyStates(states []viewState) {
	for i, tc := range s.changes {
		tc.view.applyState(states[i])
	}
}

// applyProgress interpolates each view between its start and end state at
// eased progress e. Colors blend in HCL space for perceptual smoothness.
func (s *Step) applyProgress(starts, finals []viewState, e float64) {
	for i, tc := range s.changes {
		st, fi := starts[i], finals[i]
		tc.view.applyState(viewState{
			alpha:  lerp(st.alpha, fi.alpha, e),
			x:      lerp(st.x, fi.x, e),
			y:      lerp(st.y, fi.y, e),
			scaleX: lerp(st.scaleX, fi.scaleX, e),
			scaleY: lerp(st.scaleY, fi.scaleY, e),
			color:  st.color.BlendHcl(fi.color, clamp01(e)),
		})
	}
}

// Reversed returns the reverse-transition copy: inverse deltas in the same
// target order, a mirrored timing curve, and the reverse_ tag prefix when a
// tag is set.
func (s *Step) Reversed() core.AnimationStep {
	out := s.shellCopy()
	if s.tag != "" {
		out.tag = core.ReverseTagPrefix + s.tag
	}
	out.curve = mirrorCurve(s.curve)
	out.changes = make([]targetChange, len(s.changes))
	for i, tc := range s.changes {
		out.changes[i] = targetChange{view: tc.view, change: tc.change.reversed()}
	}
	return out
}

// Retimed returns a copy with the given duration; negative durations are
// clamped to 0. All non-timing attributes are preserved.
func (s *Step) Retimed(duration time.Duration) core.AnimationStep {
	if duration < 0 {
		duration = 0
	}
	out := s.Clone().(*Step)
	out.duration = duration
	return out
}

// Clone returns an independent copy. Views are shared: they are the animated
// objects, not step state.
func (s *Step) Clone() core.AnimationStep {
	out := s.shellCopy()
	out.tag = s.tag
	out.curve = s.curve
	out.changes = make([]targetChange, len(s.changes))
	copy(out.changes, s.changes)
	return out
}

func (s *Step) shellCopy() *Step {
	return &Step{
		duration:      s.duration,
		curve:         ease.Linear,
		frameInterval: s.frameInterval,
	}
}

// mirrorCurve flips a timing curve so the reverse transition decelerates
// where the original accelerated.
func mirrorCurve(curve Curve) Curve {
	return func(t float64) float64 {
		return 1 - curve(1-t)
	}
}

func shiftHue(c colorful.Color, degrees float64) colorful.Color {
	if degrees == 0 {
		return c
	}
	h, chroma, l := c.Hcl()
	h = math.Mod(h+degrees, 360)
	if h < 0 {
		h += 360
	}
	return colorful.Hcl(h, chroma, l)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
