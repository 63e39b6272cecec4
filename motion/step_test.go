package motion

import (
	"math"
	"testing"
	"time"

	"github.com/fogleman/ease"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/motionkit/sequencer/core"
)

// TestStep_NonAnimatedApply_ReachesEndState verifies synchronous application
// Given: A step with alpha, translation, scale and hue changes
// When: Apply(animated=false) is called
// Then: Every property lands exactly on its end state before Apply returns
func TestStep_NonAnimatedApply_ReachesEndState(t *testing.T) {
	view := NewView("banner")
	view.SetAlpha(1)
	view.MoveTo(10, 20)
	view.SetScale(1, 1)

	step := NewStep(200 * time.Millisecond)
	step.AddChange(view, Change{
		AlphaDelta: -0.4,
		TranslateX: 30,
		TranslateY: -5,
		ScaleX:     2,
		ScaleY:     0.5,
	})

	applied := false
	step.Apply(false, func() { applied = true })
	if !applied {
		t.Fatal("done not invoked synchronously for non-animated apply")
	}

	if got := view.Alpha(); !near(got, 0.6) {
		t.Fatalf("alpha = %v, want 0.6", got)
	}
	x, y := view.Position()
	if !near(x, 40) || !near(y, 15) {
		t.Fatalf("position = (%v, %v), want (40, 15)", x, y)
	}
	sx, sy := view.Scale()
	if !near(sx, 2) || !near(sy, 0.5) {
		t.Fatalf("scale = (%v, %v), want (2, 0.5)", sx, sy)
	}
}

// TestStep_Reversed_RestoresInitialState verifies reverse transitions
// Given: A view transformed by a step
// When: The step's Reversed copy is applied
// Then: The view returns to its initial state
func TestStep_Reversed_RestoresInitialState(t *testing.T) {
	view := NewView("banner")
	view.SetAlpha(0.8)
	view.MoveTo(5, 5)
	view.SetScale(2, 2)

	step := NewStep(100 * time.Millisecond)
	step.SetTag("out")
	step.SetCurve(ease.InOutQuad)
	step.AddChange(view, Change{
		AlphaDelta: -0.3,
		TranslateX: 12,
		TranslateY: 7,
		ScaleX:     0.5,
		ScaleY:     4,
		HueShift:   90,
	})

	step.Apply(false, nil)
	reversed := step.Reversed()
	reversed.Apply(false, nil)

	if got := reversed.Tag(); got != "reverse_out" {
		t.Fatalf("reversed tag = %q, want %q", got, "reverse_out")
	}
	if got := view.Alpha(); !near(got, 0.8) {
		t.Fatalf("alpha = %v, want 0.8", got)
	}
	x, y := view.Position()
	if !near(x, 5) || !near(y, 5) {
		t.Fatalf("position = (%v, %v), want (5, 5)", x, y)
	}
	sx, sy := view.Scale()
	if !near(sx, 2) || !near(sy, 2) {
		t.Fatalf("scale = (%v, %v), want (2, 2)", sx, sy)
	}
	if got, want := reversed.Duration(), step.Duration(); got != want {
		t.Fatalf("reversed duration = %v, want %v", got, want)
	}
}

// TestStep_Reversed_UntaggedStaysUntagged verifies the tag rule
func TestStep_Reversed_UntaggedStaysUntagged(t *testing.T) {
	step := NewStep(time.Second)
	if got := step.Reversed().Tag(); got != "" {
		t.Fatalf("reversed tag = %q, want unset", got)
	}
}

// TestStep_AnimatedApply_CompletesAndSignals verifies cooperative playback
// Given: A short animated step
// When: Apply(animated=true) is called
// Then: Apply returns immediately, the completion signal fires once, and the
//       view lands exactly on the end state
func TestStep_AnimatedApply_CompletesAndSignals(t *testing.T) {
	view := NewView("banner")
	step := NewStep(40 * time.Millisecond)
	step.SetFrameInterval(5 * time.Millisecond)
	step.AddChange(view, Change{AlphaDelta: -0.5, TranslateX: 100})

	done := make(chan struct{}, 2)
	step.Apply(true, func() { done <- struct{}{} })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion signal never fired")
	}

	if got := view.Alpha(); !near(got, 0.5) {
		t.Fatalf("alpha = %v, want 0.5", got)
	}
	x, _ := view.Position()
	if !near(x, 100) {
		t.Fatalf("x = %v, want 100", x)
	}

	select {
	case <-done:
		t.Fatal("completion signal fired twice")
	case <-time.After(50 * time.Millisecond):
	}
}

// TestStep_ForcedJump_HaltsInFlightAnimation verifies cancel semantics
// Given: An animated application in flight
// When: The step is applied non-animated
// Then: The view jumps to the end state the animation was heading to and the
//       in-flight completion signal never fires
func TestStep_ForcedJump_HaltsInFlightAnimation(t *testing.T) {
	view := NewView("banner")
	step := NewStep(500 * time.Millisecond)
	step.SetFrameInterval(5 * time.Millisecond)
	step.AddChange(view, Change{AlphaDelta: -0.5})

	done := make(chan struct{}, 1)
	step.Apply(true, func() { done <- struct{}{} })
	time.Sleep(20 * time.Millisecond) // let a few frames tick

	step.Apply(false, nil)

	if got := view.Alpha(); !near(got, 0.5) {
		t.Fatalf("alpha after forced jump = %v, want 0.5", got)
	}

	select {
	case <-done:
		t.Fatal("halted animation still signalled completion")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestStep_ForcedJump_NeverOverwrittenByStraggler verifies frame atomicity
// Given: Animated applications racing with forced jumps at a tight frame rate
// When: The forced jump lands the view on the end state
// Then: No concurrent frame of the halted animation overwrites it
func TestStep_ForcedJump_NeverOverwrittenByStraggler(t *testing.T) {
	view := NewView("banner")
	step := NewStep(20 * time.Millisecond)
	step.SetFrameInterval(time.Millisecond)
	step.AddChange(view, Change{AlphaDelta: -1})

	for i := 0; i < 300; i++ {
		view.SetAlpha(1)
		step.Apply(true, nil)
		time.Sleep(time.Duration(i%4) * time.Millisecond)
		step.Apply(false, nil)

		if got := view.Alpha(); !near(got, 0) {
			t.Fatalf("iteration %d: alpha after forced jump = %v, want 0", i, got)
		}
	}
}

// TestStep_ZeroDuration_AnimatedAppliesInstantly verifies instantaneous steps
func TestStep_ZeroDuration_AnimatedAppliesInstantly(t *testing.T) {
	view := NewView("banner")
	step := NewStep(0)
	step.AddChange(view, Change{AlphaDelta: -1})

	applied := false
	step.Apply(true, func() { applied = true })
	if !applied {
		t.Fatal("zero-duration step did not complete synchronously")
	}
	if got := view.Alpha(); !near(got, 0) {
		t.Fatalf("alpha = %v, want 0", got)
	}
}

// TestStep_Retimed verifies duration override
func TestStep_Retimed(t *testing.T) {
	step := NewStep(200 * time.Millisecond)
	step.SetTag("move")
	retimed := step.Retimed(time.Second)
	if got := retimed.Duration(); got != time.Second {
		t.Fatalf("retimed duration = %v, want 1s", got)
	}
	if got := retimed.Tag(); got != "move" {
		t.Fatalf("retimed tag = %q, want %q", got, "move")
	}
	if got := step.Duration(); got != 200*time.Millisecond {
		t.Fatalf("original duration = %v, want 200ms", got)
	}
	if got := retimed.Retimed(-time.Second).Duration(); got != 0 {
		t.Fatalf("negative retime duration = %v, want clamped 0", got)
	}
}

// TestStep_TargetsAndAlphaVariation verifies the aggregate contract
func TestStep_TargetsAndAlphaVariation(t *testing.T) {
	header := NewView("header")
	footer := NewView("footer")
	other := NewView("other")

	step := NewStep(time.Second)
	step.AddChange(header, Change{AlphaDelta: -0.25})
	step.AddChange(footer, Change{TranslateY: 10})

	targets := step.Targets()
	if len(targets) != 2 || targets[0] != core.Target(header) || targets[1] != core.Target(footer) {
		t.Fatalf("Targets() = %v, want [header footer]", targets)
	}
	if got := step.AlphaVariation(header); !near(got, -0.25) {
		t.Fatalf("AlphaVariation(header) = %v, want -0.25", got)
	}
	if got := step.AlphaVariation(footer); got != 0 {
		t.Fatalf("AlphaVariation(footer) = %v, want 0", got)
	}
	if got := step.AlphaVariation(other); got != 0 {
		t.Fatalf("AlphaVariation(other) = %v, want 0", got)
	}
}

// TestStep_HueShift_ReversesCleanly verifies color round trips
func TestStep_HueShift_ReversesCleanly(t *testing.T) {
	view := NewView("banner")
	view.SetColor(colorful.Color{R: 0.2, G: 0.4, B: 0.8})
	start := view.Color()

	step := NewStep(0)
	step.AddChange(view, Change{HueShift: 120})
	step.Apply(false, nil)
	step.Reversed().Apply(false, nil)

	end := view.Color()
	if math.Abs(end.R-start.R) > 1e-3 ||
		math.Abs(end.G-start.G) > 1e-3 ||
		math.Abs(end.B-start.B) > 1e-3 {
		t.Fatalf("color after reverse = %v, want %v", end, start)
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
