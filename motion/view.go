package motion

import (
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// View is a minimal animatable visual object: an identity plus the
// properties steps know how to change. It is a model object only; rendering
// is someone else's problem. Views are safe for concurrent use, since
// animated steps tick their frames off the caller's goroutine.
type View struct {
	mu     sync.Mutex
	name   string
	alpha  float64
	x, y   float64
	scaleX float64
	scaleY float64
	color  colorful.Color
}

// NewView creates a fully opaque, unscaled view at the origin, colored
// white.
func NewView(name string) *View {
	return &View{
		name:   name,
		alpha:  1,
		scaleX: 1,
		scaleY: 1,
		color:  colorful.Color{R: 1, G: 1, B: 1},
	}
}

// Name returns the view's identifier.
func (v *View) Name() string { return v.name }

// Alpha returns the current opacity.
func (v *View) Alpha() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.alpha
}

// SetAlpha sets the opacity.
func (v *View) SetAlpha(alpha float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alpha = alpha
}

// Position returns the current coordinates.
func (v *View) Position() (x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.x, v.y
}

// MoveTo places the view at the given coordinates.
func (v *View) MoveTo(x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.x, v.y = x, y
}

// Scale returns the current scale factors.
func (v *View) Scale() (sx, sy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scaleX, v.scaleY
}

// SetScale sets the scale factors.
func (v *View) SetScale(sx, sy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scaleX, v.scaleY = sx, sy
}

// Color returns the current color.
func (v *View) Color() colorful.Color {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.color
}

// SetColor sets the color.
func (v *View) SetColor(c colorful.Color) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.color = c
}

// viewState is a snapshot of every animatable property.
type viewState struct {
	alpha  float64
	x, y   float64
	scaleX float64
	scaleY float64
	color  colorful.Color
}

func (v *View) state() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return viewState{
		alpha:  v.alpha,
		x:      v.x,
		y:      v.y,
		scaleX: v.scaleX,
		scaleY: v.scaleY,
		color:  v.color,
	}
}

func (v *View) applyState(st viewState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.alpha = st.alpha
	v.x, v.y = st.x, st.y
	v.scaleX, v.scaleY = st.scaleX, st.scaleY
	v.color = st.color
}
