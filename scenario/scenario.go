// Package scenario loads timeline documents from YAML and builds
// runnable sequencers from them.
package scenario

// Document describes a complete timeline: an ordered list of step
// definitions plus optional presentation attributes.
type Document struct {
	Name   string    `yaml:"name"`
	Tag    string    `yaml:"tag,omitempty"`
	Delay  string    `yaml:"delay,omitempty"`
	Steps  []StepDef `yaml:"steps"`
	Source string    // file path or "inline"
}

// StepDef describes a single step of the timeline.
type StepDef struct {
	Tag      string      `yaml:"tag,omitempty"`
	Duration string      `yaml:"duration"`
	Easing   string      `yaml:"easing,omitempty"`
	Changes  []ChangeDef `yaml:"changes"`
}

// ChangeDef describes what a step does to one named view. All fields
// are deltas relative to the view's state when the step starts; zero
// values leave the corresponding property untouched.
type ChangeDef struct {
	View       string  `yaml:"view"`
	Alpha      float64 `yaml:"alpha,omitempty"`
	TranslateX float64 `yaml:"translateX,omitempty"`
	TranslateY float64 `yaml:"translateY,omitempty"`
	ScaleX     float64 `yaml:"scaleX,omitempty"`
	ScaleY     float64 `yaml:"scaleY,omitempty"`
	HueShift   float64 `yaml:"hueShift,omitempty"`
}
