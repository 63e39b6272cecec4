package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/motionkit/sequencer/core"
	"github.com/motionkit/sequencer/motion"
)

var (
	// ErrUnknownView is returned when a document references a view
	// that was not supplied to Build.
	ErrUnknownView = errors.New("scenario: unknown view")

	// ErrUnknownEasing is returned when a step names an easing curve
	// that is not registered.
	ErrUnknownEasing = errors.New("scenario: unknown easing")
)

// Load reads a single timeline document from disk.
func Load(path string) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scenario path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// Parse decodes and validates a timeline document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	doc.Tag = strings.TrimSpace(doc.Tag)
	doc.Delay = strings.TrimSpace(doc.Delay)
	doc.Source = "inline"

	if doc.Delay != "" {
		delay, err := time.ParseDuration(doc.Delay)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario delay: %w", err)
		}
		if delay < 0 {
			return nil, fmt.Errorf("scenario delay must not be negative")
		}
	}

	if len(doc.Steps) == 0 {
		return nil, fmt.Errorf("scenario steps are required")
	}
	for i := range doc.Steps {
		if err := normalizeStep(&doc.Steps[i]); err != nil {
			return nil, fmt.Errorf("scenario step %d: %w", i+1, err)
		}
	}

	return &doc, nil
}

func normalizeStep(step *StepDef) error {
	step.Tag = strings.TrimSpace(step.Tag)
	step.Duration = strings.TrimSpace(step.Duration)
	step.Easing = strings.TrimSpace(step.Easing)

	if step.Duration == "" {
		return fmt.Errorf("step duration is required")
	}
	duration, err := time.ParseDuration(step.Duration)
	if err != nil {
		return fmt.Errorf("invalid step duration: %w", err)
	}
	if duration < 0 {
		return fmt.Errorf("step duration must not be negative")
	}

	if _, err := lookupEasing(step.Easing); err != nil {
		return err
	}

	if len(step.Changes) == 0 {
		return fmt.Errorf("step changes are required")
	}
	seen := make(map[string]struct{})
	for i := range step.Changes {
		name := strings.TrimSpace(step.Changes[i].View)
		if name == "" {
			return fmt.Errorf("change view is required")
		}
		if _, exists := seen[name]; exists {
			return fmt.Errorf("duplicate change for view %q", name)
		}
		seen[name] = struct{}{}
		step.Changes[i].View = name
	}

	return nil
}

// Build turns a validated document into a sequencer scheduled on loop.
// The views map supplies the named targets the document animates.
func (d *Document) Build(loop core.Loop, views map[string]*motion.View) (*core.Sequencer, error) {
	steps := make([]core.AnimationStep, 0, len(d.Steps))
	for i, def := range d.Steps {
		duration, err := time.ParseDuration(def.Duration)
		if err != nil {
			return nil, fmt.Errorf("scenario step %d: invalid step duration: %w", i+1, err)
		}
		curve, err := lookupEasing(def.Easing)
		if err != nil {
			return nil, fmt.Errorf("scenario step %d: %w", i+1, err)
		}

		step := motion.NewStep(duration)
		step.SetTag(def.Tag)
		step.SetCurve(curve)
		for _, change := range def.Changes {
			view, ok := views[change.View]
			if !ok {
				return nil, fmt.Errorf("scenario step %d: %w: %q", i+1, ErrUnknownView, change.View)
			}
			step.AddChange(view, motion.Change{
				AlphaDelta: change.Alpha,
				TranslateX: change.TranslateX,
				TranslateY: change.TranslateY,
				ScaleX:     change.ScaleX,
				ScaleY:     change.ScaleY,
				HueShift:   change.HueShift,
			})
		}
		steps = append(steps, step)
	}

	seq := core.NewSequencer(loop, steps...)
	if d.Tag != "" {
		seq.SetTag(d.Tag)
	}
	if d.Delay != "" {
		delay, err := time.ParseDuration(d.Delay)
		if err != nil {
			return nil, fmt.Errorf("invalid scenario delay: %w", err)
		}
		seq.SetDelay(delay)
	}
	return seq, nil
}
