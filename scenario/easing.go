package scenario

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fogleman/ease"

	"github.com/motionkit/sequencer/motion"
)

// easings maps the curve names accepted in YAML documents to their
// implementations. Names are matched case-insensitively.
var easings = map[string]motion.Curve{
	"linear":       ease.Linear,
	"in-quad":      ease.InQuad,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"in-cubic":     ease.InCubic,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-sine":      ease.InSine,
	"out-sine":     ease.OutSine,
	"in-out-sine":  ease.InOutSine,
	"in-expo":      ease.InExpo,
	"out-expo":     ease.OutExpo,
	"in-out-expo":  ease.InOutExpo,
	"in-back":      ease.InBack,
	"out-back":     ease.OutBack,
	"in-out-back":  ease.InOutBack,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
	"in-out-circ":  ease.InOutCirc,
	"in-out-quart": ease.InOutQuart,
	"in-out-quint": ease.InOutQuint,
}

// EasingNames returns the sorted list of accepted easing names.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupEasing(name string) (motion.Curve, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ease.Linear, nil
	}
	curve, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, name)
	}
	return curve, nil
}
