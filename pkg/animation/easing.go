package animation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

// Easing remaps linear progress in [0,1] to eased progress
type Easing func(t float64) float64

// fromTween adapts a gween tween function to unit progress
func fromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// clamped evaluates fn on t limited to [0,1]
func clamped(fn func(t float64) float64) Easing {
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return fn(t)
	}
}

// The four core curves stay in float64; gween's tweens work in float32.
var (
	// Linear is t
	Linear = clamped(func(t float64) float64 { return t })
	// EaseIn is t²
	EaseIn = clamped(func(t float64) float64 { return t * t })
	// EaseOut is 1-(1-t)²
	EaseOut = clamped(func(t float64) float64 { return 1 - (1-t)*(1-t) })
	// EaseInOut is 2t² below one half and 1-(-2t+2)²/2 above
	EaseInOut = clamped(func(t float64) float64 {
		if t < 0.5 {
			return 2 * t * t
		}
		u := -2*t + 2
		return 1 - u*u/2
	})
)

var easings = map[string]Easing{
	"linear":           Linear,
	"ease-in":          EaseIn,
	"ease-out":         EaseOut,
	"ease-in-out":      EaseInOut,
	"ease-in-cubic":    fromTween(ease.InCubic),
	"ease-out-cubic":   fromTween(ease.OutCubic),
	"ease-out-bounce":  fromTween(ease.OutBounce),
	"ease-out-elastic": fromTween(ease.OutElastic),
}

// EasingByName looks up an easing; an empty name means linear
func EasingByName(name string) (Easing, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Linear, nil
	}
	if e, ok := easings[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(EasingNames(), ", "))
}

// EasingNames lists the registered easing names
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
