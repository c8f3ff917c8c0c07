package easing

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknown is returned by ByName for names that are not registered.
var ErrUnknown = errors.New("unknown easing")

var registry = map[string]Func{
	"linear":         Linear,
	"easeInQuad":     EaseInQuad,
	"easeOutQuad":    EaseOutQuad,
	"easeInOutQuad":  EaseInOutQuad,
	"easeInCubic":    EaseInCubic,
	"easeOutCubic":   EaseOutCubic,
	"easeInOutCubic": EaseInOutCubic,
	"easeInQuart":    EaseInQuart,
	"easeOutQuart":   EaseOutQuart,
	"easeInOutQuart": EaseInOutQuart,
	"easeInQuint":    EaseInQuint,
	"easeOutQuint":   EaseOutQuint,
	"easeInOutQuint": EaseInOutQuint,
	"easeInExpo":     EaseInExpo,
	"easeOutExpo":    EaseOutExpo,
	"easeInOutExpo":  EaseInOutExpo,
}

// ByName looks up a curve by its conventional name (e.g. "easeInOutCubic").
func ByName(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn, nil
}

// Names returns all registered curve names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
