package animation

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/teslashibe/go-cabinwalk/pkg/easing"
)

// Track is an ordered list of keyframes for one channel.
//
// Keys stay sorted by progress. A key added at an existing progress goes after
// the keys already there: the first one added closes the incoming segment and
// the last one added opens the outgoing segment.
type Track[T any] struct {
	keys []Keyframe[T]
	lerp Interpolator[T]
}

// NewTrack creates an empty track using the given interpolator.
func NewTrack[T any](lerp Interpolator[T]) *Track[T] {
	return &Track[T]{lerp: lerp}
}

// NewFloatTrack creates an empty scalar track.
func NewFloatTrack() *Track[float64] {
	return NewTrack(LerpFloat)
}

// NewVec3Track creates an empty vector track.
func NewVec3Track() *Track[mgl64.Vec3] {
	return NewTrack(LerpVec3)
}

// Add inserts a keyframe and returns the track for chaining. Progress is
// clamped to [0,1]; a nil easing means linear.
func (t *Track[T]) Add(progress float64, value T, ease easing.Func) *Track[T] {
	progress = clamp(progress, 0, 1)
	if ease == nil {
		ease = easing.Linear
	}

	idx := sort.Search(len(t.keys), func(i int) bool {
		return t.keys[i].Progress > progress
	})

	t.keys = append(t.keys, Keyframe[T]{})
	copy(t.keys[idx+1:], t.keys[idx:])
	t.keys[idx] = Keyframe[T]{Progress: progress, Value: value, Easing: ease}
	return t
}

// Len returns the number of keyframes.
func (t *Track[T]) Len() int {
	return len(t.keys)
}

// Keys returns a copy of the keyframes in sorted order.
func (t *Track[T]) Keys() []Keyframe[T] {
	out := make([]Keyframe[T], len(t.keys))
	copy(out, t.keys)
	return out
}

// Evaluate returns the track value at progress. An empty track returns
// fallback.
func (t *Track[T]) Evaluate(progress float64, fallback T) T {
	n := len(t.keys)
	if n == 0 {
		return fallback
	}

	first, last := t.keys[0], t.keys[n-1]
	if progress <= first.Progress {
		return first.Value
	}
	if progress >= last.Progress {
		return last.Value
	}

	// First key strictly past progress; its predecessor starts the segment.
	idx := sort.Search(n, func(i int) bool {
		return t.keys[i].Progress > progress
	})
	start, end := t.keys[idx-1], t.keys[idx]

	width := end.Progress - start.Progress
	if width == 0 {
		return start.Value
	}

	local := (progress - start.Progress) / width
	return t.lerp(start.Value, end.Value, end.Easing(local))
}
