package animation

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cabinwalk/pkg/camera"
	"github.com/teslashibe/go-cabinwalk/pkg/easing"
)

func TestTrackEmptyReturnsFallback(t *testing.T) {
	tr := NewFloatTrack()
	assert.Equal(t, 42.0, tr.Evaluate(0.5, 42))
}

func TestTrackBoundaries(t *testing.T) {
	curves := []easing.Func{easing.Linear, easing.EaseOutCubic, easing.EaseInExpo, easing.EaseInOutQuint}
	for _, ease := range curves {
		tr := NewFloatTrack().
			Add(0.2, -3, ease).
			Add(0.6, 8, ease).
			Add(0.9, 1.5, ease)

		for _, p := range []float64{-1, 0, 0.1, 0.2} {
			assert.Equal(t, -3.0, tr.Evaluate(p, 0), "p=%v", p)
		}
		for _, p := range []float64{0.9, 0.95, 1, 2} {
			assert.Equal(t, 1.5, tr.Evaluate(p, 0), "p=%v", p)
		}
	}
}

func TestTrackInterpolatesWithEndKeyEasing(t *testing.T) {
	tr := NewFloatTrack().
		Add(0, 0, easing.Linear).
		Add(1, 10, easing.EaseInQuad)

	// Segment easing comes from the end key: 0.5^2 = 0.25.
	assert.InDelta(t, 2.5, tr.Evaluate(0.5, 0), 1e-9)
}

func TestTrackStaysSorted(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewFloatTrack()
	for i := 0; i < 200; i++ {
		tr.Add(rng.Float64(), float64(i), nil)
	}

	keys := tr.Keys()
	require.Len(t, keys, 200)
	assert.True(t, sort.SliceIsSorted(keys, func(i, j int) bool {
		return keys[i].Progress < keys[j].Progress
	}))
}

func TestTrackDuplicateProgressFirstWins(t *testing.T) {
	tr := NewFloatTrack().
		Add(0, 0, nil).
		Add(0.5, 5, nil).
		Add(0.5, 7, nil).
		Add(1, 10, nil)

	keys := tr.Keys()
	require.Len(t, keys, 4)
	assert.Equal(t, 5.0, keys[1].Value)
	assert.Equal(t, 7.0, keys[2].Value)

	// Just before the duplicate point the segment ends at the first key added.
	assert.InDelta(t, 5.0, tr.Evaluate(0.5-1e-12, 0), 1e-6)
	// Past it, the segment starts at the last duplicate.
	assert.InDelta(t, 8.5, tr.Evaluate(0.75, 0), 1e-9)
}

func TestTrackClampsProgress(t *testing.T) {
	tr := NewFloatTrack().Add(-0.5, 1, nil).Add(3, 2, nil)
	keys := tr.Keys()
	assert.Equal(t, 0.0, keys[0].Progress)
	assert.Equal(t, 1.0, keys[1].Progress)
}

func TestVec3Track(t *testing.T) {
	tr := NewVec3Track().
		Add(0, mgl64.Vec3{0, 0, 0}, nil).
		Add(1, mgl64.Vec3{2, -4, 6}, nil)

	got := tr.Evaluate(0.5, mgl64.Vec3{})
	assert.True(t, got.ApproxEqual(mgl64.Vec3{1, -2, 3}), "got %v", got)
}

func TestSequenceCompletion(t *testing.T) {
	dev := camera.NewSimDevice(camera.NewPose(0, 0, 0, 0, 0))
	seq := NewSequence(time.Second).
		SetTrack(PosX, NewFloatTrack().Add(0, 0, nil).Add(1, 4, easing.EaseOutCubic)).
		SetTrack(Yaw, NewFloatTrack().Add(0, 0, nil).Add(0.5, 1, nil).Add(1, -1, easing.EaseInOutCubic))

	initial := camera.NewPose(0, 0.3, -0.2, 0, 0.1)
	seq.Start(initial)
	require.True(t, seq.IsPlaying())

	steps := 0
	for seq.Update(16*time.Millisecond, dev) {
		steps++
		require.Less(t, steps, 1000)
	}

	assert.False(t, seq.IsPlaying())
	assert.Equal(t, time.Second, seq.Elapsed())

	pose, err := dev.GetPose()
	require.NoError(t, err)
	assert.Equal(t, 4.0, pose.X())
	assert.Equal(t, -1.0, pose.Rotation.Yaw)
	// Untracked channels hold their start value.
	assert.Equal(t, 0.3, pose.Y())
	assert.Equal(t, -0.2, pose.Z())
	assert.Equal(t, 0.1, pose.Rotation.Pitch)
}

func TestSequenceOvershootClamps(t *testing.T) {
	seq := NewSequence(100 * time.Millisecond).
		SetTrack(PosZ, NewFloatTrack().Add(0, 1, nil).Add(1, 2, nil))
	seq.Start(camera.Pose{})

	assert.False(t, seq.Update(time.Hour, nil))
	assert.Equal(t, 100*time.Millisecond, seq.Elapsed())
	assert.Equal(t, 1.0, seq.Progress())
	assert.False(t, seq.Update(time.Millisecond, nil), "stopped sequence stays stopped")
}

func TestSequenceZeroDuration(t *testing.T) {
	dev := camera.NewSimDevice(camera.Pose{})
	seq := NewSequence(0).
		SetTrack(PosY, NewFloatTrack().Add(0, 0, nil).Add(1, 9, nil))
	seq.Start(camera.Pose{})

	assert.Equal(t, 1.0, seq.Progress())
	assert.False(t, seq.Update(0, dev))

	pose, _ := dev.GetPose()
	assert.Equal(t, 9.0, pose.Y())
}

func TestSequenceNotStartedDoesNothing(t *testing.T) {
	dev := camera.NewSimDevice(camera.Pose{})
	seq := NewSequence(time.Second)
	assert.False(t, seq.Update(time.Second, dev))
	assert.Equal(t, 0, dev.Writes())
}

func TestSequenceRecordsDeviceError(t *testing.T) {
	dev := camera.NewSimDevice(camera.Pose{})
	dev.SetUnavailable(true)

	seq := NewSequence(time.Second)
	seq.Start(camera.Pose{})
	assert.True(t, seq.Update(10*time.Millisecond, dev))
	assert.ErrorIs(t, seq.Err(), camera.ErrUnavailable)
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "yaw", Yaw.String())
	assert.Equal(t, "channel(9)", Channel(9).String())
	assert.Len(t, Channels(), 6)
}
