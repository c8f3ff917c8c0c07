package animation

import (
	"fmt"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/camera"
)

// Channel identifies one of the six animatable pose components.
type Channel int

const (
	PosX Channel = iota
	PosY
	PosZ
	Yaw
	Pitch
	Roll
	numChannels
)

var channelNames = [numChannels]string{"x", "y", "z", "yaw", "pitch", "roll"}

func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// Channels lists every channel in pose order.
func Channels() []Channel {
	return []Channel{PosX, PosY, PosZ, Yaw, Pitch, Roll}
}

// Sequence plays up to six independent tracks over one shared duration.
// A channel without a track holds the initial pose's value for the whole run.
type Sequence struct {
	tracks   [numChannels]*Track[float64]
	duration time.Duration
	elapsed  time.Duration
	playing  bool
	initial  camera.Pose
	err      error
}

// NewSequence creates a stopped sequence of the given duration. Negative
// durations are treated as zero.
func NewSequence(duration time.Duration) *Sequence {
	if duration < 0 {
		duration = 0
	}
	return &Sequence{duration: duration}
}

// SetTrack attaches a track to a channel. A nil track clears it.
func (s *Sequence) SetTrack(ch Channel, t *Track[float64]) *Sequence {
	if ch >= 0 && ch < numChannels {
		s.tracks[ch] = t
	}
	return s
}

// Track returns the track on a channel, or nil if the channel is absent.
func (s *Sequence) Track(ch Channel) *Track[float64] {
	if ch < 0 || ch >= numChannels {
		return nil
	}
	return s.tracks[ch]
}

// Duration returns the total length of the sequence.
func (s *Sequence) Duration() time.Duration { return s.duration }

// Elapsed returns the playback time so far, clamped to Duration.
func (s *Sequence) Elapsed() time.Duration { return s.elapsed }

// IsPlaying reports whether the sequence was started and has not finished.
func (s *Sequence) IsPlaying() bool { return s.playing }

// Err returns the last device write error, if any.
func (s *Sequence) Err() error { return s.err }

// Progress returns the normalized elapsed fraction. A zero-length sequence is
// always complete.
func (s *Sequence) Progress() float64 {
	if s.duration <= 0 {
		return 1
	}
	return clamp(float64(s.elapsed)/float64(s.duration), 0, 1)
}

// Start captures the initial pose, rewinds and begins playback.
func (s *Sequence) Start(initial camera.Pose) {
	s.initial = initial
	s.elapsed = 0
	s.err = nil
	s.playing = true
}

// Stop halts playback without writing a final pose.
func (s *Sequence) Stop() {
	s.playing = false
}

// Sample evaluates every channel at the given progress.
func (s *Sequence) Sample(progress float64) camera.Pose {
	init := s.initial
	eval := func(ch Channel, fallback float64) float64 {
		if t := s.tracks[ch]; t != nil {
			return t.Evaluate(progress, fallback)
		}
		return fallback
	}

	out := init
	out.Position[0] = eval(PosX, init.Position[0])
	out.Position[1] = eval(PosY, init.Position[1])
	out.Position[2] = eval(PosZ, init.Position[2])
	out.Rotation.Yaw = eval(Yaw, init.Rotation.Yaw)
	out.Rotation.Pitch = eval(Pitch, init.Rotation.Pitch)
	out.Rotation.Roll = eval(Roll, init.Rotation.Roll)
	return out
}

// Update advances the clock by dt, writes the sampled pose to dev and reports
// whether the sequence is still playing. A nil device skips the write but
// still advances time.
func (s *Sequence) Update(dt time.Duration, dev camera.Device) bool {
	if !s.playing {
		return false
	}

	if dt > 0 {
		s.elapsed += dt
	}
	if s.elapsed > s.duration {
		s.elapsed = s.duration
	}

	pose := s.Sample(s.Progress())
	if dev != nil {
		if err := dev.SetPose(pose); err != nil {
			s.err = err
		}
	}

	if s.elapsed >= s.duration {
		s.playing = false
	}
	return s.playing
}

// Final returns the pose the sequence lands on at progress 1.
func (s *Sequence) Final() camera.Pose {
	return s.Sample(1)
}
