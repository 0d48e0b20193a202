package scene

import (
	stdmath "math"

	"github.com/Sidremus/cge-blender/pkg/math"
)

// Keyframe is a single keyed value on a channel.
type Keyframe struct {
	Frame float64
	Value math.Vec3
}

// Channel is a keyframe sequence ordered by frame.
type Channel []Keyframe

// Evaluate samples the channel at the given frame with linear
// interpolation, clamping outside the keyed range. The second return
// is false when the channel has no keyframes.
func (c Channel) Evaluate(frame float64) (math.Vec3, bool) {
	if len(c) == 0 {
		return math.Vec3{}, false
	}
	if frame <= c[0].Frame {
		return c[0].Value, true
	}
	last := c[len(c)-1]
	if frame >= last.Frame {
		return last.Value, true
	}
	for i := 1; i < len(c); i++ {
		if frame <= c[i].Frame {
			prev := c[i-1]
			span := c[i].Frame - prev.Frame
			if span == 0 {
				return c[i].Value, true
			}
			t := (frame - prev.Frame) / span
			return prev.Value.Lerp(c[i].Value, t), true
		}
	}
	return last.Value, true
}

// ChannelSet groups the transform channels an action drives on one
// object. Rotation is an XYZ Euler in degrees.
type ChannelSet struct {
	Location Channel
	Rotation Channel
	Scale    Channel
}

// Action is a reusable named animation clip. Channels are keyed by
// target object name.
type Action struct {
	Name     string
	FakeUser bool
	Channels map[string]*ChannelSet
}

// Targets reports whether the action drives any channel on the named object.
func (a *Action) Targets(name string) bool {
	_, ok := a.Channels[name]
	return ok
}

// FrameRange returns the first and last keyed frame across all
// channels. An action without keyframes reports (0, 0).
func (a *Action) FrameRange() (float64, float64) {
	first := stdmath.Inf(1)
	last := stdmath.Inf(-1)
	scan := func(c Channel) {
		for _, k := range c {
			first = stdmath.Min(first, k.Frame)
			last = stdmath.Max(last, k.Frame)
		}
	}
	for _, set := range a.Channels {
		scan(set.Location)
		scan(set.Rotation)
		scan(set.Scale)
	}
	if stdmath.IsInf(first, 1) {
		return 0, 0
	}
	return first, last
}
