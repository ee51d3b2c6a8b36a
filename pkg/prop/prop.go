// Package prop describes capture formats and the constraints used to pick
// one of them.
package prop

import (
	"fmt"
	"time"

	"github.com/pion/localmedia/pkg/frame"
)

// Dimensions is a width x height pair in pixels.
type Dimensions struct {
	Width, Height int
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Video represents a video capture format.
type Video struct {
	Dimensions
	FrameRate   float32
	FrameFormat frame.Format
}

func (v Video) String() string {
	if v.FrameFormat == "" {
		return fmt.Sprintf("%s@%.0ffps", v.Dimensions, v.FrameRate)
	}
	return fmt.Sprintf("%s@%.0ffps (%s)", v.Dimensions, v.FrameRate, v.FrameFormat)
}

// Audio represents an audio capture format.
type Audio struct {
	ChannelCount int
	SampleRate   int
	Latency      time.Duration
}

// VideoConstraints narrows the set of acceptable Video formats. Nil fields
// accept anything.
type VideoConstraints struct {
	Width, Height IntConstraint
	FrameRate     FloatConstraint
	FrameFormat   FrameFormatConstraint
}

// FitnessDistance is an implementation for https://w3c.github.io/mediacapture-main/#dfn-fitness-distance
// The boolean reports whether v satisfies every required constraint.
func (c *VideoConstraints) FitnessDistance(v Video) (float64, bool) {
	var dist float64
	ok := true

	cmp := func(d float64, match bool) {
		dist += d
		ok = ok && match
	}

	if c.Width != nil {
		cmp(c.Width.Compare(v.Width))
	}
	if c.Height != nil {
		cmp(c.Height.Compare(v.Height))
	}
	if c.FrameRate != nil {
		cmp(c.FrameRate.Compare(v.FrameRate))
	}
	if c.FrameFormat != nil {
		cmp(c.FrameFormat.Compare(v.FrameFormat))
	}

	return dist, ok
}

// Select returns the candidate with the smallest fitness distance among those
// that satisfy c. Ties go to the earlier candidate.
// Reference: https://w3c.github.io/mediacapture-main/#dfn-selectsettings
func (c *VideoConstraints) Select(candidates []Video) (Video, bool) {
	var best Video
	found := false
	var bestDist float64

	for _, v := range candidates {
		dist, ok := c.FitnessDistance(v)
		if !ok {
			continue
		}
		if !found || dist < bestDist {
			best, bestDist, found = v, dist, true
		}
	}

	return best, found
}
