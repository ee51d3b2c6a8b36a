package localmedia

import (
	"fmt"
	"strings"

	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/prop"
)

// VideoDimensions is a width and height in pixels.
type VideoDimensions = prop.Dimensions

// VideoFormat is a capture format: dimensions, frame rate and pixel format.
type VideoFormat = prop.Video

// VideoConstraints bounds the capture format negotiated for a video track.
// Zero values are unset.
type VideoConstraints struct {
	minDimensions   VideoDimensions
	maxDimensions   VideoDimensions
	exactDimensions VideoDimensions
	idealDimensions VideoDimensions
	minFps          int
	maxFps          int
	exactFps        int
	idealFps        int
	preferredFormat frame.Format
	formats         []frame.Format
}

func (c VideoConstraints) MinVideoDimensions() VideoDimensions   { return c.minDimensions }
func (c VideoConstraints) MaxVideoDimensions() VideoDimensions   { return c.maxDimensions }
func (c VideoConstraints) ExactVideoDimensions() VideoDimensions { return c.exactDimensions }
func (c VideoConstraints) IdealVideoDimensions() VideoDimensions { return c.idealDimensions }
func (c VideoConstraints) MinFps() int                           { return c.minFps }
func (c VideoConstraints) MaxFps() int                           { return c.maxFps }
func (c VideoConstraints) ExactFps() int                         { return c.exactFps }
func (c VideoConstraints) IdealFps() int                         { return c.idealFps }
func (c VideoConstraints) PreferredFrameFormat() frame.Format    { return c.preferredFormat }

// FrameFormats returns the pixel formats a capture format must use, if any.
func (c VideoConstraints) FrameFormats() []frame.Format {
	return append([]frame.Format(nil), c.formats...)
}

func (c VideoConstraints) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dimensions %s-%s, fps %d-%d", c.minDimensions, c.maxDimensions, c.minFps, c.maxFps)
	if c.exactDimensions != (VideoDimensions{}) {
		fmt.Fprintf(&b, ", exact %s", c.exactDimensions)
	}
	if c.idealDimensions != (VideoDimensions{}) {
		fmt.Fprintf(&b, ", ideal %s", c.idealDimensions)
	}
	if c.exactFps != 0 {
		fmt.Fprintf(&b, ", exact %dfps", c.exactFps)
	}
	if c.idealFps != 0 {
		fmt.Fprintf(&b, ", ideal %dfps", c.idealFps)
	}
	if c.preferredFormat != "" {
		fmt.Fprintf(&b, ", prefer %s", c.preferredFormat)
	}
	if len(c.formats) > 0 {
		fmt.Fprintf(&b, ", formats %v", c.formats)
	}
	return b.String()
}

// Satisfies reports whether v meets every required constraint.
func (c VideoConstraints) Satisfies(v VideoFormat) bool {
	pc := c.propConstraints()
	_, ok := pc.FitnessDistance(v)
	return ok
}

// propConstraints converts the constraints into fitness constraints. Without
// an ideal, the ideal is the upper bound, so the largest format in range
// wins.
func (c VideoConstraints) propConstraints() prop.VideoConstraints {
	pc := prop.VideoConstraints{
		Width:     intConstraint(c.minDimensions.Width, c.maxDimensions.Width, c.exactDimensions.Width, c.idealDimensions.Width),
		Height:    intConstraint(c.minDimensions.Height, c.maxDimensions.Height, c.exactDimensions.Height, c.idealDimensions.Height),
		FrameRate: floatConstraint(c.minFps, c.maxFps, c.exactFps, c.idealFps),
	}
	switch {
	case len(c.formats) > 0:
		pc.FrameFormat = prop.FrameFormatOneOf(c.formats)
	case c.preferredFormat != "":
		pc.FrameFormat = prop.FrameFormat(c.preferredFormat)
	}
	return pc
}

func intConstraint(lo, hi, exact, ideal int) prop.IntConstraint {
	switch {
	case exact != 0:
		return prop.IntExact(exact)
	case ideal != 0 && lo == 0 && hi == 0:
		return prop.Int(ideal)
	case ideal != 0:
		return prop.IntRanged{Min: lo, Max: hi, Ideal: ideal}
	default:
		return prop.IntRanged{Min: lo, Max: hi, Ideal: hi}
	}
}

func floatConstraint(lo, hi, exact, ideal int) prop.FloatConstraint {
	switch {
	case exact != 0:
		return prop.FloatExact(exact)
	case ideal != 0 && lo == 0 && hi == 0:
		return prop.Float(ideal)
	case ideal != 0:
		return prop.FloatRanged{Min: float32(lo), Max: float32(hi), Ideal: float32(ideal)}
	default:
		return prop.FloatRanged{Min: float32(lo), Max: float32(hi), Ideal: float32(hi)}
	}
}

// VideoConstraintsBuilder builds VideoConstraints.
type VideoConstraintsBuilder struct {
	c VideoConstraints
}

func NewVideoConstraintsBuilder() *VideoConstraintsBuilder {
	return &VideoConstraintsBuilder{}
}

func (b *VideoConstraintsBuilder) MinVideoDimensions(d VideoDimensions) *VideoConstraintsBuilder {
	b.c.minDimensions = d
	return b
}

func (b *VideoConstraintsBuilder) MaxVideoDimensions(d VideoDimensions) *VideoConstraintsBuilder {
	b.c.maxDimensions = d
	return b
}

// ExactVideoDimensions requires a capture size. It must lie within the
// min/max bounds, if any.
func (b *VideoConstraintsBuilder) ExactVideoDimensions(d VideoDimensions) *VideoConstraintsBuilder {
	b.c.exactDimensions = d
	return b
}

// IdealVideoDimensions prefers the closest capture size instead of the
// largest one.
func (b *VideoConstraintsBuilder) IdealVideoDimensions(d VideoDimensions) *VideoConstraintsBuilder {
	b.c.idealDimensions = d
	return b
}

func (b *VideoConstraintsBuilder) MinFps(fps int) *VideoConstraintsBuilder {
	b.c.minFps = fps
	return b
}

func (b *VideoConstraintsBuilder) MaxFps(fps int) *VideoConstraintsBuilder {
	b.c.maxFps = fps
	return b
}

// ExactFps requires a frame rate.
func (b *VideoConstraintsBuilder) ExactFps(fps int) *VideoConstraintsBuilder {
	b.c.exactFps = fps
	return b
}

// IdealFps prefers the closest frame rate.
func (b *VideoConstraintsBuilder) IdealFps(fps int) *VideoConstraintsBuilder {
	b.c.idealFps = fps
	return b
}

// PreferredFrameFormat ranks formats using f first without excluding others.
func (b *VideoConstraintsBuilder) PreferredFrameFormat(f frame.Format) *VideoConstraintsBuilder {
	b.c.preferredFormat = f
	return b
}

// FrameFormats excludes capture formats whose pixel format is not listed.
func (b *VideoConstraintsBuilder) FrameFormats(formats ...frame.Format) *VideoConstraintsBuilder {
	b.c.formats = append([]frame.Format(nil), formats...)
	return b
}

// Build validates and returns the constraints.
func (b *VideoConstraintsBuilder) Build() (VideoConstraints, error) {
	c := b.c
	c.formats = append([]frame.Format(nil), b.c.formats...)
	switch {
	case negative(c.minDimensions.Width, c.minDimensions.Height,
		c.maxDimensions.Width, c.maxDimensions.Height,
		c.exactDimensions.Width, c.exactDimensions.Height,
		c.idealDimensions.Width, c.idealDimensions.Height,
		c.minFps, c.maxFps, c.exactFps, c.idealFps):
		return VideoConstraints{}, fmt.Errorf("%w: negative value in %s", ErrInvalidConstraints, c)
	case inverted(c.minDimensions.Width, c.maxDimensions.Width),
		inverted(c.minDimensions.Height, c.maxDimensions.Height),
		inverted(c.minFps, c.maxFps):
		return VideoConstraints{}, fmt.Errorf("%w: minimum above maximum in %s", ErrInvalidConstraints, c)
	case outside(c.exactDimensions.Width, c.minDimensions.Width, c.maxDimensions.Width),
		outside(c.exactDimensions.Height, c.minDimensions.Height, c.maxDimensions.Height),
		outside(c.exactFps, c.minFps, c.maxFps):
		return VideoConstraints{}, fmt.Errorf("%w: exact value outside bounds in %s", ErrInvalidConstraints, c)
	case c.preferredFormat != "" && len(c.formats) > 0:
		return VideoConstraints{}, fmt.Errorf("%w: both preferred and required frame formats in %s", ErrInvalidConstraints, c)
	}
	return c, nil
}

func negative(values ...int) bool {
	for _, v := range values {
		if v < 0 {
			return true
		}
	}
	return false
}

func inverted(lo, hi int) bool {
	return hi != 0 && lo > hi
}

func outside(v, lo, hi int) bool {
	return v != 0 && (v < lo || (hi != 0 && v > hi))
}

// negotiateFormat picks the capture format for a new track. Without
// constraints the capturer's first format is used.
func negotiateFormat(formats []VideoFormat, constraints *VideoConstraints) (VideoFormat, error) {
	if len(formats) == 0 {
		return VideoFormat{}, fmt.Errorf("%w: capturer has no formats", ErrConstraintUnsatisfiable)
	}
	if constraints == nil {
		return formats[0], nil
	}

	pc := constraints.propConstraints()
	v, ok := pc.Select(formats)
	if !ok {
		return VideoFormat{}, fmt.Errorf("%w: %s", ErrConstraintUnsatisfiable, constraints)
	}
	return v, nil
}
