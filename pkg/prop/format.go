package prop

import (
	"fmt"
	"strings"

	"github.com/pion/localmedia/pkg/frame"
)

// FrameFormatConstraint is an interface to represent frame format constraint.
type FrameFormatConstraint interface {
	Compare(frame.Format) (float64, bool)
	Value() (frame.Format, bool)
}

// FrameFormat prefers a frame format without requiring it.
type FrameFormat frame.Format

// Compare implements FrameFormatConstraint.
func (f FrameFormat) Compare(a frame.Format) (float64, bool) {
	if frame.Format(f) == a {
		return 0.0, true
	}
	return 1.0, true
}

// Value implements FrameFormatConstraint.
func (f FrameFormat) Value() (frame.Format, bool) { return frame.Format(f), true }

// String implements Stringify
func (f FrameFormat) String() string {
	return fmt.Sprintf("%s (ideal)", string(f))
}

// FrameFormatOneOf accepts any of the listed formats.
type FrameFormatOneOf []frame.Format

// Compare implements FrameFormatConstraint.
func (f FrameFormatOneOf) Compare(a frame.Format) (float64, bool) {
	for _, ff := range f {
		if ff == a {
			return 0.0, true
		}
	}
	return 1.0, false
}

// Value implements FrameFormatConstraint.
func (FrameFormatOneOf) Value() (frame.Format, bool) { return "", false }

// String implements Stringify
func (f FrameFormatOneOf) String() string {
	opts := make([]string, 0, len(f))
	for _, v := range f {
		opts = append(opts, string(v))
	}
	return fmt.Sprintf("%s (one of values)", strings.Join(opts, ","))
}
