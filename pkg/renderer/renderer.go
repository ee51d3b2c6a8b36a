// Package renderer defines what a video track delivers frames to, along with
// a few general purpose renderers.
package renderer

import (
	"image"
	"time"

	"github.com/pion/localmedia/pkg/prop"
)

// Frame is a single captured video frame. The image is only valid for the
// duration of RenderFrame; renderers that keep it must copy it.
type Frame struct {
	Image image.Image
	// Timestamp is the capture time relative to the start of the track.
	Timestamp time.Duration
	// Sequence counts frames read from the capturer, starting at 0.
	Sequence uint64
}

// Dimensions returns the frame size.
func (f *Frame) Dimensions() prop.Dimensions {
	b := f.Image.Bounds()
	return prop.Dimensions{Width: b.Dx(), Height: b.Dy()}
}

// Renderer consumes video frames. RenderFrame is called from the track's
// dispatch goroutine and should return quickly. Implementations must be
// comparable, since tracks keep them in a set.
type Renderer interface {
	RenderFrame(frame *Frame)
}
