// Package screen captures a display through github.com/kbinani/screenshot.
package screen

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"github.com/kbinani/screenshot"
	"github.com/pion/localmedia/internal/logging"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/localmedia/pkg/prop"
)

// DefaultFrameRate is used when NewCapturer is given a non-positive rate.
const DefaultFrameRate = 10

// downscaleSteps are the divisors applied to the native size to build the
// advertised formats.
var downscaleSteps = []int{1, 2, 4}

var logger = logging.NewLogger("localmedia/driver/screen")

var errUnsupportedFormat = errors.New("screen: unsupported capture format")

// NumDisplays returns the number of active displays.
func NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

// Capturer grabs a display at a fixed rate. Formats smaller than the display
// are produced by scaling.
type Capturer struct {
	displayIndex int
	frameRate    float32

	// Overridable for tests.
	bounds  func(displayIndex int) image.Rectangle
	capture func(displayIndex int) (*image.RGBA, error)

	mu     sync.Mutex
	state  driver.State
	format prop.Video
	closed chan struct{}
}

var _ driver.VideoCapturer = (*Capturer)(nil)

// NewCapturer creates a capturer for the display at displayIndex.
func NewCapturer(displayIndex int, frameRate float32) *Capturer {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Capturer{
		displayIndex: displayIndex,
		frameRate:    frameRate,
		bounds:       screenshot.GetDisplayBounds,
		capture:      screenshot.CaptureDisplay,
	}
}

// Info implements driver.Infoer.
func (c *Capturer) Info() driver.Info {
	return driver.Info{Label: fmt.Sprintf("Screen%d", c.displayIndex), DeviceType: driver.Screen}
}

// SupportedFormats implements driver.VideoCapturer. The native resolution
// comes first.
func (c *Capturer) SupportedFormats() []prop.Video {
	b := c.bounds(c.displayIndex)
	formats := make([]prop.Video, 0, len(downscaleSteps))
	for _, div := range downscaleSteps {
		w, h := b.Dx()/div, b.Dy()/div
		if w == 0 || h == 0 {
			break
		}
		formats = append(formats, prop.Video{
			Dimensions:  prop.Dimensions{Width: w, Height: h},
			FrameRate:   c.frameRate,
			FrameFormat: frame.FormatRGBA,
		})
	}
	return formats
}

// Start implements driver.VideoCapturer.
func (c *Capturer) Start(format prop.Video) (video.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.supports(format) {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, format)
	}

	var r video.Reader
	err := c.state.Update(driver.StateStarted, func() error {
		c.closed = make(chan struct{})
		c.format = format
		r = video.Scale(format.Width, format.Height, video.ScalerApproxBiLinear)(c.newReader(format, c.closed))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debugf("started capturing display %d at %s", c.displayIndex, format)
	return r, nil
}

// Stop implements driver.VideoCapturer.
func (c *Capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Update(driver.StateStopped, func() error {
		close(c.closed)
		return nil
	})
}

// IsStarted implements driver.VideoCapturer.
func (c *Capturer) IsStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == driver.StateStarted
}

// CaptureFormat implements driver.VideoCapturer.
func (c *Capturer) CaptureFormat() prop.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

func (c *Capturer) supports(format prop.Video) bool {
	for _, f := range c.SupportedFormats() {
		if f == format {
			return true
		}
	}
	return false
}

func (c *Capturer) newReader(p prop.Video, closed <-chan struct{}) video.Reader {
	tick := time.NewTicker(time.Duration(float32(time.Second) / p.FrameRate))

	return video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-closed:
			tick.Stop()
			return nil, func() {}, io.EOF
		case <-tick.C:
		}

		img, err := c.capture(c.displayIndex)
		if err != nil {
			return nil, func() {}, fmt.Errorf("screen: failed to capture display %d: %w", c.displayIndex, err)
		}
		return img, func() {}, nil
	})
}
