// Package videotest provides a synthetic video capturer for testing.
package videotest

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/pion/localmedia/internal/logging"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/localmedia/pkg/prop"
)

const defaultFrameRate = 30

var logger = logging.NewLogger("localmedia/driver/videotest")

var errUnsupportedFormat = errors.New("videotest: unsupported capture format")

// DefaultFormats is what a Capturer advertises when built without formats.
// The first entry is the default capture format.
var DefaultFormats = []prop.Video{
	{Dimensions: prop.Dimensions{Width: 640, Height: 480}, FrameRate: 30, FrameFormat: frame.FormatI420},
	{Dimensions: prop.Dimensions{Width: 1280, Height: 720}, FrameRate: 30, FrameFormat: frame.FormatI420},
	{Dimensions: prop.Dimensions{Width: 640, Height: 360}, FrameRate: 30, FrameFormat: frame.FormatI420},
	{Dimensions: prop.Dimensions{Width: 352, Height: 288}, FrameRate: 15, FrameFormat: frame.FormatI420},
	{Dimensions: prop.Dimensions{Width: 320, Height: 180}, FrameRate: 15, FrameFormat: frame.FormatI420},
}

// Capturer generates SMPTE-like color bars with a noise strip at the
// negotiated size and frame rate.
type Capturer struct {
	mu      sync.Mutex
	formats []prop.Video
	state   driver.State
	format  prop.Video
	closed  chan struct{}
	starts  int
}

var _ driver.VideoCapturer = (*Capturer)(nil)

// NewCapturer creates a Capturer advertising formats, or DefaultFormats if
// none are given.
func NewCapturer(formats ...prop.Video) *Capturer {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &Capturer{formats: append([]prop.Video(nil), formats...)}
}

// Info implements driver.Infoer.
func (c *Capturer) Info() driver.Info {
	return driver.Info{Label: "VideoTest", DeviceType: driver.Synthetic}
}

// SupportedFormats implements driver.VideoCapturer.
func (c *Capturer) SupportedFormats() []prop.Video {
	return append([]prop.Video(nil), c.formats...)
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
		c.starts++
		r = newColorBars(format, c.closed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debugf("started capture at %s", format)
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

// CaptureFormat implements driver.VideoCapturer. It keeps reporting the last
// format after Stop.
func (c *Capturer) CaptureFormat() prop.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

// Starts reports how many times the capturer has been started.
func (c *Capturer) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}

func (c *Capturer) supports(format prop.Video) bool {
	for _, f := range c.formats {
		if f == format {
			return true
		}
	}
	return false
}

func newColorBars(p prop.Video, closed <-chan struct{}) video.Reader {
	frameRate := p.FrameRate
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}

	colors := [][3]byte{
		{235, 128, 128},
		{210, 16, 146},
		{170, 166, 16},
		{145, 54, 34},
		{107, 202, 222},
		{82, 90, 240},
		{41, 240, 110},
	}

	width, height := p.Width, p.Height
	rect := image.Rect(0, 0, width, height)
	base := image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)
	img := image.NewYCbCr(rect, image.YCbCrSubsampleRatio420)

	hColorBarEnd := height * 3 / 4
	wGradationEnd := width * 5 / 7
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			yi := base.YOffset(x, y)
			ci := base.COffset(x, y)
			switch {
			case y < hColorBarEnd:
				c := colors[x*7/width]
				base.Y[yi] = uint8(uint16(c[0]) * 75 / 100)
				base.Cb[ci] = c[1]
				base.Cr[ci] = c[2]
			case x < wGradationEnd:
				base.Y[yi] = uint8(x * 255 / wGradationEnd)
				base.Cb[ci] = 128
				base.Cr[ci] = 128
			default:
				base.Cb[ci] = 128
				base.Cr[ci] = 128
			}
		}
	}
	random := rand.New(rand.NewSource(0))

	tick := time.NewTicker(time.Duration(float32(time.Second) / frameRate))

	return video.ReaderFunc(func() (image.Image, func(), error) {
		select {
		case <-closed:
			tick.Stop()
			return nil, func() {}, io.EOF
		case <-tick.C:
		}

		copy(img.Y, base.Y)
		copy(img.Cb, base.Cb)
		copy(img.Cr, base.Cr)
		for y := hColorBarEnd; y < height; y++ {
			for x := wGradationEnd; x < width; x++ {
				img.Y[img.YOffset(x, y)] = uint8(random.Int31n(2) * 255)
			}
		}
		return img, func() {}, nil
	})
}
