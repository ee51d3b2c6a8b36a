//go:build linux && cgo

package camera

// #include <linux/videodev2.h>
import "C"

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/blackjack/webcam"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/localmedia/pkg/prop"
)

const (
	maxEmptyFrameCount = 5
	// readTimeout is in seconds.
	readTimeout = 5
)

var (
	errEmptyFrame        = errors.New("camera: empty frame")
	errUnsupportedFormat = errors.New("camera: unsupported capture format")
)

var pixelFormats = map[webcam.PixelFormat]frame.Format{
	webcam.PixelFormat(C.V4L2_PIX_FMT_YUV420): frame.FormatI420,
	webcam.PixelFormat(C.V4L2_PIX_FMT_NV21):   frame.FormatNV21,
	webcam.PixelFormat(C.V4L2_PIX_FMT_YUYV):   frame.FormatYUY2,
	webcam.PixelFormat(C.V4L2_PIX_FMT_UYVY):   frame.FormatUYVY,
	webcam.PixelFormat(C.V4L2_PIX_FMT_MJPEG):  frame.FormatMJPEG,
}

// Capturer captures from a V4L2 device.
// Reference: https://linuxtv.org/downloads/v4l-dvb-apis/uapi/v4l/videodev.html#videodev
type Capturer struct {
	device  Device
	cam     *webcam.Webcam
	formats []prop.Video

	mu     sync.Mutex
	state  driver.State
	format prop.Video
	cancel context.CancelFunc

	// bufMu is held while a frame is copied out of the mmap buffers.
	bufMu sync.Mutex
}

var _ driver.VideoCapturer = (*Capturer)(nil)

// NewCapturer opens the device and enumerates its formats. Close releases
// the device.
func NewCapturer(d Device) (*Capturer, error) {
	cam, err := webcam.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("camera: failed to open %s: %w", d.Path, err)
	}

	c := &Capturer{device: d, cam: cam}
	for pf := range cam.GetSupportedFormats() {
		f, ok := pixelFormats[pf]
		if !ok {
			continue
		}
		for _, size := range cam.GetSupportedFrameSizes(pf) {
			c.formats = append(c.formats, prop.Video{
				Dimensions:  prop.Dimensions{Width: int(size.MaxWidth), Height: int(size.MaxHeight)},
				FrameRate:   nominalFrameRate,
				FrameFormat: f,
			})
		}
	}
	if len(c.formats) == 0 {
		cam.Close()
		return nil, fmt.Errorf("camera: %s has no supported pixel format", d.Label)
	}
	return c, nil
}

// Info implements driver.Infoer.
func (c *Capturer) Info() driver.Info {
	return driver.Info{Label: c.device.Label, DeviceType: driver.Camera}
}

// SupportedFormats implements driver.VideoCapturer.
func (c *Capturer) SupportedFormats() []prop.Video {
	return append([]prop.Video(nil), c.formats...)
}

// Start implements driver.VideoCapturer.
func (c *Capturer) Start(p prop.Video) (video.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pf, ok := c.pixelFormat(p)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, p)
	}
	decoder, err := frame.NewDecoder(p.FrameFormat)
	if err != nil {
		return nil, err
	}

	var r video.Reader
	err = c.state.Update(driver.StateStarted, func() error {
		if _, _, _, err := c.cam.SetImageFormat(pf, uint32(p.Width), uint32(p.Height)); err != nil {
			return err
		}
		if err := c.cam.StartStreaming(); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.format = p
		r = c.newReader(ctx, decoder, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debugf("started %s at %s", c.device.Label, p)
	return r, nil
}

func (c *Capturer) pixelFormat(p prop.Video) (webcam.PixelFormat, bool) {
	for _, f := range c.formats {
		if f != p {
			continue
		}
		for pf, format := range pixelFormats {
			if format == p.FrameFormat {
				return pf, true
			}
		}
	}
	return 0, false
}

func (c *Capturer) newReader(ctx context.Context, decoder frame.Decoder, p prop.Video) video.Reader {
	var buf []byte
	return video.ReaderFunc(func() (image.Image, func(), error) {
		// Lock to avoid accessing the buffer after StopStreaming()
		c.bufMu.Lock()
		defer c.bufMu.Unlock()

		for i := 0; i < maxEmptyFrameCount; i++ {
			err := awaitFrame(ctx, func() error {
				return c.cam.WaitForFrame(readTimeout)
			}, isTimeout)
			if err != nil {
				return nil, func() {}, err
			}

			b, err := c.cam.ReadFrame()
			if err != nil {
				return nil, func() {}, err
			}
			if len(b) == 0 {
				continue
			}

			if len(b) > len(buf) {
				buf = make([]byte, len(b))
			}
			// Copy out of the mmap buffer so images stay valid after
			// StopStreaming.
			n := copy(buf, b)
			return decoder.Decode(buf[:n], p.Width, p.Height)
		}
		return nil, func() {}, errEmptyFrame
	})
}

func isTimeout(err error) bool {
	_, ok := err.(*webcam.Timeout)
	return ok
}

// Stop implements driver.VideoCapturer. Pending reads return io.EOF.
func (c *Capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Update(driver.StateStopped, func() error {
		c.cancel()
		// Wait until the reader is out of the mmap buffers.
		c.bufMu.Lock()
		defer c.bufMu.Unlock()
		return c.cam.StopStreaming()
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

// Close stops capture if needed and releases the device.
func (c *Capturer) Close() error {
	if c.IsStarted() {
		if err := c.Stop(); err != nil {
			logger.Warnf("failed to stop %s: %v", c.device.Label, err)
		}
	}
	return c.cam.Close()
}
