package screen

import (
	"image"
	"io"
	"testing"

	"github.com/pion/localmedia/pkg/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCapturer() *Capturer {
	c := NewCapturer(0, 100)
	c.bounds = func(int) image.Rectangle {
		return image.Rect(0, 0, 1920, 1080)
	}
	c.capture = func(int) (*image.RGBA, error) {
		return image.NewRGBA(image.Rect(0, 0, 1920, 1080)), nil
	}
	return c
}

func TestSupportedFormats(t *testing.T) {
	formats := newFakeCapturer().SupportedFormats()

	require.Len(t, formats, 3)
	assert.Equal(t, prop.Dimensions{Width: 1920, Height: 1080}, formats[0].Dimensions)
	assert.Equal(t, prop.Dimensions{Width: 960, Height: 540}, formats[1].Dimensions)
	assert.Equal(t, prop.Dimensions{Width: 480, Height: 270}, formats[2].Dimensions)
	assert.Equal(t, float32(100), formats[0].FrameRate)
}

func TestDownscaledCapture(t *testing.T) {
	c := newFakeCapturer()
	format := c.SupportedFormats()[1]

	r, err := c.Start(format)
	require.NoError(t, err)
	assert.True(t, c.IsStarted())
	assert.Equal(t, format, c.CaptureFormat())

	img, release, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 960, 540), img.Bounds())
	release()

	require.NoError(t, c.Stop())
	_, _, err = r.Read()
	assert.Equal(t, io.EOF, err)
	assert.False(t, c.IsStarted())
}

func TestStartUnsupported(t *testing.T) {
	c := newFakeCapturer()
	_, err := c.Start(prop.Video{Dimensions: prop.Dimensions{Width: 1, Height: 1}})
	assert.ErrorIs(t, err, errUnsupportedFormat)
	assert.False(t, c.IsStarted())
}
