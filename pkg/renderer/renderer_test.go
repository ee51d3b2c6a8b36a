package renderer

import (
	"image"
	"testing"
	"time"

	"github.com/pion/localmedia/pkg/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFrame(w, h int, seq uint64) *Frame {
	return &Frame{Image: image.NewRGBA(image.Rect(0, 0, w, h)), Sequence: seq}
}

func TestFrameCounter(t *testing.T) {
	c := NewFrameCounter()
	assert.False(t, c.WaitForFrame(10*time.Millisecond))

	go func() {
		time.Sleep(5 * time.Millisecond)
		c.RenderFrame(newFrame(4, 2, 0))
	}()
	assert.True(t, c.WaitForFrame(time.Second))
	assert.Equal(t, uint64(1), c.Count())
	assert.Equal(t, prop.Dimensions{Width: 4, Height: 2}, c.Dimensions())
}

func TestFrameCounterIgnoresEarlierFrames(t *testing.T) {
	c := NewFrameCounter()
	c.RenderFrame(newFrame(1, 1, 0))

	assert.False(t, c.WaitForFrame(10*time.Millisecond), "frames before the call must not count")
	assert.Equal(t, uint64(1), c.Count())
}

func TestSnapshot(t *testing.T) {
	s := NewSnapshot()
	_, _, ok := s.Last()
	assert.False(t, ok)

	src := newFrame(2, 2, 7)
	src.Image.(*image.RGBA).Pix[0] = 0xaa
	s.RenderFrame(src)
	src.Image.(*image.RGBA).Pix[0] = 0x00

	img, seq, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, uint64(7), seq)
	assert.Equal(t, uint8(0xaa), img.(*image.RGBA).Pix[0], "snapshot must not alias the source frame")
}
