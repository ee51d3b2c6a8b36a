package localmedia

import (
	"errors"
	"image"
	"io"
	"sync/atomic"
	"testing"

	"github.com/pion/localmedia/internal/logging"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRenderer struct {
	frames []uint64
	onCall func()
}

func (r *recordingRenderer) RenderFrame(f *VideoFrame) {
	r.frames = append(r.frames, f.Sequence)
	if r.onCall != nil {
		r.onCall()
	}
}

// finiteReader yields n frames, then err.
func finiteReader(n int, err error, released *atomic.Int32) video.Reader {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	return video.ReaderFunc(func() (image.Image, func(), error) {
		if n == 0 {
			return nil, nil, err
		}
		n--
		return img, func() { released.Add(1) }, nil
	})
}

func newTestDispatcher(r video.Reader, enabled bool) *frameDispatcher {
	return newFrameDispatcher(r, func() bool { return enabled }, nil, logging.NewLogger("test"))
}

func TestDispatcherDeliversEveryFrame(t *testing.T) {
	var released atomic.Int32
	d := newTestDispatcher(finiteReader(3, io.EOF, &released), true)

	r1, r2 := &recordingRenderer{}, &recordingRenderer{}
	require.True(t, d.add(r1))
	require.True(t, d.add(r2))

	err := d.run()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, []uint64{0, 1, 2}, r1.frames)
	assert.Equal(t, []uint64{0, 1, 2}, r2.frames)
	assert.Equal(t, int32(3), released.Load(), "every frame must be released after fan-out")
	assert.True(t, d.exited())
}

func TestDispatcherReaderError(t *testing.T) {
	errRead := errors.New("device unplugged")
	var released atomic.Int32
	d := newTestDispatcher(finiteReader(0, errRead, &released), true)

	assert.Equal(t, errRead, d.run())
}

func TestDispatcherStopDuringDelivery(t *testing.T) {
	var released atomic.Int32
	d := newTestDispatcher(finiteReader(5, io.EOF, &released), true)

	second := &recordingRenderer{}
	first := &recordingRenderer{onCall: d.stop}
	require.True(t, d.add(first))
	require.True(t, d.add(second))

	assert.NoError(t, d.run(), "a stopped dispatcher exits cleanly")
	assert.Equal(t, []uint64{0}, first.frames)
	assert.Empty(t, second.frames, "no callback may start after stop")
	assert.Equal(t, 0, d.count())
	assert.False(t, d.add(second))
	assert.False(t, d.remove(second))
}

func TestDispatcherMutationDuringDelivery(t *testing.T) {
	var released atomic.Int32
	d := newTestDispatcher(finiteReader(2, io.EOF, &released), true)

	late := &recordingRenderer{}
	var first *recordingRenderer
	first = &recordingRenderer{onCall: func() {
		d.add(late)
		d.remove(first)
	}}
	require.True(t, d.add(first))

	d.run()
	assert.Equal(t, []uint64{0}, first.frames)
	assert.Equal(t, []uint64{1}, late.frames, "changes apply from the next frame")
}

func TestDispatcherBlackFrames(t *testing.T) {
	var released atomic.Int32
	d := newTestDispatcher(finiteReader(2, io.EOF, &released), false)

	var got []image.Image
	require.True(t, d.add(rendererFunc(func(f *VideoFrame) { got = append(got, f.Image) })))

	d.run()
	require.Len(t, got, 2)
	for _, img := range got {
		assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
		assert.True(t, isBlack(img))
	}
	assert.Same(t, got[0], got[1], "black frames of the same size are reused")
}

type funcRenderer struct {
	f func(*VideoFrame)
}

func (r *funcRenderer) RenderFrame(f *VideoFrame) { r.f(f) }

func rendererFunc(f func(*VideoFrame)) VideoRenderer {
	return &funcRenderer{f: f}
}
