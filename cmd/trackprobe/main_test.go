package main

import (
	"testing"

	"github.com/pion/localmedia"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()

	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func TestOpenCommandCapturer(t *testing.T) {
	setFlag(t, &flagSource, "cmd")
	setFlag(t, &flagCommand, "cat /dev/zero")
	setFlag(t, &flagCommandSize, "8x4")
	setFlag(t, &flagCommandFps, float32(15))
	setFlag(t, &flagCommandPix, string(frame.FormatI420))

	c, closeCapturer, err := openCapturer()
	require.NoError(t, err)
	defer closeCapturer()

	expected := prop.Video{Dimensions: prop.Dimensions{Width: 8, Height: 4}, FrameRate: 15, FrameFormat: frame.FormatI420}
	assert.Equal(t, []prop.Video{expected}, c.SupportedFormats())

	infoer, ok := c.(driver.Infoer)
	require.True(t, ok)
	assert.Equal(t, "cmd", infoer.Info().Label)

	f := localmedia.NewMediaFactory()
	track, err := localmedia.NewLocalVideoTrack(f, true, c)
	require.NoError(t, err)
	assert.Equal(t, expected, track.CaptureFormat())
	track.Release()
	assert.True(t, f.IsReleased())
}

func TestOpenCommandErrors(t *testing.T) {
	testCases := map[string]struct {
		command, size, pixfmt string
	}{
		"NoCommand":    {"", "8x4", "I420"},
		"BadSize":      {"cat /dev/zero", "eight", "I420"},
		"Compressed":   {"cat /dev/zero", "8x4", "MJPEG"},
		"Unterminated": {"cat '/dev/zero", "8x4", "I420"},
	}

	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			setFlag(t, &flagCommand, tc.command)
			setFlag(t, &flagCommandSize, tc.size)
			setFlag(t, &flagCommandPix, tc.pixfmt)

			_, _, err := openCommand()
			assert.Error(t, err)
		})
	}
}

func TestBuildOptionsWithFormat(t *testing.T) {
	setFlag(t, &flagFormat, string(frame.FormatI420))
	setFlag(t, &flagExactFps, 15)

	opts, err := buildOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	setFlag(t, &flagMinFps, 20)
	_, err = buildOptions()
	assert.ErrorIs(t, err, localmedia.ErrInvalidConstraints)
}
