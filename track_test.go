package localmedia

import (
	"errors"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
)

func TestOnEnded(t *testing.T) {
	errExpected := errors.New("an error")

	t.Run("ErrorAfterRegister", func(t *testing.T) {
		tr := newBaseTrack(NewMediaFactory(), webrtc.RTPCodecTypeVideo, "", true)

		called := make(chan error, 1)
		tr.OnEnded(func(err error) {
			called <- err
		})

		tr.onError(errExpected)

		select {
		case err := <-called:
			assert.Equal(t, errExpected, err)
		case <-time.After(time.Second):
			t.Error("OnEnded handler was not called")
		}
	})

	t.Run("ErrorBeforeRegister", func(t *testing.T) {
		tr := newBaseTrack(NewMediaFactory(), webrtc.RTPCodecTypeVideo, "", true)

		tr.onError(errExpected)

		called := make(chan error, 1)
		tr.OnEnded(func(err error) {
			called <- err
		})

		select {
		case err := <-called:
			assert.Equal(t, errExpected, err)
		case <-time.After(time.Second):
			t.Error("OnEnded handler was not called")
		}
	})
}

func TestBaseTrackLifecycle(t *testing.T) {
	tr := newBaseTrack(NewMediaFactory(), webrtc.RTPCodecTypeAudio, "mic", false)
	assert.Equal(t, "mic", tr.Name())
	assert.NotEmpty(t, tr.ID())
	assert.Equal(t, TrackActive, tr.State())

	var hooks int
	assert.True(t, tr.addReleaseHook(func() { hooks++ }))

	assert.True(t, tr.beginRelease())
	assert.False(t, tr.beginRelease(), "only the first release may proceed")
	assert.Equal(t, TrackReleasing, tr.State())
	assert.False(t, tr.addReleaseHook(func() { hooks++ }))

	tr.runReleaseHooks()
	tr.runReleaseHooks()
	assert.Equal(t, 1, hooks)

	tr.finishRelease()
	tr.finishRelease()
	assert.Equal(t, TrackReleased, tr.State())
	select {
	case <-tr.Done():
	default:
		t.Error("Done must be closed once released")
	}

	assert.ErrorIs(t, tr.setEnabled(true), ErrIllegalState)
	assert.False(t, tr.IsEnabled())
}

func TestDefaultName(t *testing.T) {
	tr := newBaseTrack(NewMediaFactory(), webrtc.RTPCodecTypeVideo, "", true)
	assert.Equal(t, tr.ID(), tr.Name())
}
