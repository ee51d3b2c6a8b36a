package localmedia

import (
	"testing"

	"github.com/pion/localmedia/pkg/driver/videotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryLedger(t *testing.T) {
	var inits, teardowns int
	f := NewMediaFactory(WithEngineHooks(func() { inits++ }, func() { teardowns++ }))

	assert.True(t, f.IsReleased())
	assert.False(t, f.EngineRunning(), "engine starts lazily")

	require.NoError(t, f.register(ResourceVideoTrack, "v1"))
	require.NoError(t, f.register(ResourceAudioTrack, "a1"))
	assert.Error(t, f.register(ResourceAudioTrack, "a1"), "ids are unique")
	assert.Equal(t, 1, inits)
	assert.True(t, f.EngineRunning())
	assert.Equal(t, 2, f.Live())
	assert.Equal(t, 1, f.LiveByKind(ResourceVideoTrack))
	assert.Equal(t, 0, f.LiveByKind(ResourceSession))

	f.deregister("v1")
	f.deregister("v1")
	assert.Equal(t, 1, f.Live())
	assert.Equal(t, 0, teardowns)

	f.deregister("a1")
	assert.True(t, f.IsReleased())
	assert.False(t, f.EngineRunning())
	assert.Equal(t, 1, teardowns)

	f.deregister("unknown")
	assert.Equal(t, 1, teardowns)

	require.NoError(t, f.register(ResourceSession, "s1"))
	assert.Equal(t, 2, inits, "engine comes back up after draining")
	f.deregister("s1")
	assert.Equal(t, 2, teardowns)
}

func TestResourceLimit(t *testing.T) {
	f := NewMediaFactory(WithResourceLimit(2))

	t1, err := NewLocalVideoTrack(f, true, videotest.NewCapturer())
	require.NoError(t, err)
	t2, err := NewLocalVideoTrack(f, false, videotest.NewCapturer())
	require.NoError(t, err)

	c := videotest.NewCapturer()
	t3, err := NewLocalVideoTrack(f, true, c)
	assert.ErrorIs(t, err, ErrResourceExhausted)
	assert.Nil(t, t3)
	assert.False(t, c.IsStarted())

	t1.Release()
	t3, err = NewLocalVideoTrack(f, true, c)
	require.NoError(t, err)

	t2.Release()
	t3.Release()
	assert.True(t, f.IsReleased())
}

func TestFactoryStats(t *testing.T) {
	f := NewMediaFactory()
	require.NoError(t, f.register(ResourceAudioTrack, "a1"))
	require.NoError(t, f.register(ResourceAudioTrack, "a2"))
	f.deregister("a1")
	f.frameDispatched()

	s := f.stats()
	assert.Equal(t, 1, s.live[ResourceAudioTrack])
	assert.Equal(t, uint64(2), s.created[ResourceAudioTrack])
	assert.True(t, s.engineUp)
	assert.Equal(t, uint64(1), s.framesDispatched)
}
