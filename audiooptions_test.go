package localmedia

import (
	"fmt"
	"testing"

	"github.com/pion/localmedia/pkg/driver/audiotest"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const audioOptionCount = 7

func TestAudioTrackWithEveryOptionCombination(t *testing.T) {
	f := NewMediaFactory()
	device := &audiotest.Device{}
	m, err := NewLocalMedia(f, WithAudioDevice(device))
	require.NoError(t, err)
	defer m.Release()

	for i := 0; i < 1<<audioOptionCount; i++ {
		bit := func(n int) bool { return i&(1<<n) != 0 }

		options := NewAudioOptionsBuilder().
			EchoCancellation(bit(0)).
			AutoGainControl(bit(1)).
			NoiseSuppression(bit(2)).
			HighpassFilter(bit(3)).
			StereoSwapping(bit(4)).
			AudioJitterBufferFastAccelerate(bit(5)).
			TypingDetection(bit(6)).
			Build()

		t.Run(fmt.Sprintf("%07b", i), func(t *testing.T) {
			track, err := m.AddAudioTrack(true, options)
			require.NoError(t, err)
			require.NotNil(t, track)

			assert.True(t, track.IsEnabled())
			assert.Equal(t, webrtc.RTPCodecTypeAudio, track.Kind())
			got := track.Options()
			assert.Equal(t, bit(0), got.EchoCancellation())
			assert.Equal(t, bit(1), got.AutoGainControl())
			assert.Equal(t, bit(2), got.NoiseSuppression())
			assert.Equal(t, bit(3), got.HighpassFilter())
			assert.Equal(t, bit(4), got.StereoSwapping())
			assert.Equal(t, bit(5), got.AudioJitterBufferFastAccelerate())
			assert.Equal(t, bit(6), got.TypingDetection())

			assert.True(t, m.RemoveAudioTrack(track))
			track.Release()
			assert.True(t, track.IsReleased())
		})
	}

	assert.Equal(t, 1, f.Live(), "only the session is left")
	starts, stops := device.Counts()
	assert.Equal(t, 1<<audioOptionCount, starts)
	assert.Equal(t, 1<<audioOptionCount, stops)
}

func TestAudioOptionsBuilderSnapshot(t *testing.T) {
	b := NewAudioOptionsBuilder().EchoCancellation(true)
	built := b.Build()

	b.EchoCancellation(false).TypingDetection(true)

	assert.True(t, built.EchoCancellation(), "built options must not follow the builder")
	assert.False(t, built.TypingDetection())
	assert.False(t, b.Build().EchoCancellation())
}

func TestAudioOptionsString(t *testing.T) {
	o := NewAudioOptionsBuilder().NoiseSuppression(true).Build()
	assert.Equal(t,
		"{echoCancellation=false, autoGainControl=false, noiseSuppression=true, highpassFilter=false, "+
			"stereoSwapping=false, audioJitterBufferFastAccelerate=false, typingDetection=false}",
		o.String())
}
