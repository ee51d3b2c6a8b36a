package localmedia

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	f := NewMediaFactory()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(f)))

	m, err := NewLocalMedia(f)
	require.NoError(t, err)
	a, err := m.AddAudioTrack(true, AudioOptions{})
	require.NoError(t, err)
	_, err = m.AddAudioTrack(true, AudioOptions{})
	require.NoError(t, err)
	a.Release()

	expected := `
# HELP localmedia_engine_running Whether the media engine is initialized.
# TYPE localmedia_engine_running gauge
localmedia_engine_running 1
# HELP localmedia_live_resources Media resources currently registered with the factory.
# TYPE localmedia_live_resources gauge
localmedia_live_resources{kind="audio_track"} 1
localmedia_live_resources{kind="session"} 1
localmedia_live_resources{kind="video_track"} 0
# HELP localmedia_resources_created_total Media resources registered since the factory was created.
# TYPE localmedia_resources_created_total counter
localmedia_resources_created_total{kind="audio_track"} 2
localmedia_resources_created_total{kind="session"} 1
localmedia_resources_created_total{kind="video_track"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"localmedia_engine_running", "localmedia_live_resources", "localmedia_resources_created_total"))

	m.Release()
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP localmedia_engine_running Whether the media engine is initialized.
# TYPE localmedia_engine_running gauge
localmedia_engine_running 0
`), "localmedia_engine_running"))
	assert.Equal(t, 8, testutil.CollectAndCount(NewCollector(f)))
}
