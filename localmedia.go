package localmedia

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/prop"
	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"
)

// DefaultAudioFormat is used to start the audio device when no format is
// configured.
var DefaultAudioFormat = prop.Audio{
	ChannelCount: 1,
	SampleRate:   48000,
	Latency:      20 * time.Millisecond,
}

// LocalMedia is a media session owning local audio and video tracks. The
// session's audio device runs while at least one audio track is attached.
type LocalMedia struct {
	id          string
	factory     *MediaFactory
	device      driver.AudioDevice
	audioFormat prop.Audio
	log         logging.LeveledLogger

	mu          sync.Mutex
	audioTracks []*LocalAudioTrack
	videoTracks []*LocalVideoTrack
	released    bool
}

type localMediaOptions struct {
	device        driver.AudioDevice
	audioFormat   prop.Audio
	loggerFactory logging.LoggerFactory
}

// LocalMediaOption configures NewLocalMedia.
type LocalMediaOption func(*localMediaOptions)

// WithAudioDevice sets the device started for audio tracks.
func WithAudioDevice(d driver.AudioDevice) LocalMediaOption {
	return func(o *localMediaOptions) {
		o.device = d
	}
}

// WithAudioFormat sets the format the audio device is started with.
func WithAudioFormat(p prop.Audio) LocalMediaOption {
	return func(o *localMediaOptions) {
		o.audioFormat = p
	}
}

// WithLoggerFactory overrides the factory's logger factory for the session.
func WithLoggerFactory(lf logging.LoggerFactory) LocalMediaOption {
	return func(o *localMediaOptions) {
		o.loggerFactory = lf
	}
}

// NewLocalMedia creates a session registered with f.
func NewLocalMedia(f *MediaFactory, opts ...LocalMediaOption) (*LocalMedia, error) {
	if f == nil {
		return nil, ErrNilFactory
	}

	o := localMediaOptions{
		audioFormat:   DefaultAudioFormat,
		loggerFactory: f.loggerFactory,
	}
	for _, opt := range opts {
		opt(&o)
	}

	m := &LocalMedia{
		id:          uuid.NewString(),
		factory:     f,
		device:      o.device,
		audioFormat: o.audioFormat,
		log:         o.loggerFactory.NewLogger("localmedia/session"),
	}
	if err := f.register(ResourceSession, m.id); err != nil {
		return nil, err
	}
	return m, nil
}

// ID returns the session id.
func (m *LocalMedia) ID() string {
	return m.id
}

func (m *LocalMedia) illegalState(op string) error {
	return fmt.Errorf("%w: cannot %s, session %s is released", ErrIllegalState, op, m.id)
}

// AddAudioTrack creates an audio track attached to the session. The audio
// device is started when the first audio track is attached.
func (m *LocalMedia) AddAudioTrack(enabled bool, options AudioOptions) (*LocalAudioTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.released {
		return nil, m.illegalState("add audio track")
	}

	t, err := newLocalAudioTrack(m.factory, enabled, options)
	if err != nil {
		return nil, err
	}

	if len(m.audioTracks) == 0 && m.device != nil && !m.device.IsStarted() {
		if err := m.device.Start(m.audioFormat); err != nil {
			t.Release()
			return nil, fmt.Errorf("localmedia: failed to start audio device: %w", err)
		}
		m.log.Debug("audio device started")
	}

	m.audioTracks = append(m.audioTracks, t)
	t.addReleaseHook(func() { m.RemoveAudioTrack(t) })
	return t, nil
}

// RemoveAudioTrack detaches t from the session without releasing it. It
// reports whether t was attached.
func (m *LocalMedia) RemoveAudioTrack(t *LocalAudioTrack) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed bool
	m.audioTracks, removed = removeTrack(m.audioTracks, t)
	if removed && len(m.audioTracks) == 0 {
		m.stopDevice()
	}
	return removed
}

// AddVideoTrack creates a video track attached to the session. It accepts
// the same options as NewLocalVideoTrack.
func (m *LocalMedia) AddVideoTrack(enabled bool, capturer driver.VideoCapturer, opts ...VideoTrackOption) (*LocalVideoTrack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.released {
		return nil, m.illegalState("add video track")
	}

	t, err := NewLocalVideoTrack(m.factory, enabled, capturer, opts...)
	if err != nil {
		return nil, err
	}
	m.videoTracks = append(m.videoTracks, t)
	t.addReleaseHook(func() { m.RemoveVideoTrack(t) })
	return t, nil
}

// RemoveVideoTrack detaches t from the session without releasing it. It
// reports whether t was attached.
func (m *LocalMedia) RemoveVideoTrack(t *LocalVideoTrack) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed bool
	m.videoTracks, removed = removeTrack(m.videoTracks, t)
	return removed
}

// AudioTracks returns the attached audio tracks.
func (m *LocalMedia) AudioTracks() []*LocalAudioTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*LocalAudioTrack(nil), m.audioTracks...)
}

// VideoTracks returns the attached video tracks.
func (m *LocalMedia) VideoTracks() []*LocalVideoTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*LocalVideoTrack(nil), m.videoTracks...)
}

// Tracks returns every attached track, audio first.
func (m *LocalMedia) Tracks() []Track {
	return m.queryTracks(rtpCodecTypeDefault)
}

const rtpCodecTypeDefault webrtc.RTPCodecType = 0

// queryTracks returns all tracks of the given kind. The default kind matches
// every track.
func (m *LocalMedia) queryTracks(kind webrtc.RTPCodecType) []Track {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]Track, 0, len(m.audioTracks)+len(m.videoTracks))
	if kind == rtpCodecTypeDefault || kind == webrtc.RTPCodecTypeAudio {
		for _, t := range m.audioTracks {
			result = append(result, t)
		}
	}
	if kind == rtpCodecTypeDefault || kind == webrtc.RTPCodecTypeVideo {
		for _, t := range m.videoTracks {
			result = append(result, t)
		}
	}
	return result
}

// TracksOfKind returns the attached tracks of the given kind.
func (m *LocalMedia) TracksOfKind(kind webrtc.RTPCodecType) []Track {
	return m.queryTracks(kind)
}

// IsReleased reports whether Release has been called.
func (m *LocalMedia) IsReleased() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// Release releases every attached track, then the session itself, and stops
// the audio device. It is idempotent.
func (m *LocalMedia) Release() {
	m.mu.Lock()
	if m.released {
		m.mu.Unlock()
		return
	}
	m.released = true
	audioTracks, videoTracks := m.audioTracks, m.videoTracks
	m.audioTracks, m.videoTracks = nil, nil
	m.mu.Unlock()

	// Release hooks call back into Remove*Track, so the lock must not be held.
	for _, t := range videoTracks {
		t.Release()
	}
	for _, t := range audioTracks {
		t.Release()
	}

	m.mu.Lock()
	m.stopDevice()
	m.mu.Unlock()

	m.factory.deregister(m.id)
	m.log.Debugf("session %s released", m.id)
}

// stopDevice must be called with mu held.
func (m *LocalMedia) stopDevice() {
	if m.device == nil || !m.device.IsStarted() {
		return
	}
	if err := m.device.Stop(); err != nil {
		m.log.Warnf("failed to stop audio device: %v", err)
		return
	}
	m.log.Debug("audio device stopped")
}

func removeTrack[T comparable](tracks []T, t T) ([]T, bool) {
	for i, existing := range tracks {
		if existing == t {
			return append(tracks[:i:i], tracks[i+1:]...), true
		}
	}
	return tracks, false
}
