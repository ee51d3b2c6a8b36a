package localmedia

import (
	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"
)

// LocalAudioTrack is an audio track captured through a LocalMedia session's
// audio device. Audio is rendered by the device, so the track has no
// renderers.
type LocalAudioTrack struct {
	*baseTrack
	options AudioOptions
	log     logging.LeveledLogger
}

var _ Track = (*LocalAudioTrack)(nil)

func newLocalAudioTrack(f *MediaFactory, enabled bool, options AudioOptions) (*LocalAudioTrack, error) {
	t := &LocalAudioTrack{
		baseTrack: newBaseTrack(f, webrtc.RTPCodecTypeAudio, "", enabled),
		options:   options,
		log:       f.logger("localmedia/audiotrack"),
	}
	if err := f.register(ResourceAudioTrack, t.id); err != nil {
		return nil, err
	}

	t.log.Debugf("audio track %s created with %s", t.id, options)
	return t, nil
}

// Options returns the options the track was created with.
func (t *LocalAudioTrack) Options() AudioOptions {
	return t.options
}

// Enable mutes or unmutes the track.
func (t *LocalAudioTrack) Enable(enabled bool) error {
	return t.setEnabled(enabled)
}

// Release deregisters the track and detaches it from its session. It is
// idempotent.
func (t *LocalAudioTrack) Release() {
	if !t.beginRelease() {
		return
	}

	t.factory.deregister(t.id)
	t.runReleaseHooks()
	t.finishRelease()
	t.log.Debugf("audio track %s released", t.id)
}
