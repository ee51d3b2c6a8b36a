package localmedia

import (
	"errors"
	"fmt"
	"io"

	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/logging"
	"github.com/pion/webrtc/v4"
)

// LocalVideoTrack is a video track fed by a local capturer. Frames are
// delivered to renderers from a dedicated goroutine.
type LocalVideoTrack struct {
	*baseTrack
	capturer   driver.VideoCapturer
	format     VideoFormat
	dispatcher *frameDispatcher
	log        logging.LeveledLogger
}

var _ Track = (*LocalVideoTrack)(nil)

type videoTrackOptions struct {
	constraints *VideoConstraints
	name        string
}

// VideoTrackOption configures NewLocalVideoTrack.
type VideoTrackOption func(*videoTrackOptions)

// WithVideoConstraints restricts the negotiated capture format.
func WithVideoConstraints(c VideoConstraints) VideoTrackOption {
	return func(o *videoTrackOptions) {
		o.constraints = &c
	}
}

// WithTrackName names the track. The default name is the track id.
func WithTrackName(name string) VideoTrackOption {
	return func(o *videoTrackOptions) {
		o.name = name
	}
}

// NewLocalVideoTrack negotiates a capture format, registers the track with
// f and starts capturer. The capturer is started even when enabled is false.
func NewLocalVideoTrack(f *MediaFactory, enabled bool, capturer driver.VideoCapturer, opts ...VideoTrackOption) (*LocalVideoTrack, error) {
	if f == nil {
		return nil, ErrNilFactory
	}
	if capturer == nil {
		return nil, ErrNilCapturer
	}

	var o videoTrackOptions
	for _, opt := range opts {
		opt(&o)
	}

	format, err := negotiateFormat(capturer.SupportedFormats(), o.constraints)
	if err != nil {
		return nil, err
	}

	t := &LocalVideoTrack{
		baseTrack: newBaseTrack(f, webrtc.RTPCodecTypeVideo, o.name, enabled),
		capturer:  capturer,
		format:    format,
		log:       f.logger("localmedia/videotrack"),
	}

	if err := f.register(ResourceVideoTrack, t.id); err != nil {
		return nil, err
	}

	reader, err := capturer.Start(format)
	if err != nil {
		f.deregister(t.id)
		return nil, fmt.Errorf("localmedia: failed to start capturer with %s: %w", format, err)
	}

	t.dispatcher = newFrameDispatcher(reader, t.IsEnabled, f.frameDispatched, t.log)
	go t.dispatch()

	t.log.Debugf("video track %s started at %s", t.id, format)
	return t, nil
}

func (t *LocalVideoTrack) dispatch() {
	err := t.dispatcher.run()
	if err != nil && !t.IsReleased() {
		if !errors.Is(err, io.EOF) {
			t.log.Errorf("video track %s: capturer failed: %v", t.id, err)
		}
		t.onError(err)
	}
	if t.IsReleased() {
		t.finishRelease()
	}
}

// CaptureFormat returns the negotiated capture format.
func (t *LocalVideoTrack) CaptureFormat() VideoFormat {
	return t.format
}

// Capturer returns the capturer feeding the track.
func (t *LocalVideoTrack) Capturer() driver.VideoCapturer {
	return t.capturer
}

// Enable toggles frame content. Renderers of a disabled track receive black
// frames of the capture size.
func (t *LocalVideoTrack) Enable(enabled bool) error {
	return t.setEnabled(enabled)
}

// AddRenderer starts delivering frames to r. Adding the same renderer twice
// is a no-op.
func (t *LocalVideoTrack) AddRenderer(r VideoRenderer) error {
	if r == nil {
		return ErrNilRenderer
	}
	if t.IsReleased() || !t.dispatcher.add(r) {
		return illegalState("add renderer", t)
	}
	return nil
}

// RemoveRenderer stops delivering frames to r. A frame already being
// delivered may still reach it.
func (t *LocalVideoTrack) RemoveRenderer(r VideoRenderer) error {
	if r == nil {
		return ErrNilRenderer
	}
	if t.IsReleased() || !t.dispatcher.remove(r) {
		return illegalState("remove renderer", t)
	}
	return nil
}

// RendererCount returns the number of attached renderers.
func (t *LocalVideoTrack) RendererCount() int {
	return t.dispatcher.count()
}

// Release detaches every renderer, stops the capturer and deregisters the
// track. It does not wait for the dispatch goroutine, so it is safe to call
// from RenderFrame. Done is closed once that goroutine has exited.
func (t *LocalVideoTrack) Release() {
	if !t.beginRelease() {
		return
	}

	t.dispatcher.stop()
	if err := t.capturer.Stop(); err != nil {
		t.log.Warnf("video track %s: failed to stop capturer: %v", t.id, err)
	}
	t.factory.deregister(t.id)
	t.runReleaseHooks()

	// dispatch only confirms the release if it observes it; cover the case
	// where it exited on its own beforehand.
	if t.dispatcher.exited() {
		t.finishRelease()
	}
	t.log.Debugf("video track %s released", t.id)
}
