// Package driver defines the capture collaborators a local track drives:
// video capturers that hand out frame readers and audio devices that run
// while audio tracks are attached to a session.
package driver

import (
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/localmedia/pkg/prop"
)

// DeviceType represents human readable device type.
type DeviceType string

const (
	// Camera represents camera devices
	Camera DeviceType = "camera"
	// Microphone represents microphone devices
	Microphone DeviceType = "microphone"
	// Screen represents screen devices
	Screen DeviceType = "screen"
	// Synthetic represents generated test sources
	Synthetic DeviceType = "synthetic"
)

// Info describes a capture device.
type Info struct {
	Label      string
	DeviceType DeviceType
}

// Infoer is implemented by collaborators that can describe themselves.
type Infoer interface {
	Info() Info
}

// VideoCapturer produces frames for a local video track.
//
// Start begins capture in format, which must be one of SupportedFormats, and
// returns the reader the track pulls frames from. Stop must make any pending
// or future Read return io.EOF. A stopped capturer can be started again.
type VideoCapturer interface {
	SupportedFormats() []prop.Video
	Start(format prop.Video) (video.Reader, error)
	Stop() error
	IsStarted() bool
	CaptureFormat() prop.Video
}

// AudioDevice captures audio for the audio tracks of a session.
type AudioDevice interface {
	Start(format prop.Audio) error
	Stop() error
	IsStarted() bool
}
