//go:build !linux || !cgo

package camera

import (
	"errors"

	"github.com/pion/localmedia/pkg/driver"
)

var errUnsupportedPlatform = errors.New("camera: V4L2 capture requires linux and cgo")

// Capturer is unavailable on this platform.
type Capturer struct {
	driver.VideoCapturer
}

// NewCapturer always fails on this platform.
func NewCapturer(Device) (*Capturer, error) {
	return nil, errUnsupportedPlatform
}

// Close is a no-op.
func (c *Capturer) Close() error {
	return nil
}
