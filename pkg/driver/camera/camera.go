/*
Package camera provides a V4L2 video capturer.

Device Label Generation Rules

Device labels have the format:
	pci-0000:00:00.0-usb-0:0:0.0-video-index0;video0
If /dev/v4l/by-path/* is not available (for example in a docker container without
bindings in /dev/v4l/by-path/), it will be:
	video0;video0
*/
package camera

import (
	"context"
	"errors"
	"io"
	"path/filepath"

	"github.com/pion/localmedia/internal/logging"
)

// LabelSeparator is used to separate labels for a device that
// is found from multiple locations on a host.
const LabelSeparator = ";"

// nominalFrameRate is advertised for every format; the capture rate is left
// to the device.
const nominalFrameRate = 30

// maxConsecutiveTimeouts is how many frame waits in a row may time out
// before a read fails.
const maxConsecutiveTimeouts = 3

var errReadTimeout = errors.New("camera: read timeout")

var logger = logging.NewLogger("localmedia/driver/camera")

// Device is a discovered video device node.
type Device struct {
	Label string
	Path  string
}

// Discover lists the V4L2 devices on the host. Devices reachable through
// /dev/v4l/by-path are listed once, under their by-path name.
func Discover() []Device {
	discovered := make(map[string]struct{})
	devices := discover(discovered, "/dev/v4l/by-path/*")
	return append(devices, discover(discovered, "/dev/video*")...)
}

func discover(discovered map[string]struct{}, pattern string) []Device {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil
	}

	var devices []Device
	for _, path := range paths {
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			logger.Debugf("skipping %s: %v", path, err)
			continue
		}
		if _, ok := discovered[real]; ok {
			continue
		}
		discovered[real] = struct{}{}

		devices = append(devices, Device{
			Label: filepath.Base(path) + LabelSeparator + filepath.Base(real),
			Path:  path,
		})
	}
	return devices
}

// awaitFrame calls wait until a frame is ready. Timeouts are retried up to
// maxConsecutiveTimeouts times. Once ctx is done it returns io.EOF.
func awaitFrame(ctx context.Context, wait func() error, isTimeout func(error) bool) error {
	timeouts := 0
	for {
		if ctx.Err() != nil {
			return io.EOF
		}

		err := wait()
		switch {
		case err == nil:
			return nil
		case ctx.Err() != nil:
			return io.EOF
		case isTimeout(err):
			timeouts++
			if timeouts >= maxConsecutiveTimeouts {
				return errReadTimeout
			}
			logger.Debugf("frame wait timed out (%d/%d)", timeouts, maxConsecutiveTimeouts)
		default:
			return err
		}
	}
}
