// Package cmdsource captures raw video frames from the standard output of an
// external command, such as ffmpeg or gstreamer.
package cmdsource

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/pion/localmedia/internal/logging"
	"github.com/pion/localmedia/pkg/driver"
	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/localmedia/pkg/prop"
)

const (
	// DefaultReadTimeout bounds the wait for a single frame.
	DefaultReadTimeout = 10 * time.Second
	stopTimeout        = 3 * time.Second
)

var (
	errReadTimeout       = errors.New("cmdsource: read timeout")
	errInvalidCommand    = errors.New("cmdsource: invalid command")
	errUnsupportedFormat = errors.New("cmdsource: unsupported capture format")
)

var logger = logging.NewLogger("localmedia/driver/cmdsource")

// Capturer runs a command on Start and reads frames of the negotiated format
// from its standard output. The format is also passed to the command through
// LOCALMEDIA_* environment variables.
type Capturer struct {
	label       string
	cmdArgs     []string
	formats     []prop.Video
	readTimeout time.Duration

	mu     sync.Mutex
	state  driver.State
	format prop.Video
	cmd    *exec.Cmd
	closed chan struct{}
}

var _ driver.VideoCapturer = (*Capturer)(nil)

// NewCapturer parses command with shell quoting rules. formats lists what the
// command can produce; only raw formats with a fixed frame size are allowed.
func NewCapturer(label, command string, formats []prop.Video, readTimeout time.Duration) (*Capturer, error) {
	cmdArgs, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidCommand, err)
	}
	if len(cmdArgs) == 0 || cmdArgs[0] == "" {
		return nil, errInvalidCommand
	}
	for _, f := range formats {
		if _, ok := frame.Size(f.FrameFormat, f.Width, f.Height); !ok {
			return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, f)
		}
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	return &Capturer{
		label:       label,
		cmdArgs:     cmdArgs,
		formats:     append([]prop.Video(nil), formats...),
		readTimeout: readTimeout,
	}, nil
}

// Info implements driver.Infoer.
func (c *Capturer) Info() driver.Info {
	return driver.Info{Label: c.label, DeviceType: driver.Synthetic}
}

// SupportedFormats implements driver.VideoCapturer.
func (c *Capturer) SupportedFormats() []prop.Video {
	return append([]prop.Video(nil), c.formats...)
}

// Start implements driver.VideoCapturer.
func (c *Capturer) Start(p prop.Video) (video.Reader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.supports(p) {
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, p)
	}
	frameSize, _ := frame.Size(p.FrameFormat, p.Width, p.Height)
	decoder, err := frame.NewDecoder(p.FrameFormat)
	if err != nil {
		return nil, err
	}

	var r video.Reader
	err = c.state.Update(driver.StateStarted, func() error {
		cmd := exec.Command(c.cmdArgs[0], c.cmdArgs[1:]...)
		cmd.Env = append(os.Environ(),
			fmt.Sprintf("LOCALMEDIA_WIDTH=%d", p.Width),
			fmt.Sprintf("LOCALMEDIA_HEIGHT=%d", p.Height),
			fmt.Sprintf("LOCALMEDIA_FRAME_RATE=%v", p.FrameRate),
			fmt.Sprintf("LOCALMEDIA_FRAME_FORMAT=%s", p.FrameFormat),
		)

		stdErr, err := cmd.StderrPipe()
		if err != nil {
			return err
		}
		stdOut, err := cmd.StdoutPipe()
		if err != nil {
			return err
		}
		if err := cmd.Start(); err != nil {
			return err
		}
		go c.logStderr(stdErr)

		c.cmd = cmd
		c.closed = make(chan struct{})
		c.format = p
		r = c.newReader(stdOut, frameSize, decoder, p, c.closed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debugf("started %q at %s", c.cmdArgs[0], p)
	return r, nil
}

// logStderr forwards the command's standard error as debug logs.
func (c *Capturer) logStderr(stdErr io.Reader) {
	prefix := fmt.Sprintf("(%s stderr): ", c.cmdArgs[0])
	scanner := bufio.NewScanner(stdErr)
	for scanner.Scan() {
		logger.Debug(prefix + scanner.Text())
	}
}

func (c *Capturer) newReader(stdOut io.Reader, frameSize int, decoder frame.Decoder, p prop.Video, closed <-chan struct{}) video.Reader {
	// Two buffers: one being filled while the other is rendered.
	free := make(chan []byte, 2)
	free <- make([]byte, frameSize)
	free <- make([]byte, frameSize)
	frames := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		for {
			var buf []byte
			select {
			case buf = <-free:
			case <-closed:
				return
			}

			if _, err := io.ReadFull(stdOut, buf); err != nil {
				if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, os.ErrClosed) {
					err = io.EOF
				}
				errc <- err
				return
			}

			select {
			case frames <- buf:
			case <-closed:
				return
			}
		}
	}()

	return video.ReaderFunc(func() (image.Image, func(), error) {
		timer := time.NewTimer(c.readTimeout)
		defer timer.Stop()

		select {
		case buf := <-frames:
			img, release, err := decoder.Decode(buf, p.Width, p.Height)
			if err != nil {
				free <- buf
				return nil, func() {}, err
			}
			return img, func() {
				release()
				free <- buf
			}, nil
		case err := <-errc:
			return nil, func() {}, err
		case <-closed:
			return nil, func() {}, io.EOF
		case <-timer.C:
			return nil, func() {}, errReadTimeout
		}
	})
}

// Stop implements driver.VideoCapturer. The command is interrupted and
// killed if it has not exited after a few seconds.
func (c *Capturer) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Update(driver.StateStopped, func() error {
		close(c.closed)
		cmd := c.cmd
		c.cmd = nil

		_ = cmd.Process.Signal(os.Interrupt)
		done := make(chan error, 1)
		go func() { done <- cmd.Wait() }()

		select {
		case err := <-done:
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				// Exiting on the interrupt is expected.
				logger.Debugf("%q exited: %v", c.cmdArgs[0], err)
				return nil
			}
			return err
		case <-time.After(stopTimeout):
			return cmd.Process.Kill()
		}
	})
}

// IsStarted implements driver.VideoCapturer.
func (c *Capturer) IsStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == driver.StateStarted
}

// CaptureFormat implements driver.VideoCapturer.
func (c *Capturer) CaptureFormat() prop.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.format
}

func (c *Capturer) supports(p prop.Video) bool {
	for _, f := range c.formats {
		if f == p {
			return true
		}
	}
	return false
}
