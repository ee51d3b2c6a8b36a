package localmedia

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/localmedia/pkg/frame"
	"github.com/pion/localmedia/pkg/io/video"
	"github.com/pion/logging"
)

// frameDispatcher pulls frames from a capturer and fans them out to the
// registered renderers. The renderer set is copy-on-write: writers swap in a
// new slice under mu, the dispatch goroutine reads the current snapshot
// without locking.
type frameDispatcher struct {
	reader    video.Reader
	enabled   func() bool
	delivered func()
	log       logging.LeveledLogger

	mu        sync.Mutex
	renderers atomic.Pointer[[]VideoRenderer]
	stopped   atomic.Bool
	done      chan struct{}

	// black is only touched by the dispatch goroutine.
	black *image.YCbCr
}

func newFrameDispatcher(r video.Reader, enabled func() bool, delivered func(), log logging.LeveledLogger) *frameDispatcher {
	d := &frameDispatcher{
		reader:    r,
		enabled:   enabled,
		delivered: delivered,
		log:       log,
		done:      make(chan struct{}),
	}
	d.renderers.Store(&[]VideoRenderer{})
	return d
}

func (d *frameDispatcher) snapshot() []VideoRenderer {
	return *d.renderers.Load()
}

// add registers r. Adding a renderer twice is a no-op. It returns false once
// the dispatcher is stopped.
func (d *frameDispatcher) add(r VideoRenderer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped.Load() {
		return false
	}
	cur := d.snapshot()
	for _, existing := range cur {
		if existing == r {
			return true
		}
	}

	next := make([]VideoRenderer, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, r)
	d.renderers.Store(&next)
	return true
}

// remove unregisters r. It returns false once the dispatcher is stopped.
func (d *frameDispatcher) remove(r VideoRenderer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped.Load() {
		return false
	}
	cur := d.snapshot()
	next := make([]VideoRenderer, 0, len(cur))
	for _, existing := range cur {
		if existing != r {
			next = append(next, existing)
		}
	}
	if len(next) != len(cur) {
		d.renderers.Store(&next)
	}
	return true
}

func (d *frameDispatcher) count() int {
	return len(d.snapshot())
}

// stop detaches every renderer. A callback already running is not
// interrupted, but no further callbacks start. stop does not wait for the
// dispatch goroutine.
func (d *frameDispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped.Store(true)
	d.renderers.Store(&[]VideoRenderer{})
}

// exited reports whether run has returned.
func (d *frameDispatcher) exited() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// run reads frames until the reader fails or the dispatcher is stopped. It
// returns nil when stopped, otherwise the reader's error.
func (d *frameDispatcher) run() error {
	defer close(d.done)

	start := time.Now()
	var seq uint64
	for {
		img, release, err := d.reader.Read()
		if d.stopped.Load() {
			if err == nil && release != nil {
				release()
			}
			return nil
		}
		if err != nil {
			return err
		}

		f := &VideoFrame{
			Image:     img,
			Timestamp: time.Since(start),
			Sequence:  seq,
		}
		if !d.enabled() {
			f.Image = d.blackFrame(img.Bounds())
		}
		d.deliver(f)

		if release != nil {
			release()
		}
		seq++
	}
}

func (d *frameDispatcher) deliver(f *VideoFrame) {
	renderers := d.snapshot()
	if len(renderers) == 0 {
		return
	}

	for _, r := range renderers {
		if d.stopped.Load() {
			return
		}
		r.RenderFrame(f)
	}
	if d.delivered != nil {
		d.delivered()
	}
}

func (d *frameDispatcher) blackFrame(bounds image.Rectangle) image.Image {
	if d.black == nil || d.black.Rect.Dx() != bounds.Dx() || d.black.Rect.Dy() != bounds.Dy() {
		d.log.Debugf("allocating %dx%d black frame", bounds.Dx(), bounds.Dy())
		d.black = frame.NewBlack(bounds.Dx(), bounds.Dy())
	}
	return d.black
}
