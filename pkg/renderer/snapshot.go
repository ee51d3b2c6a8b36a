package renderer

import (
	"image"
	"sync"

	"github.com/pion/localmedia/pkg/io/video"
)

// Snapshot keeps a copy of the most recent frame.
type Snapshot struct {
	mu     sync.Mutex
	buffer *video.FrameBuffer
	seq    uint64
	has    bool
}

var _ Renderer = (*Snapshot)(nil)

// NewSnapshot creates an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{buffer: video.NewFrameBuffer(0)}
}

// RenderFrame implements Renderer.
func (s *Snapshot) RenderFrame(frame *Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer.StoreCopy(frame.Image)
	s.seq = frame.Sequence
	s.has = true
}

// Last returns a copy of the latest frame and its sequence number. ok is
// false until the first frame arrives.
func (s *Snapshot) Last() (img image.Image, seq uint64, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.has {
		return nil, 0, false
	}
	// The internal buffer is overwritten on the next frame.
	out := video.NewFrameBuffer(0)
	out.StoreCopy(s.buffer.Load())
	return out.Load(), s.seq, true
}
