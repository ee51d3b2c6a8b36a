package renderer

import (
	"sync"
	"time"

	"github.com/pion/localmedia/pkg/prop"
)

// FrameCounter counts delivered frames and lets callers wait for the next one.
type FrameCounter struct {
	mu         sync.Mutex
	count      uint64
	dimensions prop.Dimensions
	arrived    chan struct{}
}

var _ Renderer = (*FrameCounter)(nil)

// NewFrameCounter creates a FrameCounter.
func NewFrameCounter() *FrameCounter {
	return &FrameCounter{arrived: make(chan struct{}, 1)}
}

// RenderFrame implements Renderer.
func (c *FrameCounter) RenderFrame(frame *Frame) {
	c.mu.Lock()
	c.count++
	c.dimensions = frame.Dimensions()
	c.mu.Unlock()

	select {
	case c.arrived <- struct{}{}:
	default:
	}
}

// Count returns the number of frames rendered so far.
func (c *FrameCounter) Count() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Dimensions returns the size of the most recent frame.
func (c *FrameCounter) Dimensions() prop.Dimensions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dimensions
}

// WaitForFrame blocks until a frame arrives after the call, or timeout
// elapses. It reports whether a frame arrived.
func (c *FrameCounter) WaitForFrame(timeout time.Duration) bool {
	select {
	case <-c.arrived:
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-c.arrived:
		return true
	case <-timer.C:
		return false
	}
}
