package localmedia

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
)

// Track is the behavior shared by local audio and video tracks.
type Track interface {
	ID() string
	Name() string
	Kind() webrtc.RTPCodecType
	IsEnabled() bool
	Enable(enabled bool) error
	IsReleased() bool
	// Release frees the track. It is idempotent and never fails.
	Release()
	OnEnded(handler func(error))
}

// TrackState is the lifecycle stage of a track.
type TrackState int32

const (
	// TrackActive means the track accepts renderers and state changes.
	TrackActive TrackState = iota
	// TrackReleasing means Release has been called but background work may
	// still be winding down.
	TrackReleasing
	// TrackReleased means every resource of the track has been freed and
	// Done is closed.
	TrackReleased
)

func (s TrackState) String() string {
	switch s {
	case TrackActive:
		return "active"
	case TrackReleasing:
		return "releasing"
	case TrackReleased:
		return "released"
	default:
		return "unknown"
	}
}

type baseTrack struct {
	id      string
	name    string
	kind    webrtc.RTPCodecType
	factory *MediaFactory

	enabled atomic.Bool
	state   atomic.Int32

	released     chan struct{}
	releasedOnce sync.Once

	mu             sync.Mutex
	releaseHooks   []func()
	onEndedHandler func(error)
	err            error
}

func newBaseTrack(f *MediaFactory, kind webrtc.RTPCodecType, name string, enabled bool) *baseTrack {
	id := uuid.NewString()
	if name == "" {
		name = id
	}

	t := &baseTrack{
		id:       id,
		name:     name,
		kind:     kind,
		factory:  f,
		released: make(chan struct{}),
	}
	t.enabled.Store(enabled)
	return t
}

// ID returns the unique track id.
func (t *baseTrack) ID() string {
	return t.id
}

// Name returns the track name, which defaults to its id.
func (t *baseTrack) Name() string {
	return t.name
}

func (t *baseTrack) Kind() webrtc.RTPCodecType {
	return t.kind
}

// IsEnabled returns the enabled flag. It stays readable after release.
func (t *baseTrack) IsEnabled() bool {
	return t.enabled.Load()
}

// State returns the current lifecycle stage.
func (t *baseTrack) State() TrackState {
	return TrackState(t.state.Load())
}

// IsReleased reports whether Release has been called.
func (t *baseTrack) IsReleased() bool {
	return t.State() != TrackActive
}

// Done is closed once the track reaches TrackReleased.
func (t *baseTrack) Done() <-chan struct{} {
	return t.released
}

func (t *baseTrack) setEnabled(enabled bool) error {
	if t.IsReleased() {
		return illegalState("enable", t)
	}
	t.enabled.Store(enabled)
	return nil
}

// beginRelease moves the track from active to releasing. Only the first
// caller gets true.
func (t *baseTrack) beginRelease() bool {
	return t.state.CompareAndSwap(int32(TrackActive), int32(TrackReleasing))
}

func (t *baseTrack) finishRelease() {
	t.releasedOnce.Do(func() {
		t.state.Store(int32(TrackReleased))
		close(t.released)
	})
}

// addReleaseHook registers f to run once on release. It returns false if the
// track is already released.
func (t *baseTrack) addReleaseHook(f func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.IsReleased() {
		return false
	}
	t.releaseHooks = append(t.releaseHooks, f)
	return true
}

func (t *baseTrack) runReleaseHooks() {
	t.mu.Lock()
	hooks := t.releaseHooks
	t.releaseHooks = nil
	t.mu.Unlock()

	for _, f := range hooks {
		f()
	}
}

// OnEnded sets a handler called when the track's source fails. If the track
// already ended with an error, handler is called immediately. A track whose
// source failed stays active and keeps its renderers, but no further frames
// arrive until it is released.
func (t *baseTrack) OnEnded(handler func(error)) {
	t.mu.Lock()
	t.onEndedHandler = handler
	err := t.err
	t.mu.Unlock()

	if err != nil && handler != nil {
		go handler(err)
	}
}

func (t *baseTrack) onError(err error) {
	t.mu.Lock()
	t.err = err
	handler := t.onEndedHandler
	t.mu.Unlock()

	if handler != nil {
		handler(err)
	}
}
