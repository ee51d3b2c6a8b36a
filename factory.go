package localmedia

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/pion/localmedia/internal/logging"
	pionlogging "github.com/pion/logging"
)

// ResourceKind classifies entries in the factory's resource ledger.
type ResourceKind string

const (
	ResourceVideoTrack ResourceKind = "video_track"
	ResourceAudioTrack ResourceKind = "audio_track"
	ResourceSession    ResourceKind = "session"
)

// resourceKinds is the fixed reporting order.
var resourceKinds = []ResourceKind{ResourceAudioTrack, ResourceSession, ResourceVideoTrack}

// MediaFactory is the ledger of live media resources. Every track and session
// registers itself on creation and deregisters on release. The media engine
// is brought up with the first registration and torn down once the ledger
// drains.
type MediaFactory struct {
	mu        sync.Mutex
	resources map[string]ResourceKind
	created   map[ResourceKind]uint64
	engineUp  bool

	limit            int
	onEngineInit     func()
	onEngineTeardown func()

	framesDispatched atomic.Uint64

	loggerFactory pionlogging.LoggerFactory
	log           pionlogging.LeveledLogger
}

// MediaFactoryOption configures a MediaFactory.
type MediaFactoryOption func(*MediaFactory)

// WithResourceLimit caps the number of live resources. Zero means unlimited.
func WithResourceLimit(n int) MediaFactoryOption {
	return func(f *MediaFactory) {
		f.limit = n
	}
}

// WithFactoryLoggerFactory sets the logger factory used by the factory and
// everything created through it.
func WithFactoryLoggerFactory(lf pionlogging.LoggerFactory) MediaFactoryOption {
	return func(f *MediaFactory) {
		f.loggerFactory = lf
	}
}

// WithEngineHooks registers callbacks run when the media engine comes up and
// goes down. They run with the ledger locked and must not call back into the
// factory.
func WithEngineHooks(init, teardown func()) MediaFactoryOption {
	return func(f *MediaFactory) {
		f.onEngineInit = init
		f.onEngineTeardown = teardown
	}
}

// NewMediaFactory creates an empty factory. The engine is not started until
// the first resource registers.
func NewMediaFactory(opts ...MediaFactoryOption) *MediaFactory {
	f := &MediaFactory{
		resources:     make(map[string]ResourceKind),
		created:       make(map[ResourceKind]uint64),
		loggerFactory: logging.Factory(),
	}
	for _, o := range opts {
		o(f)
	}
	f.log = f.loggerFactory.NewLogger("localmedia/factory")

	return f
}

func (f *MediaFactory) logger(scope string) pionlogging.LeveledLogger {
	return f.loggerFactory.NewLogger(scope)
}

func (f *MediaFactory) register(kind ResourceKind, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.resources[id]; ok {
		return fmt.Errorf("localmedia: resource %s already registered", id)
	}
	if f.limit > 0 && len(f.resources) >= f.limit {
		return fmt.Errorf("%w: cannot register %s, %d of %d in use", ErrResourceExhausted, kind, len(f.resources), f.limit)
	}

	if !f.engineUp {
		f.log.Debug("initializing media engine")
		if f.onEngineInit != nil {
			f.onEngineInit()
		}
		f.engineUp = true
	}

	f.resources[id] = kind
	f.created[kind]++
	f.log.Tracef("registered %s %s, %d live", kind, id, len(f.resources))
	return nil
}

// deregister removes id from the ledger. Unknown ids are ignored.
func (f *MediaFactory) deregister(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kind, ok := f.resources[id]
	if !ok {
		return
	}
	delete(f.resources, id)
	f.log.Tracef("deregistered %s %s, %d live", kind, id, len(f.resources))

	if len(f.resources) == 0 && f.engineUp {
		f.log.Debug("tearing down media engine")
		if f.onEngineTeardown != nil {
			f.onEngineTeardown()
		}
		f.engineUp = false
	}
}

func (f *MediaFactory) frameDispatched() {
	f.framesDispatched.Add(1)
}

// IsReleased reports whether every resource created through the factory has
// been released.
func (f *MediaFactory) IsReleased() bool {
	return f.Live() == 0
}

// Live returns the number of live resources.
func (f *MediaFactory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resources)
}

// LiveByKind returns the number of live resources of the given kind.
func (f *MediaFactory) LiveByKind(kind ResourceKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, k := range f.resources {
		if k == kind {
			n++
		}
	}
	return n
}

// EngineRunning reports whether the media engine is initialized.
func (f *MediaFactory) EngineRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engineUp
}

type factoryStats struct {
	live             map[ResourceKind]int
	created          map[ResourceKind]uint64
	engineUp         bool
	framesDispatched uint64
}

func (f *MediaFactory) stats() factoryStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := factoryStats{
		live:             make(map[ResourceKind]int, len(resourceKinds)),
		created:          make(map[ResourceKind]uint64, len(resourceKinds)),
		engineUp:         f.engineUp,
		framesDispatched: f.framesDispatched.Load(),
	}
	for _, k := range f.resources {
		s.live[k]++
	}
	for k, n := range f.created {
		s.created[k] = n
	}
	return s
}
