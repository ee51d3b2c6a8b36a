package localmedia

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState is returned when mutating a track or session that has
	// been released.
	ErrIllegalState = errors.New("localmedia: illegal state")
	// ErrConstraintUnsatisfiable is returned when none of the capturer's
	// formats satisfies the requested video constraints.
	ErrConstraintUnsatisfiable = errors.New("localmedia: constraints cannot be satisfied")
	// ErrResourceExhausted is returned when the factory's resource limit has
	// been reached.
	ErrResourceExhausted = errors.New("localmedia: resource limit reached")
	// ErrInvalidConstraints is returned by VideoConstraintsBuilder.Build for
	// inconsistent constraints, such as negative or inverted bounds.
	ErrInvalidConstraints = errors.New("localmedia: invalid video constraints")
	// ErrNilCapturer is returned when a video track is created without a
	// capturer.
	ErrNilCapturer = errors.New("localmedia: capturer is nil")
	// ErrNilRenderer is returned when adding or removing a nil renderer.
	ErrNilRenderer = errors.New("localmedia: renderer is nil")
	// ErrNilFactory is returned when a track or session is created without
	// a MediaFactory.
	ErrNilFactory = errors.New("localmedia: factory is nil")
)

func illegalState(op string, t interface{ ID() string }) error {
	return fmt.Errorf("%w: cannot %s, track %s is released", ErrIllegalState, op, t.ID())
}
