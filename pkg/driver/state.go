package driver

import "errors"

var (
	errAlreadyStarted = errors.New("invalid state: capturer is already started")
	errNotStarted     = errors.New("invalid state: capturer hasn't been started")
)

// State represents a capturer's state
type State string

const (
	// StateStopped means the capturer is idle. This is the zero value.
	StateStopped State = ""
	// StateStarted means the capturer is producing data for a reader.
	StateStarted State = "started"
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return string(s)
}

// Update updates current state, s, to next. If the transition is invalid or
// f fails to execute, s will stay unchanged.
func (s *State) Update(next State, f func() error) error {
	var err error
	switch next {
	case StateStarted:
		err = s.toStarted()
	default:
		err = s.toStopped()
	}
	if err != nil {
		return err
	}

	err = f()
	if err == nil {
		*s = next
	}
	return err
}

func (s *State) toStarted() error {
	if *s == StateStarted {
		return errAlreadyStarted
	}
	return nil
}

func (s *State) toStopped() error {
	if *s != StateStarted {
		return errNotStarted
	}
	return nil
}
