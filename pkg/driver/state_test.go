package driver

import (
	"errors"
	"testing"
)

var noop = func() error { return nil }

func TestUpdate(t *testing.T) {
	var s State

	if err := s.Update(StateStarted, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateStarted {
		t.Fatalf("expected %s, got %s", StateStarted, s)
	}

	if err := s.Update(StateStarted, noop); err == nil {
		t.Fatal("starting twice should fail")
	}

	if err := s.Update(StateStopped, noop); err != nil {
		t.Fatal(err)
	}
	if s != StateStopped {
		t.Fatalf("expected %s, got %s", StateStopped, s)
	}

	if err := s.Update(StateStopped, noop); err == nil {
		t.Fatal("stopping twice should fail")
	}
}

func TestUpdateKeepsStateOnFailure(t *testing.T) {
	var s State
	errExpected := errors.New("device busy")

	err := s.Update(StateStarted, func() error { return errExpected })
	if err != errExpected {
		t.Fatalf("expected %v, got %v", errExpected, err)
	}
	if s != StateStopped {
		t.Fatalf("expected %s, got %s", StateStopped, s)
	}
}
