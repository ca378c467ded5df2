package recognizer

import "context"

// Unavailable is selected when the environment has no recognition
// capability. It never starts and never emits.
type Unavailable struct {
	err    *UnsupportedError
	events chan Event
}

func NewUnavailable(reason string) *Unavailable {
	return &Unavailable{err: &UnsupportedError{Reason: reason}, events: make(chan Event)}
}

func (u *Unavailable) Name() string                  { return "none" }
func (u *Unavailable) Available() error              { return u.err }
func (u *Unavailable) Start(_ context.Context) error { return u.err }
func (u *Unavailable) Stop()                         {}
func (u *Unavailable) Events() <-chan Event          { return u.events }
func (u *Unavailable) Close()                        {}
