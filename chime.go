package main

import (
	"hark/beep"
	"hark/session"
)

type chime int

const (
	chimeNone chime = iota
	chimeStart
	chimeEnd
	chimeError
)

// chimeFor picks the sound for a state transition. Every raised error is a
// fresh *session.Error, so a pointer change means a new error. It wins over
// the listening edge it arrives with.
func chimeFor(prev, next session.State) chime {
	if next.Err != nil && next.Err != prev.Err {
		return chimeError
	}
	switch {
	case !prev.Listening && next.Listening:
		return chimeStart
	case prev.Listening && !next.Listening:
		return chimeEnd
	}
	return chimeNone
}

func watchChimes(states <-chan session.State) {
	prev, ok := <-states
	if !ok {
		return
	}
	for next := range states {
		switch chimeFor(prev, next) {
		case chimeStart:
			beep.PlayStart()
		case chimeEnd:
			beep.PlayEnd()
		case chimeError:
			beep.PlayError()
		}
		prev = next
	}
}
