package recognizer

import (
	"context"
	"sync"
)

// Fake is a scripted adapter. Emissions while not running are dropped, the
// same as a host that only reports while capturing.
type Fake struct {
	events chan Event

	mu       sync.Mutex
	running  bool
	index    int
	startErr error
	starts   int
	stops    int
}

func NewFake() *Fake {
	return &Fake{events: make(chan Event, 64)}
}

func (f *Fake) Name() string         { return "fake" }
func (f *Fake) Available() error     { return nil }
func (f *Fake) Events() <-chan Event { return f.events }
func (f *Fake) Close()               { f.Stop() }

// FailStart makes following starts fail with err until called with nil.
func (f *Fake) FailStart(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

func (f *Fake) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	if f.running {
		return ErrAlreadyRunning
	}
	f.running = true
	f.index = 0
	f.starts++
	return nil
}

// Stop ends the run. EventEnd is queued behind any pending results.
func (f *Fake) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.stops++
	f.mu.Unlock()

	end := Event{Kind: EventEnd}
	select {
	case f.events <- end:
	default:
		go func() { f.events <- end }()
	}
}

// Pending reports how many events are queued and not yet received.
func (f *Fake) Pending() int {
	return len(f.events)
}

func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *Fake) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Emit delivers a raw result event. It reports false when not running.
func (f *Fake) Emit(resultIndex int, segs ...Segment) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return false
	}
	f.events <- Event{Kind: EventResult, ResultIndex: resultIndex, Results: segs}
	return true
}

// Final emits text as the next final segment and advances the index.
func (f *Fake) Final(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return false
	}
	f.events <- Event{Kind: EventResult, ResultIndex: f.index, Results: []Segment{{Text: text, Final: true}}}
	f.index++
	return true
}

// Interim emits text as the in-progress segment at the current index.
func (f *Fake) Interim(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return false
	}
	f.events <- Event{Kind: EventResult, ResultIndex: f.index, Results: []Segment{{Text: text}}}
	return true
}

// Fail reports a runtime error and ends the run.
func (f *Fake) Fail(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return false
	}
	f.running = false
	f.events <- Event{Kind: EventError, Err: err}
	f.events <- Event{Kind: EventEnd}
	return true
}

// End ends the run on the host's own initiative.
func (f *Fake) End() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return false
	}
	f.running = false
	f.events <- Event{Kind: EventEnd}
	return true
}
