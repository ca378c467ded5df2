// Package session holds the listening/transcript/summary state and applies
// user actions, recognition events and summary completions to it from a
// single loop.
package session

import (
	"context"
	"strings"
	"sync"

	"hark/log"
	"hark/recognizer"
	"hark/summarizer"
)

type Clipboard interface {
	Copy(text string) error
}

type action int

const (
	actToggle action = iota
	actCopy
	actClear
	actSummarize
	actSync
)

type command struct {
	act action
	ack chan struct{}
}

func (a action) String() string {
	switch a {
	case actToggle:
		return "toggle"
	case actCopy:
		return "copy"
	case actClear:
		return "clear"
	case actSummarize:
		return "summarize"
	case actSync:
		return "sync"
	}
	return "unknown"
}

type summaryResult struct {
	summary string
	err     error
}

type Session struct {
	adapter    recognizer.Adapter
	summarizer summarizer.Summarizer
	clipboard  Clipboard

	actions   chan command
	starts    chan error
	summaries chan summaryResult
	done      chan struct{}

	// owned by the Run loop
	state      State
	transcript *recognizer.Transcript
	starting   bool
	syncs      []chan struct{}

	mu        sync.Mutex
	published State
	subs      map[int]chan State
	nextSub   int
	summaryN  int
}

func New(adapter recognizer.Adapter, sum summarizer.Summarizer, clip Clipboard) *Session {
	s := &Session{
		adapter:    adapter,
		summarizer: sum,
		clipboard:  clip,
		actions:    make(chan command, 16),
		starts:     make(chan error, 1),
		summaries:  make(chan summaryResult, 1),
		done:       make(chan struct{}),
		transcript: recognizer.NewTranscript(),
		subs:       make(map[int]chan State),
	}
	if err := adapter.Available(); err != nil {
		log.Warnf("recognizer unavailable: %v", err)
		s.state.Err = unsupportedError()
	}
	s.published = s.state
	return s
}

func (s *Session) ToggleListening() { s.post(actToggle) }
func (s *Session) Copy()            { s.post(actCopy) }
func (s *Session) Clear()           { s.post(actClear) }
func (s *Session) Summarize()       { s.post(actSummarize) }

func (s *Session) post(a action) {
	select {
	case s.actions <- command{act: a}:
	case <-s.done:
	}
}

// Sync returns once every action posted before it has been applied,
// including an adapter start still in flight.
func (s *Session) Sync() {
	ack := make(chan struct{})
	select {
	case s.actions <- command{act: actSync, ack: ack}:
	case <-s.done:
		return
	}
	select {
	case <-ack:
	case <-s.done:
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

// Run applies actions and events one at a time until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	s.publish()

	adapterEvents := s.adapter.Events()
	for {
		// Events of a run are held back until its start has been applied.
		events := adapterEvents
		if s.starting {
			events = nil
		}
		select {
		case <-ctx.Done():
			if s.starting {
				if err := <-s.starts; err == nil {
					s.adapter.Stop()
				}
			} else if s.state.Listening {
				s.adapter.Stop()
			}
			return nil
		case c := <-s.actions:
			if c.act == actSync {
				if s.starting {
					s.syncs = append(s.syncs, c.ack)
				} else {
					close(c.ack)
				}
				continue
			}
			s.handleAction(ctx, c.act)
		case err := <-s.starts:
			s.handleStart(err)
		case ev := <-events:
			s.handleEvent(ev)
		case r := <-s.summaries:
			s.handleSummary(r)
		}
	}
}

func (s *Session) handleAction(ctx context.Context, a action) {
	log.Infof("action: %s", a)
	switch a {
	case actToggle:
		s.toggle(ctx)
	case actCopy:
		if err := s.clipboard.Copy(s.state.Transcript); err != nil {
			log.Warnf("copy failed: %v", err)
		}
	case actClear:
		s.transcript.Reset()
		s.state.Transcript = ""
		s.state.Summary = ""
		s.publish()
	case actSummarize:
		s.summarize(ctx)
	}
}

func (s *Session) toggle(ctx context.Context) {
	if err := s.adapter.Available(); err != nil {
		s.state.Err = unsupportedError()
		s.publish()
		return
	}
	if s.starting {
		return
	}
	if s.state.Listening {
		// Listening flips on EventEnd.
		s.adapter.Stop()
		return
	}

	// Start may dial a remote service; the loop keeps serving meanwhile.
	s.starting = true
	go func() { s.starts <- s.adapter.Start(ctx) }()
}

func (s *Session) handleStart(err error) {
	s.starting = false
	for _, ack := range s.syncs {
		close(ack)
	}
	s.syncs = nil

	if err != nil {
		log.Errorf("recognition start failed: %v", err)
		if recognizer.IsUnsupported(err) {
			s.state.Err = unsupportedError()
		} else {
			s.state.Err = startError(err)
		}
		s.publish()
		return
	}
	s.transcript.NewRun()
	s.state.Listening = true
	s.state.Err = nil
	s.publish()
}

// handleEvent applies adapter events in order. Only EventEnd clears
// Listening: every started run ends with exactly one, and a new start is
// only attempted once it has been seen.
func (s *Session) handleEvent(ev recognizer.Event) {
	switch ev.Kind {
	case recognizer.EventResult:
		s.state.Transcript = s.transcript.Apply(ev)
	case recognizer.EventError:
		log.Errorf("recognition error: %v", ev.Err)
		s.state.Err = recognitionError(ev.Err)
	case recognizer.EventEnd:
		s.state.Listening = false
	}
	s.publish()
}

func (s *Session) summarize(ctx context.Context) {
	if s.state.Summarizing {
		return
	}
	text := s.state.Transcript
	if strings.TrimSpace(text) == "" {
		s.state.Err = emptyInputError()
		s.publish()
		return
	}

	s.state.Summarizing = true
	s.publish()

	go func() {
		summary, err := s.summarizer.Summarize(ctx, text)
		s.summaries <- summaryResult{summary: summary, err: err}
	}()
}

func (s *Session) handleSummary(r summaryResult) {
	s.state.Summarizing = false
	if r.err != nil {
		log.Errorf("summarize failed: %v", r.err)
		s.state.Err = summarizationError()
	} else {
		s.state.Summary = r.summary
		s.state.Err = nil
		s.mu.Lock()
		s.summaryN++
		s.mu.Unlock()
	}
	s.publish()
}

// Subscribe returns a channel that always holds the latest state; a slow
// reader skips intermediate states. cancel closes the channel.
func (s *Session) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	ch <- s.published
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Summaries counts successful summaries.
func (s *Session) Summaries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryN
}

func (s *Session) publish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = s.state
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}
