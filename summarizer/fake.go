package summarizer

import (
	"context"
	"strings"
	"sync"
)

// Fake returns a fixed result. When gated, each call blocks until Release.
type Fake struct {
	summary string
	err     error

	mu    sync.Mutex
	calls []string
	gate  chan struct{}
}

func NewFake(summary string, err error) *Fake {
	return &Fake{summary: summary, err: err}
}

// Gate makes following calls wait for Release.
func (f *Fake) Gate() *Fake {
	f.mu.Lock()
	f.gate = make(chan struct{})
	f.mu.Unlock()
	return f
}

func (f *Fake) Release() {
	f.mu.Lock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
	f.mu.Unlock()
}

func (f *Fake) Set(summary string, err error) {
	f.mu.Lock()
	f.summary, f.err = summary, err
	f.mu.Unlock()
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Summarize(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", ErrEmptyTranscript
	}
	f.mu.Lock()
	f.calls = append(f.calls, transcript)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summary, f.err
}
