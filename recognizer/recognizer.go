// Package recognizer bridges a continuous speech-to-text capability into
// ordered result, error and end events.
package recognizer

import (
	"context"
	"errors"
	"time"

	"hark/audio"
	"hark/config"
)

type EventKind int

const (
	EventResult EventKind = iota
	EventError
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventResult:
		return "result"
	case EventError:
		return "error"
	case EventEnd:
		return "end"
	}
	return "unknown"
}

// Segment is one recognized piece of speech. Interim segments are replaced
// wholesale by the next event; final segments are permanent.
type Segment struct {
	Text  string
	Final bool
}

// Event carries the segments starting at ResultIndex for EventResult and
// the cause for EventError.
type Event struct {
	Kind        EventKind
	ResultIndex int
	Results     []Segment
	Err         error
}

// Adapter is a host speech-recognition capability. Events() is shared
// across runs; every run that started successfully ends with exactly one
// EventEnd, after any EventError. Start may block while the host connects
// and succeeds again once EventEnd has been received.
type Adapter interface {
	Name() string
	Available() error
	Start(ctx context.Context) error
	Stop()
	Events() <-chan Event
	Close()
}

var ErrAlreadyRunning = errors.New("speech recognition is already running")

// UnsupportedError reports that no recognition capability exists here.
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Reason == "" {
		return "speech recognition is not supported in this environment"
	}
	return "speech recognition is not supported in this environment: " + e.Reason
}

func IsUnsupported(err error) bool {
	var ue *UnsupportedError
	return errors.As(err, &ue)
}

// New picks the adapter variant once at startup. audioCtx may be nil when
// the audio host could not be opened.
func New(cfg config.Config, audioCtx audio.Context, audioErr error) Adapter {
	rc := cfg.Recognizer
	switch {
	case rc.Provider == config.ProviderNone:
		return NewUnavailable("recognition disabled by configuration")
	case cfg.Credentials.DeepgramKey == "":
		return NewUnavailable("DEEPGRAM_API_KEY is not set")
	case audioCtx == nil:
		reason := "no audio capture host"
		if audioErr != nil {
			reason = audioErr.Error()
		}
		return NewUnavailable(reason)
	}

	device, err := audio.FindDevice(audioCtx, rc.Device)
	if err != nil {
		return NewUnavailable(err.Error())
	}

	return NewDeepgram(DeepgramConfigFrom(cfg), audioCtx, device)
}

// DeepgramConfigFrom maps the loaded configuration onto a stream config.
func DeepgramConfigFrom(cfg config.Config) DeepgramConfig {
	rc := cfg.Recognizer
	return DeepgramConfig{
		APIKey:         cfg.Credentials.DeepgramKey,
		Endpoint:       rc.Endpoint,
		Model:          rc.Model,
		Language:       rc.Language,
		SampleRate:     rc.SampleRate,
		Channels:       rc.Channels,
		SilenceTimeout: time.Duration(rc.SilenceTimeoutMS) * time.Millisecond,
	}
}
