package session

import "fmt"

type ErrorKind int

const (
	ErrUnsupported ErrorKind = iota + 1
	ErrStartFailed
	ErrRecognition
	ErrEmptyInput
	ErrSummarization
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupported:
		return "unsupported"
	case ErrStartFailed:
		return "start_failed"
	case ErrRecognition:
		return "recognition"
	case ErrEmptyInput:
		return "empty_input"
	case ErrSummarization:
		return "summarization"
	}
	return "unknown"
}

// Error is the single user-visible error slot.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func unsupportedError() *Error {
	return &Error{Kind: ErrUnsupported, Message: "Speech recognition is not supported in this environment"}
}

func startError(cause error) *Error {
	return &Error{Kind: ErrStartFailed, Message: fmt.Sprintf("Could not start speech recognition: %v", cause)}
}

func recognitionError(cause error) *Error {
	return &Error{Kind: ErrRecognition, Message: fmt.Sprintf("Speech recognition error: %v", cause)}
}

func emptyInputError() *Error {
	return &Error{Kind: ErrEmptyInput, Message: "Nothing to summarize"}
}

// The cause of a failed summary is logged, never shown.
func summarizationError() *Error {
	return &Error{Kind: ErrSummarization, Message: "Failed to summarize transcript. Please try again."}
}

// State is one published view of the session. Err is nil when no error is
// shown.
type State struct {
	Listening   bool
	Transcript  string
	Summary     string
	Summarizing bool
	Err         *Error
}

// CanSummarize reports whether the summarize action is enabled.
func (s State) CanSummarize() bool {
	return !s.Summarizing
}

func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message
}
