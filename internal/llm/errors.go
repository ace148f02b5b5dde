package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable is returned when the model host cannot be reached
	ErrModelUnavailable = errors.New("model host unavailable")
	// ErrModelNotFound is returned when the configured model is not registered on the host
	ErrModelNotFound = errors.New("model not found")
	// ErrEmptyResponse is returned when the host answers with no text
	ErrEmptyResponse = errors.New("empty model response")
)

// Error represents a failed call to the model host.
type Error struct {
	Op         string // generate, chat, tags, pull
	StatusCode int    // HTTP status, 0 for transport errors
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("llm %s failed", e.Op)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}
