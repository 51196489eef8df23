package tmdb

import (
	"errors"
	"fmt"
)

// Failure kinds. Every gateway error wraps exactly one of these.
var (
	ErrNotFound  = errors.New("tmdb: not found")
	ErrStatus    = errors.New("tmdb: unexpected status")
	ErrTransport = errors.New("tmdb: transport failure")
	ErrMalformed = errors.New("tmdb: malformed payload")
)

// Error is a classified gateway failure.
type Error struct {
	Op     string
	Status int
	Kind   error
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// outcome labels a call result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return "transport"
	}
}
