package script

import (
	"errors"
	"fmt"
)

// Errors for script runtimes.
var (
	// ErrClosed is returned when operating on a closed runtime.
	ErrClosed = errors.New("script runtime is closed")

	// ErrNilHost is returned when a runtime is created without a host.
	ErrNilHost = errors.New("script host is nil")
)

// Error is a Lua error raised by a resource's script.
type Error struct {
	Resource string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resource %s: %v", e.Resource, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
