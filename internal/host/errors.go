package host

import (
	"errors"
	"fmt"
)

// Host errors.
var (
	// ErrThreadDone ends a thread without logging an error.
	ErrThreadDone = errors.New("thread done")

	// ErrThreadPanic indicates a thread function panicked.
	ErrThreadPanic = errors.New("thread panicked")

	// ErrAlreadyRunning is returned when Run is called on a running host.
	ErrAlreadyRunning = errors.New("host already running")

	// ErrInvalidTickRate is returned for a non-positive tick rate.
	ErrInvalidTickRate = errors.New("tick rate must be positive")
)

// ThreadError describes a thread that ended with an error.
type ThreadError struct {
	ID    ThreadID
	Owner string
	Err   error
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("thread %d (%s): %v", e.ID, e.Owner, e.Err)
}

func (e *ThreadError) Unwrap() error {
	return e.Err
}
