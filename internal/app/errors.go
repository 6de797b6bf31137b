package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrUnknownResource indicates a resource name that is not loaded.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrResourceExists indicates a resource name that is already loaded.
	ErrResourceExists = errors.New("resource already loaded")
)

// InitError reports a component that failed to initialize.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// ResourceError represents a failed resource operation.
type ResourceError struct {
	Op       string // "start", "stop" or "restart"
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s resource %s: %v", e.Op, e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
