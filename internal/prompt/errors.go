package prompt

import "errors"

// Sentinel errors for prompts and groups.
var (
	// ErrNilBinding is returned when a registry is created without a widget binding.
	ErrNilBinding = errors.New("widget binding cannot be nil")

	// ErrGroupDeleted is returned when adding a prompt to a deleted group.
	ErrGroupDeleted = errors.New("prompt group is deleted")

	// ErrInvalidEventKind is returned for unknown event kinds.
	ErrInvalidEventKind = errors.New("invalid event kind")
)

// CreateError describes a failed prompt construction.
type CreateError struct {
	// Text is the label of the prompt being created.
	Text string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CreateError) Error() string {
	return "create prompt " + `"` + e.Text + `"` + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CreateError) Unwrap() error {
	return e.Err
}
