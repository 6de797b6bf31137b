// Package widget defines the native prompt widget contract.
//
// A Binding owns the on-screen prompt resources. Prompts and groups in the
// prompt package never render or read input themselves; every state change and
// every predicate goes through a Binding. Implementations are driven from the
// tick goroutine only and are not required to be goroutine-safe.
package widget

import "github.com/dshills/promptkit/internal/input/control"

// Handle identifies one native prompt resource.
type Handle int32

// InvalidHandle is never returned by CreatePrompt.
const InvalidHandle Handle = 0

// GroupID identifies a prompt group on the native side.
// Zero means "no group".
type GroupID int32

// NoGroup is the group id of ungrouped prompts.
const NoGroup GroupID = 0

// Binding is the native widget API consumed by prompts.
type Binding interface {
	// CreatePrompt registers a new native prompt and returns its handle.
	CreatePrompt() Handle

	// DeletePrompt releases a native prompt. The handle is invalid afterwards.
	DeletePrompt(h Handle)

	// SetControlAction binds one more control to the prompt.
	SetControlAction(h Handle, c control.Control)

	// SetText sets the label shown next to the prompt.
	SetText(h Handle, text string)

	// SetGroup places the prompt in a group.
	SetGroup(h Handle, group GroupID)

	SetEnabled(h Handle, enabled bool)
	SetVisible(h Handle, visible bool)
	SetHoldMode(h Handle, hold bool)

	// Prompt predicates.
	IsActive(h Handle) bool
	IsEnabled(h Handle) bool
	IsValid(h Handle) bool
	IsPressed(h Handle) bool
	IsReleased(h Handle) bool
	IsJustPressed(h Handle) bool
	IsJustReleased(h Handle) bool
	HasHoldMode(h Handle) bool
	IsHoldModeRunning(h Handle) bool
	HasHoldModeCompleted(h Handle) bool

	// Raw control predicates for a pad.
	IsControlEnabled(pad int, c control.Control) bool
	IsControlPressed(pad int, c control.Control) bool
	IsControlReleased(pad int, c control.Control) bool
	IsControlJustPressed(pad int, c control.Control) bool
	IsControlJustReleased(pad int, c control.Control) bool

	// SetActiveGroupThisFrame displays the group with the given label for the
	// current frame only.
	SetActiveGroupThisFrame(group GroupID, text string)
}
