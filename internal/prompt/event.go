package prompt

import "fmt"

// EventKind identifies a prompt event.
type EventKind int

// Event kinds in dispatch order.
const (
	EventJustPressed EventKind = iota
	EventJustReleased
	EventPressed
	EventReleased
	EventHoldModeRunning
	EventHoldModeCompleted
	EventControlPressed
	EventControlReleased
	EventControlJustPressed
	EventControlJustReleased

	numEventKinds
)

// EventKinds returns every event kind in dispatch order.
func EventKinds() []EventKind {
	kinds := make([]EventKind, numEventKinds)
	for i := range kinds {
		kinds[i] = EventKind(i)
	}
	return kinds
}

// String returns the event name as used by setters (e.g. "JustPressed").
func (k EventKind) String() string {
	switch k {
	case EventJustPressed:
		return "JustPressed"
	case EventJustReleased:
		return "JustReleased"
	case EventPressed:
		return "Pressed"
	case EventReleased:
		return "Released"
	case EventHoldModeRunning:
		return "HoldModeRunning"
	case EventHoldModeCompleted:
		return "HoldModeCompleted"
	case EventControlPressed:
		return "ControlPressed"
	case EventControlReleased:
		return "ControlReleased"
	case EventControlJustPressed:
		return "ControlJustPressed"
	case EventControlJustReleased:
		return "ControlJustReleased"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Valid reports whether k is a known event kind.
func (k EventKind) Valid() bool {
	return k >= 0 && k < numEventKinds
}

// IsControl reports whether k is a raw control event.
// Control events are only dispatched while the prompt is enabled.
func (k EventKind) IsControl() bool {
	return k >= EventControlPressed && k <= EventControlJustReleased
}

// ParseEventKind resolves an event name produced by String.
func ParseEventKind(name string) (EventKind, bool) {
	for k := EventKind(0); k < numEventKinds; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Handler is a prompt-level event callback.
type Handler func(p *Prompt, data any)

// GroupHandler is a group-level event callback.
// It receives the group and the member prompt that triggered the event.
type GroupHandler func(g *Group, p *Prompt, data any)
