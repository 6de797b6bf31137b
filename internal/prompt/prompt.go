package prompt

import (
	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget"
)

// Prompt is one on-screen action hint bound to one or more controls.
//
// A Prompt is not safe for concurrent use; it is driven from the tick goroutine.
type Prompt struct {
	registry *Registry
	binding  widget.Binding
	handle   widget.Handle

	controls []control.Control
	text     string
	group    *Group

	handlers [numEventKinds]Handler
	deleted  bool
}

// PromptOption configures a new prompt.
type PromptOption func(*promptConfig)

type promptConfig struct {
	enabled bool
}

// WithEnabled sets whether the prompt starts enabled.
// A prompt created disabled is also hidden.
func WithEnabled(enabled bool) PromptOption {
	return func(c *promptConfig) {
		c.enabled = enabled
	}
}

func newPrompt(r *Registry, controls any, text string, group *Group, opts []PromptOption) (*Prompt, error) {
	cfg := promptConfig{enabled: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	set, err := control.ParseSet(controls)
	if err != nil {
		return nil, &CreateError{Text: text, Err: err}
	}

	p := &Prompt{
		registry: r,
		binding:  r.binding,
		controls: set,
		text:     text,
		group:    group,
	}

	p.handle = p.binding.CreatePrompt()
	for _, c := range set {
		p.binding.SetControlAction(p.handle, c)
	}
	p.binding.SetText(p.handle, text)
	if !cfg.enabled {
		p.binding.SetEnabled(p.handle, false)
		p.binding.SetVisible(p.handle, false)
	}
	if group != nil {
		p.binding.SetGroup(p.handle, group.id)
	}

	return p, nil
}

// Handle returns the native widget handle.
func (p *Prompt) Handle() widget.Handle {
	return p.handle
}

// Controls returns a copy of the bound controls in binding order.
func (p *Prompt) Controls() []control.Control {
	out := make([]control.Control, len(p.controls))
	copy(out, p.controls)
	return out
}

// Group returns the owning group, or nil for a standalone prompt.
func (p *Prompt) Group() *Group {
	return p.group
}

// Deleted reports whether Delete has been called.
func (p *Prompt) Deleted() bool {
	return p.deleted
}

// IsActive reports whether the prompt is shown this tick.
func (p *Prompt) IsActive() bool {
	return p.binding.IsActive(p.handle)
}

// IsEnabled reports whether the prompt accepts input.
func (p *Prompt) IsEnabled() bool {
	return p.binding.IsEnabled(p.handle)
}

// IsValid reports whether the native handle is still registered.
func (p *Prompt) IsValid() bool {
	return p.binding.IsValid(p.handle)
}

// IsPressed reports whether a bound control is held.
func (p *Prompt) IsPressed() bool {
	return p.binding.IsPressed(p.handle)
}

// IsReleased reports whether no bound control is held.
func (p *Prompt) IsReleased() bool {
	return p.binding.IsReleased(p.handle)
}

// IsJustPressed reports whether the prompt was pressed this tick.
func (p *Prompt) IsJustPressed() bool {
	return p.binding.IsJustPressed(p.handle)
}

// IsJustReleased reports whether the prompt was released this tick.
func (p *Prompt) IsJustReleased() bool {
	return p.binding.IsJustReleased(p.handle)
}

// HasHoldMode reports whether the prompt is in hold mode.
func (p *Prompt) HasHoldMode() bool {
	return p.binding.HasHoldMode(p.handle)
}

// IsHoldModeRunning reports whether a hold is in progress.
func (p *Prompt) IsHoldModeRunning() bool {
	return p.binding.IsHoldModeRunning(p.handle)
}

// HasHoldModeCompleted reports whether the hold reached its threshold.
func (p *Prompt) HasHoldModeCompleted() bool {
	return p.binding.HasHoldModeCompleted(p.handle)
}

// IsControlActionActive reports whether any bound control is enabled on pad.
func (p *Prompt) IsControlActionActive(pad int) bool {
	return p.anyControl(pad, p.binding.IsControlEnabled)
}

// IsControlPressed reports whether any bound control is held on pad.
func (p *Prompt) IsControlPressed(pad int) bool {
	return p.anyControl(pad, p.binding.IsControlPressed)
}

// IsControlReleased reports whether any bound control is released on pad.
func (p *Prompt) IsControlReleased(pad int) bool {
	return p.anyControl(pad, p.binding.IsControlReleased)
}

// IsControlJustPressed reports whether any bound control was pressed this tick on pad.
func (p *Prompt) IsControlJustPressed(pad int) bool {
	return p.anyControl(pad, p.binding.IsControlJustPressed)
}

// IsControlJustReleased reports whether any bound control was released this tick on pad.
func (p *Prompt) IsControlJustReleased(pad int) bool {
	return p.anyControl(pad, p.binding.IsControlJustReleased)
}

func (p *Prompt) anyControl(pad int, pred func(int, control.Control) bool) bool {
	for _, c := range p.controls {
		if pred(pad, c) {
			return true
		}
	}
	return false
}

// Check evaluates the predicate behind an event kind.
// Control kinds are evaluated on the registry's pad.
func (p *Prompt) Check(kind EventKind) bool {
	switch kind {
	case EventJustPressed:
		return p.IsJustPressed()
	case EventJustReleased:
		return p.IsJustReleased()
	case EventPressed:
		return p.IsPressed()
	case EventReleased:
		return p.IsReleased()
	case EventHoldModeRunning:
		return p.IsHoldModeRunning()
	case EventHoldModeCompleted:
		return p.HasHoldModeCompleted()
	case EventControlPressed:
		return p.IsControlPressed(p.registry.pad)
	case EventControlReleased:
		return p.IsControlReleased(p.registry.pad)
	case EventControlJustPressed:
		return p.IsControlJustPressed(p.registry.pad)
	case EventControlJustReleased:
		return p.IsControlJustReleased(p.registry.pad)
	default:
		return false
	}
}

// SetEnabled enables or disables the prompt.
func (p *Prompt) SetEnabled(enabled bool) *Prompt {
	p.binding.SetEnabled(p.handle, enabled)
	return p
}

// SetVisible shows or hides the prompt.
func (p *Prompt) SetVisible(visible bool) *Prompt {
	p.binding.SetVisible(p.handle, visible)
	return p
}

// SetHoldMode switches the prompt to hold mode.
func (p *Prompt) SetHoldMode(hold bool) *Prompt {
	p.binding.SetHoldMode(p.handle, hold)
	return p
}

// Text returns the prompt label.
func (p *Prompt) Text() string {
	return p.text
}

// SetText updates the label and pushes it to the binding.
func (p *Prompt) SetText(text string) *Prompt {
	p.text = text
	p.binding.SetText(p.handle, text)
	return p
}

// On installs the handler for kind, replacing any previous one.
// A nil handler removes it. Unknown kinds are ignored.
func (p *Prompt) On(kind EventKind, h Handler) *Prompt {
	if kind.Valid() {
		p.handlers[kind] = h
	}
	return p
}

// Handler returns the handler installed for kind, if any.
func (p *Prompt) Handler(kind EventKind) Handler {
	if !kind.Valid() {
		return nil
	}
	return p.handlers[kind]
}

// SetOnJustPressed runs h on the tick the prompt is pressed.
func (p *Prompt) SetOnJustPressed(h Handler) *Prompt {
	return p.On(EventJustPressed, h)
}

// SetOnJustReleased runs h on the tick the prompt is released.
func (p *Prompt) SetOnJustReleased(h Handler) *Prompt {
	return p.On(EventJustReleased, h)
}

// SetOnPressed runs h every tick the prompt is held.
func (p *Prompt) SetOnPressed(h Handler) *Prompt {
	return p.On(EventPressed, h)
}

// SetOnReleased runs h every tick the prompt is not held.
func (p *Prompt) SetOnReleased(h Handler) *Prompt {
	return p.On(EventReleased, h)
}

// SetOnHoldModeRunning runs h every tick a hold is in progress.
func (p *Prompt) SetOnHoldModeRunning(h Handler) *Prompt {
	return p.On(EventHoldModeRunning, h)
}

// SetOnHoldModeCompleted runs h while the hold has completed.
func (p *Prompt) SetOnHoldModeCompleted(h Handler) *Prompt {
	return p.On(EventHoldModeCompleted, h)
}

// SetOnControlPressed runs h every tick a bound control is held on the registry pad.
func (p *Prompt) SetOnControlPressed(h Handler) *Prompt {
	return p.On(EventControlPressed, h)
}

// SetOnControlReleased runs h every tick a bound control is released on the registry pad.
func (p *Prompt) SetOnControlReleased(h Handler) *Prompt {
	return p.On(EventControlReleased, h)
}

// SetOnControlJustPressed runs h on the tick a bound control is pressed on the registry pad.
func (p *Prompt) SetOnControlJustPressed(h Handler) *Prompt {
	return p.On(EventControlJustPressed, h)
}

// SetOnControlJustReleased runs h on the tick a bound control is released on the registry pad.
func (p *Prompt) SetOnControlJustReleased(h Handler) *Prompt {
	return p.On(EventControlJustReleased, h)
}

// HandleEvents fires every installed handler whose event holds this tick.
// Call it exactly once per tick.
func (p *Prompt) HandleEvents(data any) {
	enabledChecked, enabled := false, false

	for kind := EventKind(0); kind < numEventKinds; kind++ {
		h := p.handlers[kind]
		if h == nil {
			continue
		}
		if kind.IsControl() {
			if !enabledChecked {
				enabled, enabledChecked = p.IsEnabled(), true
			}
			if !enabled {
				continue
			}
		}
		if p.Check(kind) {
			h(p, data)
			if p.deleted {
				return
			}
		}
	}
}

// Delete removes the prompt from its registry or group and releases the
// native handle. The prompt must not be used afterwards.
func (p *Prompt) Delete() {
	if p.deleted {
		return
	}
	if p.group != nil {
		p.group.removePrompt(p)
	} else {
		p.registry.RemovePrompt(p)
	}
	p.release()
}

// release frees the native handle without touching any collection.
func (p *Prompt) release() {
	p.binding.DeletePrompt(p.handle)
	p.deleted = true
}
