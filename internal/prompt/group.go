package prompt

import (
	"github.com/dshills/promptkit/internal/widget"
)

// Group is a set of prompts displayed together under one label.
//
// The native layer shows a group only during ticks in which
// SetActiveThisFrame was called for it. The active flag is advisory: it tells
// a driving loop, such as the registry sweep, whether to do so.
type Group struct {
	registry *Registry
	binding  widget.Binding
	id       widget.GroupID

	text    string
	active  bool
	prompts []*Prompt

	handlers [numEventKinds]GroupHandler
	deleted  bool
}

// ID returns the native group id.
func (g *Group) ID() widget.GroupID {
	return g.id
}

// Deleted reports whether Delete has been called.
func (g *Group) Deleted() bool {
	return g.deleted
}

// AddPrompt creates a prompt owned by the group and appends it to the member
// sequence. The prompt is not tracked by the registry.
func (g *Group) AddPrompt(controls any, text string, opts ...PromptOption) (*Prompt, error) {
	if g.deleted {
		return nil, ErrGroupDeleted
	}

	p, err := newPrompt(g.registry, controls, text, g, opts)
	if err != nil {
		return nil, err
	}
	g.prompts = append(g.prompts, p)
	return p, nil
}

// SetActiveThisFrame displays the group for the current tick.
func (g *Group) SetActiveThisFrame() *Group {
	g.binding.SetActiveGroupThisFrame(g.id, g.text)
	return g
}

// Text returns the group label.
func (g *Group) Text() string {
	return g.text
}

// SetText updates the group label. It is shown from the next SetActiveThisFrame.
func (g *Group) SetText(text string) *Group {
	g.text = text
	return g
}

// Prompts returns the member prompts in insertion order.
// The returned slice is a copy; use AddPrompt and Prompt.Delete to change membership.
func (g *Group) Prompts() []*Prompt {
	out := make([]*Prompt, len(g.prompts))
	copy(out, g.prompts)
	return out
}

// Len returns the number of member prompts.
func (g *Group) Len() int {
	return len(g.prompts)
}

// IsActive reports the advisory active flag.
func (g *Group) IsActive() bool {
	return g.active
}

// SetActive sets the advisory active flag.
func (g *Group) SetActive(active bool) *Group {
	g.active = active
	return g
}

// Any reports whether kind holds for any member.
//
// Without a callback it stops at the first matching member. With a callback
// every matching member is visited in order and passed to fn.
func (g *Group) Any(kind EventKind, fn func(*Prompt)) bool {
	return g.match(func(p *Prompt) bool { return p.Check(kind) }, fn)
}

// IsJustPressed reports whether any member was pressed this tick.
func (g *Group) IsJustPressed(fn func(*Prompt)) bool {
	return g.Any(EventJustPressed, fn)
}

// IsJustReleased reports whether any member was released this tick.
func (g *Group) IsJustReleased(fn func(*Prompt)) bool {
	return g.Any(EventJustReleased, fn)
}

// IsPressed reports whether any member is held.
func (g *Group) IsPressed(fn func(*Prompt)) bool {
	return g.Any(EventPressed, fn)
}

// IsReleased reports whether any member is released.
func (g *Group) IsReleased(fn func(*Prompt)) bool {
	return g.Any(EventReleased, fn)
}

// IsHoldModeRunning reports whether any member has a hold in progress.
func (g *Group) IsHoldModeRunning(fn func(*Prompt)) bool {
	return g.Any(EventHoldModeRunning, fn)
}

// HasHoldModeCompleted reports whether any member completed its hold.
func (g *Group) HasHoldModeCompleted(fn func(*Prompt)) bool {
	return g.Any(EventHoldModeCompleted, fn)
}

// IsControlPressed reports whether any member has a control held on pad.
func (g *Group) IsControlPressed(pad int, fn func(*Prompt)) bool {
	return g.match(func(p *Prompt) bool { return p.IsControlPressed(pad) }, fn)
}

// IsControlReleased reports whether any member has a control released on pad.
func (g *Group) IsControlReleased(pad int, fn func(*Prompt)) bool {
	return g.match(func(p *Prompt) bool { return p.IsControlReleased(pad) }, fn)
}

// IsControlJustPressed reports whether any member had a control pressed this tick on pad.
func (g *Group) IsControlJustPressed(pad int, fn func(*Prompt)) bool {
	return g.match(func(p *Prompt) bool { return p.IsControlJustPressed(pad) }, fn)
}

// IsControlJustReleased reports whether any member had a control released this tick on pad.
func (g *Group) IsControlJustReleased(pad int, fn func(*Prompt)) bool {
	return g.match(func(p *Prompt) bool { return p.IsControlJustReleased(pad) }, fn)
}

func (g *Group) match(pred func(*Prompt) bool, fn func(*Prompt)) bool {
	matched := false
	for _, p := range g.Prompts() {
		if p.deleted || !pred(p) {
			continue
		}
		if fn == nil {
			return true
		}
		matched = true
		fn(p)
	}
	return matched
}

// On installs the group handler for kind, replacing any previous one.
// A nil handler removes it. Unknown kinds are ignored.
func (g *Group) On(kind EventKind, h GroupHandler) *Group {
	if kind.Valid() {
		g.handlers[kind] = h
	}
	return g
}

// Handler returns the group handler installed for kind, if any.
func (g *Group) Handler(kind EventKind) GroupHandler {
	if !kind.Valid() {
		return nil
	}
	return g.handlers[kind]
}

// SetOnJustPressed runs h on the tick a member is pressed.
func (g *Group) SetOnJustPressed(h GroupHandler) *Group {
	return g.On(EventJustPressed, h)
}

// SetOnJustReleased runs h on the tick a member is released.
func (g *Group) SetOnJustReleased(h GroupHandler) *Group {
	return g.On(EventJustReleased, h)
}

// SetOnPressed runs h every tick a member is held.
func (g *Group) SetOnPressed(h GroupHandler) *Group {
	return g.On(EventPressed, h)
}

// SetOnReleased runs h every tick a member is not held.
func (g *Group) SetOnReleased(h GroupHandler) *Group {
	return g.On(EventReleased, h)
}

// SetOnHoldModeRunning runs h every tick a member hold is in progress.
func (g *Group) SetOnHoldModeRunning(h GroupHandler) *Group {
	return g.On(EventHoldModeRunning, h)
}

// SetOnHoldModeCompleted runs h while a member hold has completed.
func (g *Group) SetOnHoldModeCompleted(h GroupHandler) *Group {
	return g.On(EventHoldModeCompleted, h)
}

// SetOnControlPressed runs h every tick a member control is held on the registry pad.
func (g *Group) SetOnControlPressed(h GroupHandler) *Group {
	return g.On(EventControlPressed, h)
}

// SetOnControlReleased runs h every tick a member control is released on the registry pad.
func (g *Group) SetOnControlReleased(h GroupHandler) *Group {
	return g.On(EventControlReleased, h)
}

// SetOnControlJustPressed runs h on the tick a member control is pressed on the registry pad.
func (g *Group) SetOnControlJustPressed(h GroupHandler) *Group {
	return g.On(EventControlJustPressed, h)
}

// SetOnControlJustReleased runs h on the tick a member control is released on the registry pad.
func (g *Group) SetOnControlJustReleased(h GroupHandler) *Group {
	return g.On(EventControlJustReleased, h)
}

// HandleEvents dispatches this tick's events for every member in order.
// For each member the group handlers run first, then the member's own
// HandleEvents. Call it exactly once per tick.
func (g *Group) HandleEvents(data any) {
	for _, p := range g.Prompts() {
		if p.deleted {
			continue
		}
		g.dispatch(p, data)
		if g.deleted {
			return
		}
		if p.deleted {
			continue
		}
		p.HandleEvents(data)
		if g.deleted {
			return
		}
	}
}

// dispatch fires the group handlers for one member.
func (g *Group) dispatch(p *Prompt, data any) {
	enabledChecked, enabled := false, false

	for kind := EventKind(0); kind < numEventKinds; kind++ {
		h := g.handlers[kind]
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
			h(g, p, data)
			if g.deleted || p.deleted {
				return
			}
		}
	}
}

// Delete removes the group from the registry and deletes every member prompt.
// The group must not be used afterwards.
func (g *Group) Delete() {
	if g.deleted {
		return
	}
	g.registry.RemoveGroup(g)

	members := g.prompts
	g.prompts = nil
	for _, p := range members {
		if !p.deleted {
			p.release()
		}
	}
	g.deleted = true
}

func (g *Group) removePrompt(p *Prompt) {
	for i, m := range g.prompts {
		if m == p {
			g.prompts = append(g.prompts[:i:i], g.prompts[i+1:]...)
			return
		}
	}
}
