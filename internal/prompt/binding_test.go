package prompt

import (
	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget"
)

// fakeState holds the raw flags reported for one handle.
type fakeState struct {
	controls []control.Control
	text     string
	group    widget.GroupID

	enabled, visible, hold bool

	active, pressed, released, justPressed, justReleased bool
	holdRunning, holdCompleted                           bool
}

type padKey struct {
	pad int
	c   control.Control
}

// fakeBinding implements widget.Binding with directly settable flags and
// per-handle query counters.
type fakeBinding struct {
	next    widget.Handle
	prompts map[widget.Handle]*fakeState
	deleted []widget.Handle

	ctrlPressed      map[padKey]bool
	ctrlJustPressed  map[padKey]bool
	ctrlJustReleased map[padKey]bool
	ctrlDisabled     map[padKey]bool

	activeGroup widget.GroupID
	activeText  string
	activeCalls int

	queries map[widget.Handle]int
}

func newFakeBinding() *fakeBinding {
	return &fakeBinding{
		next:             1,
		prompts:          make(map[widget.Handle]*fakeState),
		ctrlPressed:      make(map[padKey]bool),
		ctrlJustPressed:  make(map[padKey]bool),
		ctrlJustReleased: make(map[padKey]bool),
		ctrlDisabled:     make(map[padKey]bool),
		queries:          make(map[widget.Handle]int),
	}
}

func (b *fakeBinding) state(h widget.Handle) *fakeState {
	b.queries[h]++
	if s := b.prompts[h]; s != nil {
		return s
	}
	return &fakeState{}
}

func (b *fakeBinding) CreatePrompt() widget.Handle {
	h := b.next
	b.next++
	b.prompts[h] = &fakeState{enabled: true, visible: true}
	return h
}

func (b *fakeBinding) DeletePrompt(h widget.Handle) {
	delete(b.prompts, h)
	b.deleted = append(b.deleted, h)
}

func (b *fakeBinding) SetControlAction(h widget.Handle, c control.Control) {
	b.prompts[h].controls = append(b.prompts[h].controls, c)
}

func (b *fakeBinding) SetText(h widget.Handle, text string)             { b.prompts[h].text = text }
func (b *fakeBinding) SetGroup(h widget.Handle, group widget.GroupID)   { b.prompts[h].group = group }
func (b *fakeBinding) SetEnabled(h widget.Handle, enabled bool)         { b.prompts[h].enabled = enabled }
func (b *fakeBinding) SetVisible(h widget.Handle, visible bool)         { b.prompts[h].visible = visible }
func (b *fakeBinding) SetHoldMode(h widget.Handle, hold bool)           { b.prompts[h].hold = hold }
func (b *fakeBinding) IsActive(h widget.Handle) bool                    { return b.state(h).active }
func (b *fakeBinding) IsEnabled(h widget.Handle) bool                   { return b.state(h).enabled }
func (b *fakeBinding) IsPressed(h widget.Handle) bool                   { return b.state(h).pressed }
func (b *fakeBinding) IsReleased(h widget.Handle) bool                  { return b.state(h).released }
func (b *fakeBinding) IsJustPressed(h widget.Handle) bool               { return b.state(h).justPressed }
func (b *fakeBinding) IsJustReleased(h widget.Handle) bool              { return b.state(h).justReleased }
func (b *fakeBinding) HasHoldMode(h widget.Handle) bool                 { return b.state(h).hold }
func (b *fakeBinding) IsHoldModeRunning(h widget.Handle) bool           { return b.state(h).holdRunning }
func (b *fakeBinding) HasHoldModeCompleted(h widget.Handle) bool        { return b.state(h).holdCompleted }
func (b *fakeBinding) IsControlEnabled(pad int, c control.Control) bool { return !b.ctrlDisabled[padKey{pad, c}] }
func (b *fakeBinding) IsControlPressed(pad int, c control.Control) bool { return b.ctrlPressed[padKey{pad, c}] }

func (b *fakeBinding) IsValid(h widget.Handle) bool {
	_, ok := b.prompts[h]
	return ok
}

func (b *fakeBinding) IsControlReleased(pad int, c control.Control) bool {
	return !b.ctrlPressed[padKey{pad, c}]
}

func (b *fakeBinding) IsControlJustPressed(pad int, c control.Control) bool {
	return b.ctrlJustPressed[padKey{pad, c}]
}

func (b *fakeBinding) IsControlJustReleased(pad int, c control.Control) bool {
	return b.ctrlJustReleased[padKey{pad, c}]
}

func (b *fakeBinding) SetActiveGroupThisFrame(group widget.GroupID, text string) {
	b.activeGroup = group
	b.activeText = text
	b.activeCalls++
}

var _ widget.Binding = (*fakeBinding)(nil)
