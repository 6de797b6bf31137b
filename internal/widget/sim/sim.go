// Package sim provides an in-memory, frame-quantized widget binding.
//
// The binding keeps the same per-frame semantics as the native widget layer:
// level states (pressed, released) hold for as long as the input does, edge
// states (just pressed, just released) hold for exactly one frame, and the
// active group slot must be refilled every frame.
//
// A frame starts with BeginFrame. Input arriving through Press and Release
// during a frame is compared against the state captured by the last
// BeginFrame to produce edges.
package sim

import (
	"sort"

	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget"
)

// PlayerPad is the default pad prompts read their controls from.
const PlayerPad = 0

// DefaultHoldFrames is the number of held frames a hold-mode prompt needs to complete.
const DefaultHoldFrames = 30

// PromptInfo is a snapshot of one native prompt.
type PromptInfo struct {
	Handle       widget.Handle
	Controls     []control.Control
	Text         string
	Group        widget.GroupID
	Enabled      bool
	Visible      bool
	HoldMode     bool
	HoldProgress int
	HoldFrames   int
	Completed    bool
}

type padControl struct {
	pad int
	c   control.Control
}

type promptState struct {
	controls     []control.Control
	text         string
	group        widget.GroupID
	enabled      bool
	visible      bool
	hold         bool
	holdProgress int
	completed    bool
}

// Binding is an in-memory widget.Binding.
type Binding struct {
	holdFrames int
	pad        int

	nextHandle widget.Handle
	prompts    map[widget.Handle]*promptState

	cur      map[padControl]bool
	prev     map[padControl]bool
	disabled map[padControl]bool

	activeGroup widget.GroupID
	activeText  string

	frame uint64
}

// Option configures a Binding.
type Option func(*Binding)

// WithHoldFrames sets how many held frames complete a hold-mode prompt.
func WithHoldFrames(n int) Option {
	return func(b *Binding) {
		if n > 0 {
			b.holdFrames = n
		}
	}
}

// WithPad sets the pad prompt-level predicates read. Negative values are ignored.
func WithPad(pad int) Option {
	return func(b *Binding) {
		if pad >= 0 {
			b.pad = pad
		}
	}
}

// New creates an empty binding.
func New(opts ...Option) *Binding {
	b := &Binding{
		holdFrames: DefaultHoldFrames,
		pad:        PlayerPad,
		nextHandle: 1,
		prompts:    make(map[widget.Handle]*promptState),
		cur:        make(map[padControl]bool),
		prev:       make(map[padControl]bool),
		disabled:   make(map[padControl]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BeginFrame starts a new frame.
// Hold progress advances for prompts held through the previous frame, the
// control state becomes the edge baseline and the active group slot is cleared.
func (b *Binding) BeginFrame() {
	for _, p := range b.prompts {
		if !p.hold {
			continue
		}
		if b.pressed(p) {
			if p.holdProgress < b.holdFrames {
				p.holdProgress++
			}
			if p.holdProgress >= b.holdFrames {
				p.completed = true
			}
		} else {
			p.holdProgress = 0
			p.completed = false
		}
	}

	b.prev = make(map[padControl]bool, len(b.cur))
	for k, v := range b.cur {
		if v {
			b.prev[k] = true
		}
	}

	b.activeGroup = widget.NoGroup
	b.activeText = ""
	b.frame++
}

// Frame returns the number of frames begun so far.
func (b *Binding) Frame() uint64 {
	return b.frame
}

// Press marks a control as held on a pad.
func (b *Binding) Press(pad int, c control.Control) {
	b.cur[padControl{pad, c}] = true
}

// Release marks a control as not held on a pad.
func (b *Binding) Release(pad int, c control.Control) {
	delete(b.cur, padControl{pad, c})
}

// DisableControl deactivates a control action for a pad.
func (b *Binding) DisableControl(pad int, c control.Control) {
	b.disabled[padControl{pad, c}] = true
}

// EnableControl reactivates a control action for a pad.
func (b *Binding) EnableControl(pad int, c control.Control) {
	delete(b.disabled, padControl{pad, c})
}

// CreatePrompt implements widget.Binding.
func (b *Binding) CreatePrompt() widget.Handle {
	h := b.nextHandle
	b.nextHandle++
	b.prompts[h] = &promptState{enabled: true, visible: true}
	return h
}

// DeletePrompt implements widget.Binding.
func (b *Binding) DeletePrompt(h widget.Handle) {
	delete(b.prompts, h)
}

// SetControlAction implements widget.Binding.
func (b *Binding) SetControlAction(h widget.Handle, c control.Control) {
	if p := b.prompts[h]; p != nil {
		p.controls = append(p.controls, c)
	}
}

// SetText implements widget.Binding.
func (b *Binding) SetText(h widget.Handle, text string) {
	if p := b.prompts[h]; p != nil {
		p.text = text
	}
}

// SetGroup implements widget.Binding.
func (b *Binding) SetGroup(h widget.Handle, group widget.GroupID) {
	if p := b.prompts[h]; p != nil {
		p.group = group
	}
}

// SetEnabled implements widget.Binding.
func (b *Binding) SetEnabled(h widget.Handle, enabled bool) {
	if p := b.prompts[h]; p != nil {
		p.enabled = enabled
	}
}

// SetVisible implements widget.Binding.
func (b *Binding) SetVisible(h widget.Handle, visible bool) {
	if p := b.prompts[h]; p != nil {
		p.visible = visible
	}
}

// SetHoldMode implements widget.Binding.
func (b *Binding) SetHoldMode(h widget.Handle, hold bool) {
	if p := b.prompts[h]; p != nil {
		p.hold = hold
		if !hold {
			p.holdProgress = 0
			p.completed = false
		}
	}
}

// SetActiveGroupThisFrame implements widget.Binding.
func (b *Binding) SetActiveGroupThisFrame(group widget.GroupID, text string) {
	b.activeGroup = group
	b.activeText = text
}

// ActiveGroup returns the group displayed this frame.
func (b *Binding) ActiveGroup() (widget.GroupID, string) {
	return b.activeGroup, b.activeText
}

// IsActive implements widget.Binding.
// A prompt is active when it is visible and either ungrouped or in the group
// displayed this frame.
func (b *Binding) IsActive(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && b.active(p)
}

// IsEnabled implements widget.Binding.
func (b *Binding) IsEnabled(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && p.enabled
}

// IsValid implements widget.Binding.
func (b *Binding) IsValid(h widget.Handle) bool {
	_, ok := b.prompts[h]
	return ok
}

// IsPressed implements widget.Binding.
func (b *Binding) IsPressed(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && b.pressed(p)
}

// IsReleased implements widget.Binding.
func (b *Binding) IsReleased(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && b.responsive(p) && !b.anyDown(p, b.cur)
}

// IsJustPressed implements widget.Binding.
func (b *Binding) IsJustPressed(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && b.pressed(p) && !b.anyDown(p, b.prev)
}

// IsJustReleased implements widget.Binding.
func (b *Binding) IsJustReleased(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && b.responsive(p) && !b.anyDown(p, b.cur) && b.anyDown(p, b.prev)
}

// HasHoldMode implements widget.Binding.
func (b *Binding) HasHoldMode(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && p.hold
}

// IsHoldModeRunning implements widget.Binding.
func (b *Binding) IsHoldModeRunning(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && p.hold && !p.completed && b.pressed(p)
}

// HasHoldModeCompleted implements widget.Binding.
func (b *Binding) HasHoldModeCompleted(h widget.Handle) bool {
	p := b.prompts[h]
	return p != nil && p.hold && p.completed
}

// IsControlEnabled implements widget.Binding.
func (b *Binding) IsControlEnabled(pad int, c control.Control) bool {
	return !b.disabled[padControl{pad, c}]
}

// IsControlPressed implements widget.Binding.
func (b *Binding) IsControlPressed(pad int, c control.Control) bool {
	return b.cur[padControl{pad, c}]
}

// IsControlReleased implements widget.Binding.
func (b *Binding) IsControlReleased(pad int, c control.Control) bool {
	return !b.cur[padControl{pad, c}]
}

// IsControlJustPressed implements widget.Binding.
func (b *Binding) IsControlJustPressed(pad int, c control.Control) bool {
	k := padControl{pad, c}
	return b.cur[k] && !b.prev[k]
}

// IsControlJustReleased implements widget.Binding.
func (b *Binding) IsControlJustReleased(pad int, c control.Control) bool {
	k := padControl{pad, c}
	return !b.cur[k] && b.prev[k]
}

// Prompt returns a snapshot of one prompt.
func (b *Binding) Prompt(h widget.Handle) (PromptInfo, bool) {
	p := b.prompts[h]
	if p == nil {
		return PromptInfo{}, false
	}
	return b.info(h, p), true
}

// Prompts returns snapshots of all prompts ordered by handle.
func (b *Binding) Prompts() []PromptInfo {
	handles := b.Handles()
	infos := make([]PromptInfo, 0, len(handles))
	for _, h := range handles {
		infos = append(infos, b.info(h, b.prompts[h]))
	}
	return infos
}

// Handles returns the live handles in ascending order.
func (b *Binding) Handles() []widget.Handle {
	handles := make([]widget.Handle, 0, len(b.prompts))
	for h := range b.prompts {
		handles = append(handles, h)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })
	return handles
}

// Count returns the number of live prompts.
func (b *Binding) Count() int {
	return len(b.prompts)
}

func (b *Binding) info(h widget.Handle, p *promptState) PromptInfo {
	controls := make([]control.Control, len(p.controls))
	copy(controls, p.controls)
	return PromptInfo{
		Handle:       h,
		Controls:     controls,
		Text:         p.text,
		Group:        p.group,
		Enabled:      p.enabled,
		Visible:      p.visible,
		HoldMode:     p.hold,
		HoldProgress: p.holdProgress,
		HoldFrames:   b.holdFrames,
		Completed:    p.completed,
	}
}

func (b *Binding) active(p *promptState) bool {
	if !p.visible {
		return false
	}
	return p.group == widget.NoGroup || p.group == b.activeGroup
}

// Pad returns the pad prompts read their controls from.
func (b *Binding) Pad() int {
	return b.pad
}

// responsive reports whether the prompt can currently react to input.
func (b *Binding) responsive(p *promptState) bool {
	return p.enabled && b.active(p)
}

func (b *Binding) pressed(p *promptState) bool {
	return b.responsive(p) && b.anyDown(p, b.cur)
}

func (b *Binding) anyDown(p *promptState, state map[padControl]bool) bool {
	for _, c := range p.controls {
		if state[padControl{b.pad, c}] {
			return true
		}
	}
	return false
}

var _ widget.Binding = (*Binding)(nil)
