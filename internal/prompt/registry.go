package prompt

import (
	"time"

	"go.uber.org/zap"

	"github.com/dshills/promptkit/internal/host"
	"github.com/dshills/promptkit/internal/widget"
)

// ThreadScheduler runs per-tick threads.
type ThreadScheduler interface {
	CreateThread(owner string, fn host.ThreadFunc) host.ThreadID
	KillThread(id host.ThreadID)
}

// StopNotifier delivers resource stop notifications.
type StopNotifier interface {
	OnResourceStop(fn func(name string)) (unsubscribe func())
}

// Registry tracks the standalone prompts and the groups of one resource and
// drives their per-tick dispatch.
//
// Membership is by identity: each prompt or group appears at most once, and
// adding or removing twice is a no-op. Prompts owned by a group are never
// tracked here.
type Registry struct {
	binding  widget.Binding
	resource string
	pad      int
	logger   *zap.Logger

	prompts orderedSet[*Prompt]
	groups  orderedSet[*Group]

	scheduler   ThreadScheduler
	thread      host.ThreadID
	unsubscribe func()
}

// Option configures a Registry.
type Option func(*Registry)

// WithResourceName sets the owning resource. Stop notifications for other
// resources are ignored.
func WithResourceName(name string) Option {
	return func(r *Registry) {
		r.resource = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPad sets the pad used when dispatching control events.
func WithPad(pad int) Option {
	return func(r *Registry) {
		if pad >= 0 {
			r.pad = pad
		}
	}
}

// NewRegistry creates an empty registry on top of a widget binding.
func NewRegistry(b widget.Binding, opts ...Option) (*Registry, error) {
	if b == nil {
		return nil, ErrNilBinding
	}

	r := &Registry{
		binding: b,
		logger:  zap.NewNop(),
		prompts: newOrderedSet[*Prompt](),
		groups:  newOrderedSet[*Group](),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("resource", r.resource))
	return r, nil
}

// ResourceName returns the owning resource name.
func (r *Registry) ResourceName() string {
	return r.resource
}

// Pad returns the pad used for control events.
func (r *Registry) Pad() int {
	return r.pad
}

// Binding returns the widget binding.
func (r *Registry) Binding() widget.Binding {
	return r.binding
}

// NewPrompt creates a standalone prompt and registers it.
func (r *Registry) NewPrompt(controls any, text string, opts ...PromptOption) (*Prompt, error) {
	p, err := newPrompt(r, controls, text, nil, opts)
	if err != nil {
		return nil, err
	}
	r.AddPrompt(p)
	return p, nil
}

// NewGroup creates a group and registers it.
func (r *Registry) NewGroup(text string, active bool) *Group {
	g := &Group{
		registry: r,
		binding:  r.binding,
		id:       r.nextGroupID(),
		text:     text,
		active:   active,
	}
	r.AddGroup(g)
	return g
}

// AddPrompt registers a standalone prompt.
// Prompts owned by a group are rejected silently.
func (r *Registry) AddPrompt(p *Prompt) {
	if p == nil || p.group != nil {
		return
	}
	if r.prompts.add(p) {
		r.logger.Debug("prompt registered", zap.Int32("handle", int32(p.handle)), zap.String("text", p.text))
	}
}

// RemovePrompt unregisters a prompt. Removing an unknown prompt is a no-op.
func (r *Registry) RemovePrompt(p *Prompt) {
	if r.prompts.remove(p) {
		r.logger.Debug("prompt removed", zap.Int32("handle", int32(p.handle)))
	}
}

// AddGroup registers a group.
func (r *Registry) AddGroup(g *Group) {
	if g == nil {
		return
	}
	if r.groups.add(g) {
		r.logger.Debug("group registered", zap.Int32("group", int32(g.id)), zap.String("text", g.text))
	}
}

// RemoveGroup unregisters a group. Removing an unknown group is a no-op.
func (r *Registry) RemoveGroup(g *Group) {
	if r.groups.remove(g) {
		r.logger.Debug("group removed", zap.Int32("group", int32(g.id)))
	}
}

// HasPrompt reports whether p is registered as a standalone prompt.
func (r *Registry) HasPrompt(p *Prompt) bool {
	return r.prompts.has(p)
}

// HasGroup reports whether g is registered.
func (r *Registry) HasGroup(g *Group) bool {
	return r.groups.has(g)
}

// Prompts returns the standalone prompts in registration order.
func (r *Registry) Prompts() []*Prompt {
	return r.prompts.snapshot()
}

// Len returns the number of standalone prompts and groups.
func (r *Registry) Len() (prompts, groups int) {
	return r.prompts.len(), r.groups.len()
}

// Groups returns the groups in registration order.
func (r *Registry) Groups() []*Group {
	return r.groups.snapshot()
}

// Sweep runs one dispatch pass: every active group is displayed for this tick
// and handles its events, then every standalone prompt handles its events.
// Entries deleted during the pass are skipped.
func (r *Registry) Sweep(data any) {
	for _, g := range r.groups.snapshot() {
		if !r.groups.has(g) || !g.IsActive() {
			continue
		}
		g.SetActiveThisFrame()
		g.HandleEvents(data)
	}

	for _, p := range r.prompts.snapshot() {
		if !r.prompts.has(p) {
			continue
		}
		p.HandleEvents(data)
	}
}

// StartEventThread runs Sweep once per tick on s.
// Calling it again while the thread is registered has no effect.
// Shutdown ends the thread.
func (r *Registry) StartEventThread(s ThreadScheduler) host.ThreadID {
	if r.scheduler != nil {
		return r.thread
	}
	r.scheduler = s
	r.thread = s.CreateThread(r.resource, func(host.Tick) (time.Duration, error) {
		r.Sweep(nil)
		return 0, nil
	})
	r.logger.Debug("event thread started", zap.Uint64("thread", uint64(r.thread)))
	return r.thread
}

// AttachShutdown subscribes the registry to resource stop notifications.
// The subscription ends once the registry's own resource stops.
func (r *Registry) AttachShutdown(n StopNotifier) {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.unsubscribe = n.OnResourceStop(r.HandleResourceStop)
}

// HandleResourceStop drains the registry when name is its own resource.
func (r *Registry) HandleResourceStop(name string) {
	if name != r.resource {
		return
	}
	r.Shutdown()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// Shutdown deletes every registered group, cascading to its prompts, and
// every standalone prompt, then ends the event thread.
func (r *Registry) Shutdown() {
	groups := r.groups.snapshot()
	prompts := r.prompts.snapshot()

	for _, g := range groups {
		g.Delete()
	}
	for _, p := range prompts {
		p.Delete()
	}
	r.stopEventThread()

	r.logger.Info("prompt registry drained",
		zap.Int("groups", len(groups)),
		zap.Int("prompts", len(prompts)),
	)
}

func (r *Registry) stopEventThread() {
	if r.scheduler == nil {
		return
	}
	r.scheduler.KillThread(r.thread)
	r.logger.Debug("event thread stopped", zap.Uint64("thread", uint64(r.thread)))
	r.scheduler = nil
	r.thread = 0
}

// nextGroupID draws a random id not used by a live group of this registry.
func (r *Registry) nextGroupID() widget.GroupID {
	for {
		id := newGroupID()
		taken := false
		for _, g := range r.groups.items {
			if g.id == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}
