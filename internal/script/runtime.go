// Package script runs Lua consumer scripts against the prompt API.
//
// Each script is a resource with its own sandboxed Lua state, prompt
// registry and host threads. Scripts see these globals:
//
//	Prompt.new(controls, text [, enabled])
//	PromptGroup.new(text [, active])
//	PromptManager.startEventThread()
//	Citizen.CreateThread(fn), Citizen.Wait(ms)  (also CreateThread, Wait)
//	GetCurrentResourceName()
//	Controls  (control name to numeric value)
//	print     (goes to the resource log)
//
// A runtime is driven from the host's tick goroutine only. Lua threads are
// coroutines resumed once per host iteration; Wait is their only
// suspension point.
package script

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/promptkit/internal/host"
	"github.com/dshills/promptkit/internal/prompt"
	"github.com/dshills/promptkit/internal/widget"
)

// Host is the scheduler a runtime runs on.
type Host interface {
	prompt.ThreadScheduler
	prompt.StopNotifier
}

// Runtime is one running script resource.
type Runtime struct {
	name     string
	host     Host
	registry *prompt.Registry
	logger   *zap.Logger

	L   *lua.LState
	cur *lua.LState

	prompts map[*prompt.Prompt]*lua.LUserData
	groups  map[*prompt.Group]*lua.LUserData

	handlerDepth int
	threads      int
	closed       bool

	unsubscribe func()
}

// Option configures a Runtime.
type Option func(*config)

type config struct {
	logger *zap.Logger
	pad    int
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPad sets the pad used for prompt control events.
func WithPad(pad int) Option {
	return func(c *config) {
		c.pad = pad
	}
}

// New creates a runtime for the named resource. The registry is subscribed to
// the host's stop notifications, so stopping the resource drains it.
func New(name string, h Host, b widget.Binding, opts ...Option) (*Runtime, error) {
	if h == nil {
		return nil, ErrNilHost
	}
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With(zap.String("resource", name))

	reg, err := prompt.NewRegistry(b,
		prompt.WithResourceName(name),
		prompt.WithLogger(cfg.logger),
		prompt.WithPad(cfg.pad),
	)
	if err != nil {
		return nil, err
	}
	reg.AttachShutdown(h)

	rt := &Runtime{
		name:     name,
		host:     h,
		registry: reg,
		logger:   logger,
		prompts:  make(map[*prompt.Prompt]*lua.LUserData),
		groups:   make(map[*prompt.Group]*lua.LUserData),
	}
	rt.L = newState(logger.Named("lua"))
	rt.cur = rt.L
	rt.install()

	// The host ends a stopped resource's threads without resuming them.
	rt.unsubscribe = h.OnResourceStop(func(stopped string) {
		if stopped == name {
			rt.threads = 0
		}
	})
	return rt, nil
}

// Name returns the resource name.
func (rt *Runtime) Name() string {
	return rt.name
}

// Registry returns the resource's prompt registry.
func (rt *Runtime) Registry() *prompt.Registry {
	return rt.registry
}

// Threads returns the number of Lua threads still running.
func (rt *Runtime) Threads() int {
	return rt.threads
}

// DoString runs a chunk of Lua source.
func (rt *Runtime) DoString(src string) error {
	if rt.closed {
		return ErrClosed
	}
	if err := protect(func() error { return rt.L.DoString(src) }); err != nil {
		return &Error{Resource: rt.name, Err: err}
	}
	return nil
}

// DoFile runs a Lua file.
func (rt *Runtime) DoFile(path string) error {
	if rt.closed {
		return ErrClosed
	}
	if err := protect(func() error { return rt.L.DoFile(path) }); err != nil {
		return &Error{Resource: rt.name, Err: err}
	}
	rt.logger.Debug("script loaded", zap.String("path", path))
	return nil
}

// Close releases the Lua state. Threads still scheduled end on their next
// resume. Prompts are released by stopping the resource on the host, not here.
func (rt *Runtime) Close() {
	if rt.closed {
		return
	}
	rt.closed = true
	rt.unsubscribe()
	rt.L.Close()
	clear(rt.prompts)
	clear(rt.groups)
}

// createThread schedules fn as a coroutine on the host.
func (rt *Runtime) createThread(fn *lua.LFunction) {
	co, cancel := rt.L.NewThread()
	rt.threads++

	finish := func() {
		rt.threads--
		if cancel != nil {
			cancel()
		}
	}

	rt.host.CreateThread(rt.name, func(host.Tick) (time.Duration, error) {
		if rt.closed {
			finish()
			return 0, host.ErrThreadDone
		}

		prev := rt.cur
		rt.cur = co
		var (
			st     lua.ResumeState
			err    error
			values []lua.LValue
		)
		perr := protect(func() error {
			st, err, values = rt.L.Resume(co, fn)
			return nil
		})
		rt.cur = prev

		if perr != nil {
			err, st = perr, lua.ResumeError
		}
		switch st {
		case lua.ResumeError:
			finish()
			return 0, &Error{Resource: rt.name, Err: err}
		case lua.ResumeOK:
			finish()
			return 0, host.ErrThreadDone
		}
		return waitDuration(values), nil
	})
}

// waitDuration reads the milliseconds passed to Wait.
func waitDuration(values []lua.LValue) time.Duration {
	if len(values) == 0 {
		return 0
	}
	ms, ok := values[0].(lua.LNumber)
	if !ok || ms <= 0 {
		return 0
	}
	return time.Duration(float64(ms) * float64(time.Millisecond))
}

// call runs a Lua callback on the current Lua thread. Errors are logged and
// do not stop dispatch.
func (rt *Runtime) call(fn *lua.LFunction, args ...lua.LValue) {
	if rt.closed {
		return
	}
	rt.handlerDepth++
	defer func() { rt.handlerDepth-- }()

	err := protect(func() error {
		return rt.cur.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	})
	if err != nil {
		rt.logger.Error("lua callback failed", zap.Error(&Error{Resource: rt.name, Err: err}))
	}
}
