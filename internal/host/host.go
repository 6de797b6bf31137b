// Package host provides the tick scheduler that drives prompts.
//
// A Host runs on a single goroutine. Every tick it:
//
//  1. runs work queued with Post
//  2. calls the begin-frame hooks
//  3. resumes every thread whose suspension has elapsed, in creation order
//  4. calls the end-frame hooks
//
// Threads are plain functions resumed once per iteration; the duration they
// return is how long they stay suspended. This mirrors a cooperative
// scheduler where a thread yields once per pass.
//
// Only Post is safe to call from other goroutines. Everything else, including
// StopResource, must run on the tick goroutine (inside a thread, a hook, or
// posted work) or while the host is not running.
package host

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultTickRate is the default number of ticks per second.
const DefaultTickRate = 60

// Tick describes one scheduler iteration.
type Tick struct {
	// Frame counts ticks from zero.
	Frame uint64

	// Now is the time the tick started.
	Now time.Time

	// Delta is the time since the previous tick (zero for the first).
	Delta time.Duration
}

// ThreadID identifies a thread.
type ThreadID uint64

// ThreadFunc runs one iteration of a thread.
// It returns how long to suspend before the next iteration; zero means the
// next tick. Returning ErrThreadDone ends the thread quietly, any other error
// ends it and is logged.
type ThreadFunc func(t Tick) (time.Duration, error)

type thread struct {
	id    ThreadID
	owner string
	fn    ThreadFunc
	wake  time.Time
	dead  bool
}

type stopListener struct {
	id uint64
	fn func(name string)
}

// Host is the tick scheduler.
type Host struct {
	tickRate int
	logger   *zap.Logger

	postMu sync.Mutex
	posted []func()

	threads []*thread
	nextID  ThreadID

	beginHooks []func(Tick)
	endHooks   []func(Tick)

	listeners  []stopListener
	nextListen uint64

	frame uint64
	last  time.Time

	running atomic.Bool
}

// Option configures a Host.
type Option func(*Host)

// WithTickRate sets the number of ticks per second used by Run.
func WithTickRate(n int) Option {
	return func(h *Host) {
		h.tickRate = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a host.
func New(opts ...Option) (*Host, error) {
	h := &Host{
		tickRate: DefaultTickRate,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.tickRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTickRate, h.tickRate)
	}
	return h, nil
}

// TickRate returns the ticks per second used by Run.
func (h *Host) TickRate() int {
	return h.tickRate
}

// Frame returns the number of completed ticks.
func (h *Host) Frame() uint64 {
	return h.frame
}

// Post queues fn to run at the start of the next tick.
// It is safe to call from any goroutine.
func (h *Host) Post(fn func()) {
	if fn == nil {
		return
	}
	h.postMu.Lock()
	h.posted = append(h.posted, fn)
	h.postMu.Unlock()
}

// OnBeginFrame registers a hook called at the start of every tick, before threads run.
func (h *Host) OnBeginFrame(fn func(Tick)) {
	h.beginHooks = append(h.beginHooks, fn)
}

// OnEndFrame registers a hook called at the end of every tick, after threads run.
func (h *Host) OnEndFrame(fn func(Tick)) {
	h.endHooks = append(h.endHooks, fn)
}

// CreateThread starts a thread owned by a resource. The thread first runs on
// the next tick.
func (h *Host) CreateThread(owner string, fn ThreadFunc) ThreadID {
	h.nextID++
	th := &thread{id: h.nextID, owner: owner, fn: fn}
	h.threads = append(h.threads, th)
	h.logger.Debug("thread created", zap.Uint64("thread", uint64(th.id)), zap.String("owner", owner))
	return th.id
}

// KillThread ends a thread. Unknown ids are ignored.
func (h *Host) KillThread(id ThreadID) {
	for _, th := range h.threads {
		if th.id == id {
			th.dead = true
		}
	}
}

// ThreadCount returns the number of live threads owned by owner.
// An empty owner counts every thread.
func (h *Host) ThreadCount(owner string) int {
	n := 0
	for _, th := range h.threads {
		if th.dead {
			continue
		}
		if owner == "" || th.owner == owner {
			n++
		}
	}
	return n
}

// OnResourceStop registers a listener for resource stop notifications.
// The returned function unregisters it.
func (h *Host) OnResourceStop(fn func(name string)) func() {
	h.nextListen++
	id := h.nextListen
	h.listeners = append(h.listeners, stopListener{id: id, fn: fn})

	return func() {
		for i, l := range h.listeners {
			if l.id == id {
				h.listeners = append(h.listeners[:i:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

// StopResource notifies every listener that the named resource is stopping,
// then ends every thread it owns.
func (h *Host) StopResource(name string) {
	h.logger.Info("stopping resource", zap.String("resource", name))

	listeners := make([]stopListener, len(h.listeners))
	copy(listeners, h.listeners)
	for _, l := range listeners {
		h.safeCall("resource stop listener", func() { l.fn(name) })
	}

	for _, th := range h.threads {
		if th.owner == name {
			th.dead = true
		}
	}
}

// Run ticks at the configured rate until ctx is cancelled.
func (h *Host) Run(ctx context.Context) error {
	if !h.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer h.running.Store(false)

	ticker := time.NewTicker(time.Second / time.Duration(h.tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			h.Step(now)
		}
	}
}

// IsRunning reports whether Run is active.
func (h *Host) IsRunning() bool {
	return h.running.Load()
}

// Step runs a single tick at now.
func (h *Host) Step(now time.Time) {
	h.drainPosted()

	t := Tick{Frame: h.frame, Now: now}
	if !h.last.IsZero() {
		t.Delta = now.Sub(h.last)
	}
	h.last = now

	for _, fn := range h.beginHooks {
		h.safeCall("begin frame hook", func() { fn(t) })
	}

	// Threads created during this pass start next tick.
	pass := make([]*thread, len(h.threads))
	copy(pass, h.threads)
	for _, th := range pass {
		if th.dead || now.Before(th.wake) {
			continue
		}
		h.resume(th, t)
	}

	for _, fn := range h.endHooks {
		h.safeCall("end frame hook", func() { fn(t) })
	}

	h.compact()
	h.frame++
}

func (h *Host) resume(th *thread, t Tick) {
	wait, err := h.runThread(th, t)
	if th.dead {
		return
	}
	if err != nil {
		th.dead = true
		if !errors.Is(err, ErrThreadDone) {
			h.logger.Error("thread ended with error",
				zap.Uint64("thread", uint64(th.id)),
				zap.String("owner", th.owner),
				zap.Error(&ThreadError{ID: th.id, Owner: th.owner, Err: err}),
			)
		}
		return
	}
	if wait > 0 {
		th.wake = t.Now.Add(wait)
	} else {
		th.wake = time.Time{}
	}
}

func (h *Host) runThread(th *thread, t Tick) (wait time.Duration, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrThreadPanic, r, debug.Stack())
		}
	}()
	return th.fn(t)
}

func (h *Host) drainPosted() {
	h.postMu.Lock()
	work := h.posted
	h.posted = nil
	h.postMu.Unlock()

	for _, fn := range work {
		h.safeCall("posted work", fn)
	}
}

// safeCall runs fn, logging a panic instead of propagating it.
func (h *Host) safeCall(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("recovered panic",
				zap.String("in", what),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()
	fn()
}

func (h *Host) compact() {
	live := h.threads[:0]
	for _, th := range h.threads {
		if !th.dead {
			live = append(live, th)
		}
	}
	for i := len(live); i < len(h.threads); i++ {
		h.threads[i] = nil
	}
	h.threads = live
}
