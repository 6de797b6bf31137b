// Package terminal provides a widget binding that draws prompts on a
// terminal and turns key presses into control input.
//
// Prompt state lives in an embedded sim.Binding, so the frame semantics are
// exactly those of the simulated binding. Terminal input arrives on a poll
// goroutine and is queued; BeginFrame applies it on the tick goroutine.
//
// Terminals report key presses but not key releases. A control stays down
// until no repeat of its key has been seen for the release delay.
package terminal

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget/sim"
)

// DefaultReleaseAfter is the default release delay.
const DefaultReleaseAfter = 150 * time.Millisecond

// Binding is a tcell-backed widget.Binding.
type Binding struct {
	*sim.Binding

	screen       tcell.Screen
	keymap       *Keymap
	releaseAfter time.Duration
	holdFrames   int
	pad          int
	onQuit       func()
	logger       *zap.Logger

	mu      sync.Mutex
	pending []control.Control
	resized bool

	held map[control.Control]time.Time

	open bool
	done chan struct{}
}

// Option configures a Binding.
type Option func(*Binding)

// WithScreen sets the screen. The default is the real terminal.
func WithScreen(s tcell.Screen) Option {
	return func(b *Binding) {
		b.screen = s
	}
}

// WithKeymap sets the key to control mapping.
func WithKeymap(km *Keymap) Option {
	return func(b *Binding) {
		if km != nil {
			b.keymap = km
		}
	}
}

// WithReleaseAfter sets how long a control stays down after its last key event.
func WithReleaseAfter(d time.Duration) Option {
	return func(b *Binding) {
		if d > 0 {
			b.releaseAfter = d
		}
	}
}

// WithHoldFrames sets how many held frames complete a hold-mode prompt.
func WithHoldFrames(n int) Option {
	return func(b *Binding) {
		b.holdFrames = n
	}
}

// WithPad sets the pad key presses are applied to.
func WithPad(pad int) Option {
	return func(b *Binding) {
		b.pad = pad
	}
}

// WithQuit sets the function called when Esc or Ctrl+C is pressed.
// It runs on the input goroutine.
func WithQuit(fn func()) Option {
	return func(b *Binding) {
		b.onQuit = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binding) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New creates a terminal binding. The screen is not touched until Open.
func New(opts ...Option) (*Binding, error) {
	b := &Binding{
		releaseAfter: DefaultReleaseAfter,
		logger:       zap.NewNop(),
		held:         make(map[control.Control]time.Time),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.Binding = sim.New(sim.WithHoldFrames(b.holdFrames), sim.WithPad(b.pad))

	if b.keymap == nil {
		km, err := ParseKeymap(DefaultKeymap)
		if err != nil {
			return nil, err
		}
		b.keymap = km
	}
	if b.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, err
		}
		b.screen = s
	}
	return b, nil
}

// Open initializes the screen and starts reading input.
func (b *Binding) Open() error {
	if b.open {
		return nil
	}
	if err := b.screen.Init(); err != nil {
		return err
	}
	b.screen.HideCursor()
	b.screen.Clear()

	b.open = true
	b.done = make(chan struct{})
	go b.poll()

	b.logger.Debug("terminal opened", zap.Int("keys", b.keymap.Len()))
	return nil
}

// Close restores the terminal and waits for the input goroutine to exit.
func (b *Binding) Close() {
	if !b.open {
		return
	}
	b.open = false
	b.screen.Fini()
	<-b.done
}

// Screen returns the underlying screen.
func (b *Binding) Screen() tcell.Screen {
	return b.screen
}

// Keymap returns the key to control mapping.
func (b *Binding) Keymap() *Keymap {
	return b.keymap
}

func (b *Binding) poll() {
	defer close(b.done)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return
		}
		b.HandleEvent(ev)
	}
}

// HandleEvent queues the input carried by a terminal event.
// It is safe to call from any goroutine.
func (b *Binding) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
			if b.onQuit != nil {
				b.onQuit()
			}
			return
		}
		c, ok := b.keymap.Control(KeyOf(e))
		if !ok {
			return
		}
		b.mu.Lock()
		b.pending = append(b.pending, c)
		b.mu.Unlock()

	case *tcell.EventResize:
		b.mu.Lock()
		b.resized = true
		b.mu.Unlock()
	}
}

// BeginFrame starts a frame at now: the simulated frame advances, controls
// whose keys went quiet are released and queued key presses are applied.
func (b *Binding) BeginFrame(now time.Time) {
	b.Binding.BeginFrame()

	b.mu.Lock()
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	for c, seen := range b.held {
		if now.Sub(seen) >= b.releaseAfter {
			b.Release(b.Pad(), c)
			delete(b.held, c)
		}
	}
	for _, c := range pending {
		b.Press(b.Pad(), c)
		b.held[c] = now
	}
}

// Held returns the number of controls currently held down by key input.
func (b *Binding) Held() int {
	return len(b.held)
}
