// Package app wires promptkit together: configuration, logging, the tick
// host, the widget backend and the script resources.
package app

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/promptkit/internal/config"
	"github.com/dshills/promptkit/internal/config/watcher"
	"github.com/dshills/promptkit/internal/host"
	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget"
	"github.com/dshills/promptkit/internal/widget/sim"
	"github.com/dshills/promptkit/internal/widget/terminal"
)

// DefaultTerminalLog is where the terminal backend logs when no log file is
// configured, since stderr shares the screen.
const DefaultTerminalLog = "promptkit.log"

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty uses defaults.
	ConfigPath string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Headless selects the headless backend regardless of configuration.
	Headless bool

	// Scripts are extra resources to load, named after their file stem.
	Scripts []string

	// Logger replaces the configured logger.
	Logger *zap.Logger

	// Screen replaces the real terminal for the terminal backend.
	Screen tcell.Screen
}

// Application owns the host and every running resource.
type Application struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *Metrics

	host    *host.Host
	binding widget.Binding
	term    *terminal.Binding

	watcher *watcher.Watcher

	// Touched only on the tick goroutine, or before Run.
	resources map[string]*resource
	order     []string

	frameBegan time.Time

	running  atomic.Bool
	quit     chan struct{}
	quitOnce sync.Once

	ownLogger bool
}

// New loads configuration and builds the application without starting it.
func New(opts Options) (*Application, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, &InitError{Component: "config", Err: err}
	}

	app := &Application{
		cfg:       cfg,
		logger:    opts.Logger,
		metrics:   NewMetrics(),
		resources: make(map[string]*resource),
		quit:      make(chan struct{}),
	}

	if app.logger == nil {
		lc := cfg.Log
		if cfg.Widget.Backend == config.BackendTerminal && lc.File == "" {
			lc.File = DefaultTerminalLog
		}
		app.logger, err = NewLogger(lc)
		if err != nil {
			return nil, &InitError{Component: "logger", Err: err}
		}
		app.ownLogger = true
	}

	for name, v := range cfg.Controls {
		c, err := control.Parse(v)
		if err == nil {
			err = control.Register(name, c)
		}
		if err != nil {
			return nil, &InitError{Component: "controls", Err: err}
		}
	}

	app.host, err = host.New(
		host.WithTickRate(cfg.Host.TickRate),
		host.WithLogger(app.logger.Named("host")),
	)
	if err != nil {
		return nil, &InitError{Component: "host", Err: err}
	}

	app.host.OnBeginFrame(app.frameStart)
	if err := app.setupBinding(opts.Screen); err != nil {
		return nil, &InitError{Component: "widget", Err: err}
	}
	app.host.OnEndFrame(app.frameEnd)

	return app, nil
}

// loadConfig reads the configuration file, or the defaults, and applies the
// command line overrides.
func loadConfig(opts Options) (*config.Config, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		if err := config.ApplyEnv(cfg, os.LookupEnv); err != nil {
			return nil, err
		}
	}

	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Headless {
		cfg.Widget.Backend = config.BackendHeadless
	}
	for _, path := range opts.Scripts {
		cfg.Resources = append(cfg.Resources, config.Resource{Script: path})
	}
	cfg.Resolve("")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupBinding creates the widget backend and hooks it into the frame.
func (app *Application) setupBinding(screen tcell.Screen) error {
	wc := app.cfg.Widget

	if wc.Backend == config.BackendHeadless {
		b := sim.New(sim.WithHoldFrames(wc.HoldFrames), sim.WithPad(wc.Pad))
		app.host.OnBeginFrame(func(host.Tick) { b.BeginFrame() })
		app.binding = b
		return nil
	}

	opts := []terminal.Option{
		terminal.WithReleaseAfter(wc.ReleaseAfter.Std()),
		terminal.WithHoldFrames(wc.HoldFrames),
		terminal.WithPad(wc.Pad),
		terminal.WithQuit(app.Quit),
		terminal.WithLogger(app.logger.Named("terminal")),
	}
	if len(app.cfg.Keymap) > 0 {
		km, err := terminal.ParseKeymap(app.cfg.Keymap)
		if err != nil {
			return err
		}
		opts = append(opts, terminal.WithKeymap(km))
	}
	if screen != nil {
		opts = append(opts, terminal.WithScreen(screen))
	}

	b, err := terminal.New(opts...)
	if err != nil {
		return err
	}
	app.host.OnBeginFrame(func(t host.Tick) { b.BeginFrame(t.Now) })
	app.host.OnEndFrame(func(host.Tick) { b.EndFrame() })
	app.term = b
	app.binding = b
	return nil
}

// Run opens the backend, starts every configured resource and ticks until
// ctx is cancelled or Quit is called. Resources are stopped before it
// returns. A quit request is reported as ErrQuit.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.term != nil {
		if err := app.term.Open(); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		defer app.term.Close()
	}

	app.startConfigured()
	if err := app.startWatcher(); err != nil {
		app.logger.Warn("script watching disabled", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-app.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	app.logger.Info("promptkit running",
		zap.String("backend", app.cfg.Widget.Backend),
		zap.Int("tick_rate", app.cfg.Host.TickRate),
		zap.Int("resources", len(app.order)),
	)
	err := app.host.Run(ctx)

	app.shutdown()

	if err != nil {
		return err
	}
	select {
	case <-app.quit:
		return ErrQuit
	default:
		return nil
	}
}

// Quit asks a running application to stop. It is safe to call from any
// goroutine and more than once.
func (app *Application) Quit() {
	app.quitOnce.Do(func() { close(app.quit) })
}

// shutdown stops every resource and the watcher.
func (app *Application) shutdown() {
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn("closing watcher", zap.Error(err))
		}
		app.watcher = nil
	}
	app.StopAll()
	app.logger.Info("promptkit stopped", metricsField(app.metrics))
}

// Close releases the logger if the application created it.
func (app *Application) Close() {
	if app.ownLogger {
		_ = app.logger.Sync()
	}
}

func (app *Application) frameStart(host.Tick) {
	app.frameBegan = time.Now()
}

func (app *Application) frameEnd(host.Tick) {
	app.metrics.RecordFrame(time.Since(app.frameBegan))
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Host returns the tick host.
func (app *Application) Host() *host.Host {
	return app.host
}

// Binding returns the widget backend.
func (app *Application) Binding() widget.Binding {
	return app.binding
}

// Metrics returns the application metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}
