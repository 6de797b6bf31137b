package app

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dshills/promptkit/internal/config"
	"github.com/dshills/promptkit/internal/config/watcher"
	"github.com/dshills/promptkit/internal/script"
)

// resource is one loaded script.
type resource struct {
	cfg config.Resource
	rt  *script.Runtime
}

// The methods below must run on the tick goroutine (from posted work, a
// thread or a frame hook) or while the host is not running.

// startConfigured starts every configured resource, logging failures.
func (app *Application) startConfigured() {
	for _, rc := range app.cfg.Resources {
		if err := app.StartResource(rc); err != nil {
			app.logger.Error("resource failed to start", zap.Error(err))
		}
	}
}

// StartResource loads a script as a new resource. A script that fails to
// load is stopped again, so its partial prompts and threads do not linger.
func (app *Application) StartResource(rc config.Resource) error {
	name := rc.ResourceName()
	if _, exists := app.resources[name]; exists {
		return &ResourceError{Op: "start", Resource: name, Err: ErrResourceExists}
	}

	rt, err := script.New(name, app.host, app.binding,
		script.WithLogger(app.logger.Named("script")),
		script.WithPad(app.cfg.Widget.Pad),
	)
	if err != nil {
		app.metrics.RecordFailure()
		return &ResourceError{Op: "start", Resource: name, Err: err}
	}

	if err := rt.DoFile(rc.Script); err != nil {
		app.host.StopResource(name)
		rt.Close()
		app.metrics.RecordFailure()
		return &ResourceError{Op: "start", Resource: name, Err: err}
	}

	rc.Name = name
	app.resources[name] = &resource{cfg: rc, rt: rt}
	app.order = append(app.order, name)
	app.metrics.RecordStart()

	app.logger.Info("resource started",
		zap.String("resource", name),
		zap.String("script", rc.Script),
	)
	return nil
}

// StopResource notifies the resource's registry, ends its threads and
// closes its Lua state.
func (app *Application) StopResource(name string) error {
	res, ok := app.resources[name]
	if !ok {
		return &ResourceError{Op: "stop", Resource: name, Err: ErrUnknownResource}
	}

	app.host.StopResource(name)
	res.rt.Close()

	delete(app.resources, name)
	for i, n := range app.order {
		if n == name {
			app.order = append(app.order[:i:i], app.order[i+1:]...)
			break
		}
	}

	app.logger.Info("resource stopped", zap.String("resource", name))
	return nil
}

// RestartResource stops a resource and loads its script again.
func (app *Application) RestartResource(name string) error {
	res, ok := app.resources[name]
	if !ok {
		return &ResourceError{Op: "restart", Resource: name, Err: ErrUnknownResource}
	}
	rc := res.cfg

	if err := app.StopResource(name); err != nil {
		return err
	}
	if err := app.StartResource(rc); err != nil {
		return &ResourceError{Op: "restart", Resource: name, Err: err}
	}
	app.metrics.RecordRestart()
	return nil
}

// StopAll stops every resource, most recently started first.
func (app *Application) StopAll() {
	for i := len(app.order) - 1; i >= 0; i-- {
		_ = app.StopResource(app.order[i])
	}
}

// Resource returns the runtime of a loaded resource.
func (app *Application) Resource(name string) (*script.Runtime, bool) {
	res, ok := app.resources[name]
	if !ok {
		return nil, false
	}
	return res.rt, true
}

// ResourceNames returns the loaded resources in start order.
func (app *Application) ResourceNames() []string {
	names := make([]string, len(app.order))
	copy(names, app.order)
	return names
}

// startWatcher watches the scripts of resources configured with watch.
func (app *Application) startWatcher() error {
	var watched []config.Resource
	for _, rc := range app.cfg.Resources {
		if rc.Watch {
			watched = append(watched, rc)
		}
	}
	if len(watched) == 0 {
		return nil
	}

	w, err := watcher.New(watcher.WithLogger(app.logger.Named("watcher")))
	if err != nil {
		return err
	}
	for _, rc := range watched {
		if err := w.Watch(rc.Script); err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", rc.Script, err)
		}
	}
	w.OnChange(func(ev watcher.Event) {
		app.host.Post(func() { app.scriptChanged(ev) })
	})

	app.watcher = w
	return nil
}

// scriptChanged restarts every watched resource whose script is ev.Path.
// Removed scripts leave the resource running.
func (app *Application) scriptChanged(ev watcher.Event) {
	if ev.Op == watcher.OpRemove {
		return
	}

	for _, rc := range app.cfg.Resources {
		if !rc.Watch || !samePath(rc.Script, ev.Path) {
			continue
		}
		name := rc.ResourceName()

		var err error
		if _, ok := app.resources[name]; ok {
			err = app.RestartResource(name)
		} else {
			err = app.StartResource(rc)
		}
		if err != nil {
			app.logger.Error("reloading resource failed", zap.Error(err))
			continue
		}
		app.logger.Info("resource reloaded",
			zap.String("resource", name),
			zap.Stringer("op", ev.Op),
		)
	}
}

// samePath compares paths after making them absolute.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
