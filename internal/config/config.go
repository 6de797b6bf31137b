package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/dshills/promptkit/internal/host"
	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget/sim"
	"github.com/dshills/promptkit/internal/widget/terminal"
)

// Widget backends.
const (
	BackendTerminal = "terminal"
	BackendHeadless = "headless"
)

// Log modes.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config is the complete promptkit configuration.
type Config struct {
	Host      HostConfig        `toml:"host" yaml:"host"`
	Log       LogConfig         `toml:"log" yaml:"log"`
	Widget    WidgetConfig      `toml:"widget" yaml:"widget"`
	Controls  map[string]any    `toml:"controls" yaml:"controls"`
	Keymap    map[string]string `toml:"keymap" yaml:"keymap"`
	Resources []Resource        `toml:"resources" yaml:"resources"`
}

// HostConfig configures the tick scheduler.
type HostConfig struct {
	TickRate int `toml:"tick_rate" yaml:"tick_rate"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
	Mode  string `toml:"mode" yaml:"mode"`
	File  string `toml:"file" yaml:"file"`
}

// WidgetConfig configures the prompt widget backend.
type WidgetConfig struct {
	Backend      string   `toml:"backend" yaml:"backend"`
	HoldFrames   int      `toml:"hold_frames" yaml:"hold_frames"`
	ReleaseAfter Duration `toml:"release_after" yaml:"release_after"`
	Pad          int      `toml:"pad" yaml:"pad"`
}

// Resource is one consumer script.
type Resource struct {
	// Name identifies the resource. Defaults to the script's file stem.
	Name string `toml:"name" yaml:"name"`
	// Script is the path of the Lua file.
	Script string `toml:"script" yaml:"script"`
	// Watch restarts the resource when the script changes.
	Watch bool `toml:"watch" yaml:"watch"`
}

// Duration is a time.Duration written as a string such as "150ms".
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host: HostConfig{
			TickRate: host.DefaultTickRate,
		},
		Log: LogConfig{
			Level: "info",
			Mode:  ModeDevelopment,
		},
		Widget: WidgetConfig{
			Backend:      BackendTerminal,
			HoldFrames:   sim.DefaultHoldFrames,
			ReleaseAfter: Duration(terminal.DefaultReleaseAfter),
			Pad:          sim.PlayerPad,
		},
	}
}

// Validate checks every setting and returns all problems found.
// Each problem is a *ValidationError.
func (c *Config) Validate() error {
	var err error
	fail := func(path, msg string, v any) {
		err = multierr.Append(err, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Host.TickRate <= 0 {
		fail("host.tick_rate", "must be positive", c.Host.TickRate)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		fail("log.level", "must be debug, info, warn or error", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Mode) {
	case "", ModeDevelopment, ModeProduction:
	default:
		fail("log.mode", "must be development or production", c.Log.Mode)
	}

	switch c.Widget.Backend {
	case BackendTerminal, BackendHeadless:
	default:
		fail("widget.backend", "must be terminal or headless", c.Widget.Backend)
	}
	if c.Widget.HoldFrames <= 0 {
		fail("widget.hold_frames", "must be positive", c.Widget.HoldFrames)
	}
	if c.Widget.ReleaseAfter <= 0 {
		fail("widget.release_after", "must be positive", c.Widget.ReleaseAfter)
	}
	if c.Widget.Pad < 0 {
		fail("widget.pad", "must not be negative", c.Widget.Pad)
	}

	for name, v := range c.Controls {
		if _, perr := control.Parse(v); perr != nil {
			fail("controls."+name, perr.Error(), v)
		}
	}

	for spec, name := range c.Keymap {
		if _, perr := terminal.ParseKey(spec); perr != nil {
			fail("keymap."+spec, perr.Error(), spec)
		}
		if strings.TrimSpace(name) == "" {
			fail("keymap."+spec, "control name is empty", name)
		}
	}

	seen := make(map[string]bool, len(c.Resources))
	for i, r := range c.Resources {
		path := fmt.Sprintf("resources[%d]", i)
		if r.Script == "" {
			fail(path+".script", "is required", r.Script)
		}
		name := r.ResourceName()
		if name == "" {
			fail(path+".name", "is required", r.Name)
			continue
		}
		if seen[name] {
			fail(path+".name", "duplicate resource name", name)
		}
		seen[name] = true
	}

	return err
}

// ResourceName returns the configured name, or the script's file stem.
func (r Resource) ResourceName() string {
	if r.Name != "" {
		return r.Name
	}
	base := filepath.Base(r.Script)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Resolve makes relative script paths relative to dir and fills in
// default resource names.
func (c *Config) Resolve(dir string) {
	for i := range c.Resources {
		r := &c.Resources[i]
		if r.Name == "" {
			r.Name = r.ResourceName()
		}
		if r.Script != "" && dir != "" && !filepath.IsAbs(r.Script) {
			r.Script = filepath.Join(dir, r.Script)
		}
	}
}
