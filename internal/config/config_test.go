package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/multierr"

	"github.com/dshills/promptkit/internal/input/control"
)

const sampleTOML = `
[host]
tick_rate = 30

[log]
level = "debug"
mode = "production"
file = "promptkit.log"

[widget]
backend = "headless"
hold_frames = 12
release_after = "200ms"
pad = 1

[controls]
INTERACT = "INPUT_CONTEXT_X"
TELEPORT = 0xCEFD9220

[keymap]
e = "INTERACT"
Enter = "INPUT_FRONTEND_ACCEPT"

[[resources]]
name = "door"
script = "scripts/interact.lua"
watch = true

[[resources]]
script = "scripts/teleport.lua"
`

const sampleYAML = `
host:
  tick_rate: 30
log:
  level: debug
  mode: production
widget:
  backend: headless
  hold_frames: 12
  release_after: 200ms
controls:
  INTERACT: INPUT_CONTEXT_X
  TELEPORT: 0xCEFD9220
keymap:
  e: INTERACT
resources:
  - name: door
    script: scripts/interact.lua
    watch: true
`

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Widget.Backend != BackendTerminal {
		t.Errorf("Backend = %q, want %q", cfg.Widget.Backend, BackendTerminal)
	}
	if cfg.Widget.ReleaseAfter.Std() != 150*time.Millisecond {
		t.Errorf("ReleaseAfter = %v", cfg.Widget.ReleaseAfter)
	}
}

func checkSample(t *testing.T, cfg *Config) {
	t.Helper()

	if cfg.Host.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.Host.TickRate)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Mode != ModeProduction {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Widget.Backend != BackendHeadless || cfg.Widget.HoldFrames != 12 {
		t.Errorf("Widget = %+v", cfg.Widget)
	}
	if cfg.Widget.ReleaseAfter.Std() != 200*time.Millisecond {
		t.Errorf("ReleaseAfter = %v, want 200ms", cfg.Widget.ReleaseAfter)
	}
	c, err := control.Parse(cfg.Controls["TELEPORT"])
	if err != nil || c != 0xCEFD9220 {
		t.Errorf("controls.TELEPORT = %v (%v)", cfg.Controls["TELEPORT"], err)
	}
	if cfg.Keymap["e"] != "INTERACT" {
		t.Errorf("keymap.e = %q", cfg.Keymap["e"])
	}
	if len(cfg.Resources) == 0 || cfg.Resources[0].Name != "door" || !cfg.Resources[0].Watch {
		t.Errorf("Resources = %+v", cfg.Resources)
	}
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse("test.toml", []byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	checkSample(t, cfg)

	if cfg.Widget.Pad != 1 || cfg.Log.File != "promptkit.log" {
		t.Errorf("Pad = %d, File = %q", cfg.Widget.Pad, cfg.Log.File)
	}
	if len(cfg.Resources) != 2 {
		t.Fatalf("len(Resources) = %d, want 2", len(cfg.Resources))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse("test.yaml", []byte(sampleYAML), FormatYAML)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	checkSample(t, cfg)

	if cfg.Widget.Pad != 0 {
		t.Errorf("Pad = %d, want default 0", cfg.Widget.Pad)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	for _, format := range []Format{FormatTOML, FormatYAML} {
		cfg, err := Parse("empty", nil, format)
		if err != nil {
			t.Fatalf("Parse(%s) error = %v", format, err)
		}
		if cfg.Host.TickRate != Default().Host.TickRate {
			t.Errorf("%s: TickRate = %d", format, cfg.Host.TickRate)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   Format
		wantLine bool
	}{
		{"toml unknown key", "[host]\nspeed = 3\n", FormatTOML, false},
		{"toml syntax", "[host\ntick_rate = 3\n", FormatTOML, true},
		{"toml bad duration", "[widget]\nrelease_after = \"soon\"\n", FormatTOML, false},
		{"yaml unknown key", "host:\n  speed: 3\n", FormatYAML, false},
		{"yaml syntax", "host: [\n", FormatYAML, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad", []byte(tt.data), tt.format)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Path != "bad" {
				t.Errorf("Path = %q", perr.Path)
			}
			if tt.wantLine && perr.Line == 0 {
				t.Errorf("Line not set: %v", perr)
			}
		})
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	if _, err := Parse("x", nil, Format("ini")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Parse(ini) error = %v", err)
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"promptkit.toml", FormatTOML, true},
		{"dir/promptkit.YAML", FormatYAML, true},
		{"promptkit.yml", FormatYAML, true},
		{"promptkit.json", "", false},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.path)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Host.TickRate = 0
	cfg.Log.Level = "loud"
	cfg.Widget.Backend = "gui"
	cfg.Widget.HoldFrames = -1
	cfg.Widget.Pad = -2
	cfg.Controls = map[string]any{"BAD": true}
	cfg.Keymap = map[string]string{"NoSuchKey": "INPUT_JUMP"}
	cfg.Resources = []Resource{
		{Name: "a", Script: "a.lua"},
		{Name: "a", Script: "b.lua"},
		{Name: "c"},
	}

	err := cfg.Validate()
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
	}

	paths := make(map[string]bool)
	for _, e := range multierr.Errors(err) {
		var verr *ValidationError
		if !errors.As(e, &verr) {
			t.Fatalf("error %v is not a *ValidationError", e)
		}
		paths[verr.Path] = true
	}
	for _, want := range []string{
		"host.tick_rate",
		"log.level",
		"widget.backend",
		"widget.hold_frames",
		"widget.pad",
		"controls.BAD",
		"keymap.NoSuchKey",
		"resources[1].name",
		"resources[2].script",
	} {
		if !paths[want] {
			t.Errorf("missing validation error for %s", want)
		}
	}
}

func TestResourceName(t *testing.T) {
	tests := []struct {
		r    Resource
		want string
	}{
		{Resource{Name: "shop", Script: "x.lua"}, "shop"},
		{Resource{Script: "scripts/teleport.lua"}, "teleport"},
		{Resource{}, ""},
	}
	for _, tt := range tests {
		if got := tt.r.ResourceName(); got != tt.want {
			t.Errorf("ResourceName(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "promptkit.toml")
	if err := os.WriteFile(path, []byte(sampleTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROMPTKIT_TICK_RATE", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Host.TickRate != 20 {
		t.Errorf("TickRate = %d, want env override 20", cfg.Host.TickRate)
	}
	if want := filepath.Join(dir, "scripts", "interact.lua"); cfg.Resources[0].Script != want {
		t.Errorf("Script = %q, want %q", cfg.Resources[0].Script, want)
	}
	if cfg.Resources[1].Name != "teleport" {
		t.Errorf("default resource name = %q", cfg.Resources[1].Name)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "promptkit.yaml")
	if err := os.WriteFile(path, []byte("host:\n  tick_rate: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("Load() error = %v, want ErrValidationFailed", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PROMPTKIT_LOG_LEVEL":     "DEBUG",
		"PROMPTKIT_BACKEND":       "headless",
		"PROMPTKIT_RELEASE_AFTER": "80ms",
		"PROMPTKIT_HOLD_FRAMES":   "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
	if cfg.Widget.Backend != BackendHeadless {
		t.Errorf("Backend = %q", cfg.Widget.Backend)
	}
	if cfg.Widget.ReleaseAfter.Std() != 80*time.Millisecond {
		t.Errorf("ReleaseAfter = %v", cfg.Widget.ReleaseAfter)
	}
	if cfg.Widget.HoldFrames != Default().Widget.HoldFrames {
		t.Error("empty values should be ignored")
	}

	env["PROMPTKIT_PAD"] = "one"
	if err := ApplyEnv(cfg, lookup); err == nil {
		t.Error("ApplyEnv() should reject a non-numeric pad")
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte(" 1.5s ")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	if d.Std() != 1500*time.Millisecond {
		t.Errorf("Duration = %v", d)
	}
	text, _ := d.MarshalText()
	if string(text) != "1.5s" {
		t.Errorf("MarshalText() = %q", text)
	}
}
