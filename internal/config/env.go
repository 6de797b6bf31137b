package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROMPTKIT_"

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// envSetters maps variable suffixes to the setting they override.
var envSetters = map[string]func(c *Config, v string) error{
	"TICK_RATE": func(c *Config, v string) error {
		return setInt(&c.Host.TickRate, v)
	},
	"LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = strings.ToLower(v)
		return nil
	},
	"LOG_MODE": func(c *Config, v string) error {
		c.Log.Mode = strings.ToLower(v)
		return nil
	},
	"LOG_FILE": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	"BACKEND": func(c *Config, v string) error {
		c.Widget.Backend = strings.ToLower(v)
		return nil
	},
	"HOLD_FRAMES": func(c *Config, v string) error {
		return setInt(&c.Widget.HoldFrames, v)
	},
	"RELEASE_AFTER": func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		c.Widget.ReleaseAfter = Duration(d)
		return nil
	},
	"PAD": func(c *Config, v string) error {
		return setInt(&c.Widget.Pad, v)
	},
}

// ApplyEnv overrides settings from PROMPTKIT_* variables, e.g.
// PROMPTKIT_LOG_LEVEL=debug or PROMPTKIT_RELEASE_AFTER=200ms.
// Empty values are ignored.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	for suffix, set := range envSetters {
		v, ok := lookup(EnvPrefix + suffix)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, suffix, err)
		}
	}
	return nil
}

func setInt(dst *int, v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
