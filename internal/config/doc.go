// Package config loads promptkit configuration.
//
// Configuration comes from a single TOML or YAML file, chosen by extension,
// with PROMPTKIT_* environment variables applied on top:
//
//	[host]
//	tick_rate = 60
//
//	[log]
//	level = "info"          # debug, info, warn, error
//	mode  = "development"   # development or production
//	file  = "promptkit.log" # empty logs to stderr
//
//	[widget]
//	backend       = "terminal" # terminal or headless
//	hold_frames   = 30
//	release_after = "150ms"
//	pad           = 0
//
//	[controls]
//	INTERACT = "INPUT_CONTEXT_X"
//	TELEPORT = 0xCEFD9220
//
//	[keymap]
//	e     = "INTERACT"
//	Enter = "INPUT_FRONTEND_ACCEPT"
//
//	[[resources]]
//	name   = "interact"
//	script = "scripts/interact.lua"
//	watch  = true
//
// Unknown keys are rejected. Relative script paths resolve against the
// directory of the configuration file.
package config
