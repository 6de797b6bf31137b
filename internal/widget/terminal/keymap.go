package terminal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptkit/internal/input/control"
)

// ErrUnknownKey is returned for a key spec that names no terminal key.
var ErrUnknownKey = errors.New("unknown key")

// Key identifies a terminal key.
// Rune keys carry the lowercased rune; special keys carry a zero rune.
type Key struct {
	Code tcell.Key
	Rune rune
}

// String returns the display label of the key.
func (k Key) String() string {
	if k.Code == tcell.KeyRune {
		if k.Rune == ' ' {
			return "Space"
		}
		return strings.ToUpper(string(k.Rune))
	}
	if name, ok := tcell.KeyNames[k.Code]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k.Code)
}

var keysByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// ParseKey parses a key spec: a single character ("e", "1") or a tcell key
// name ("Enter", "F1", "Up"). Names are case-insensitive.
func ParseKey(spec string) (Key, error) {
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Key{Code: tcell.KeyRune, Rune: unicode.ToLower(r)}, nil
	}

	name := strings.ToLower(strings.TrimSpace(spec))
	if name == "space" {
		return Key{Code: tcell.KeyRune, Rune: ' '}, nil
	}
	if code, ok := keysByName[name]; ok {
		return Key{Code: code}, nil
	}
	return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, spec)
}

// KeyOf returns the key of a terminal key event.
func KeyOf(ev *tcell.EventKey) Key {
	switch ev.Key() {
	case tcell.KeyRune:
		return Key{Code: tcell.KeyRune, Rune: unicode.ToLower(ev.Rune())}
	case tcell.KeyBackspace2:
		return Key{Code: tcell.KeyBackspace}
	default:
		return Key{Code: ev.Key()}
	}
}

// Keymap maps terminal keys to controls.
type Keymap struct {
	controls map[Key]control.Control
	labels   map[control.Control]Key
}

// DefaultKeymap is used when no keymap is configured.
var DefaultKeymap = map[string]string{
	"e":         "INPUT_CONTEXT_X",
	"r":         "INPUT_CONTEXT_Y",
	"f":         "INPUT_CONTEXT_A",
	"g":         "INPUT_CONTEXT_B",
	"q":         "INPUT_CONTEXT_LB",
	"t":         "INPUT_CONTEXT_RB",
	"Space":     "INPUT_JUMP",
	"Enter":     "INPUT_FRONTEND_ACCEPT",
	"Backspace": "INPUT_FRONTEND_CANCEL",
	"Up":        "INPUT_FRONTEND_UP",
	"Down":      "INPUT_FRONTEND_DOWN",
	"Left":      "INPUT_FRONTEND_LEFT",
	"Right":     "INPUT_FRONTEND_RIGHT",
}

// ParseKeymap builds a keymap from key spec → control spec pairs.
// Control specs are resolved with control.Parse.
func ParseKeymap(specs map[string]string) (*Keymap, error) {
	km := &Keymap{
		controls: make(map[Key]control.Control, len(specs)),
		labels:   make(map[control.Control]Key, len(specs)),
	}

	// Sorted so the label chosen for a control bound to several keys is stable.
	keys := make([]string, 0, len(specs))
	for spec := range specs {
		keys = append(keys, spec)
	}
	sort.Strings(keys)

	for _, spec := range keys {
		key, err := ParseKey(spec)
		if err != nil {
			return nil, err
		}
		c, err := control.Parse(specs[spec])
		if err != nil {
			return nil, fmt.Errorf("keymap %q: %w", spec, err)
		}
		km.controls[key] = c
		if _, ok := km.labels[c]; !ok {
			km.labels[c] = key
		}
	}
	return km, nil
}

// Control returns the control bound to key.
func (km *Keymap) Control(key Key) (control.Control, bool) {
	c, ok := km.controls[key]
	return c, ok
}

// Label returns the display label for a control: its key when mapped,
// otherwise the control name.
func (km *Keymap) Label(c control.Control) string {
	if key, ok := km.labels[c]; ok {
		return key.String()
	}
	return control.Name(c)
}

// Len returns the number of mapped keys.
func (km *Keymap) Len() int {
	return len(km.controls)
}
