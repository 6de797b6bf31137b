package control

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Control represents an engine input action by its numeric key.
type Control uint32

// None is the zero control. It never reports input.
const None Control = 0

// String returns the symbolic name of the control if known, or its hex key.
func (c Control) String() string {
	return Name(c)
}

// builtinNames lists the control names known without configuration.
// Their numeric keys are computed with Hash.
var builtinNames = []string{
	// Context prompts
	"INPUT_CONTEXT_X",
	"INPUT_CONTEXT_Y",
	"INPUT_CONTEXT_A",
	"INPUT_CONTEXT_B",
	"INPUT_CONTEXT_LT",
	"INPUT_CONTEXT_RT",
	"INPUT_CONTEXT_LB",
	"INPUT_CONTEXT_RB",
	"INPUT_CONTEXT_ACTION",
	"INPUT_CONTEXT_SECONDARY",

	// Movement
	"INPUT_JUMP",
	"INPUT_SPRINT",
	"INPUT_ENTER",
	"INPUT_DUCK",
	"INPUT_COVER",
	"INPUT_RELOAD",
	"INPUT_AIM",
	"INPUT_ATTACK",
	"INPUT_INTERACT_LOCKON",
	"INPUT_INTERACT_OPTION1",
	"INPUT_INTERACT_OPTION2",

	// Frontend navigation
	"INPUT_FRONTEND_ACCEPT",
	"INPUT_FRONTEND_CANCEL",
	"INPUT_FRONTEND_UP",
	"INPUT_FRONTEND_DOWN",
	"INPUT_FRONTEND_LEFT",
	"INPUT_FRONTEND_RIGHT",
	"INPUT_FRONTEND_LB",
	"INPUT_FRONTEND_RB",
	"INPUT_FRONTEND_PAUSE",
	"INPUT_GAME_MENU_ACCEPT",
	"INPUT_GAME_MENU_CANCEL",
	"INPUT_GAME_MENU_TAB_LEFT",
	"INPUT_GAME_MENU_TAB_RIGHT",
}

var (
	namesMu sync.RWMutex
	byName  = make(map[string]Control)
	byValue = make(map[Control]string)
)

func init() {
	for _, name := range builtinNames {
		c := Hash(name)
		byName[name] = c
		byValue[c] = name
	}
}

// Hash returns the numeric key for a control name.
// It is the Jenkins one-at-a-time hash of the lower-cased name.
func Hash(name string) Control {
	var h uint32
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return Control(h)
}

// FromName resolves a symbolic control name.
// Registered names take precedence; any other name resolves through Hash.
// Returns None for an empty name.
func FromName(name string) Control {
	name = strings.TrimSpace(name)
	if name == "" {
		return None
	}

	namesMu.RLock()
	c, ok := byName[strings.ToUpper(name)]
	namesMu.RUnlock()
	if ok {
		return c
	}
	return Hash(name)
}

// Lookup resolves a registered control name without falling back to Hash.
func Lookup(name string) (Control, bool) {
	namesMu.RLock()
	defer namesMu.RUnlock()

	c, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return c, ok
}

// Register adds a symbolic alias for a control.
// An alias may shadow a built-in name; the reverse mapping keeps the first name.
func Register(name string, c Control) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidControl)
	}
	if c == None {
		return fmt.Errorf("%w: %s maps to zero", ErrInvalidControl, name)
	}

	namesMu.Lock()
	defer namesMu.Unlock()

	byName[name] = c
	if _, exists := byValue[c]; !exists {
		byValue[c] = name
	}
	return nil
}

// Name returns the symbolic name of c, or its key formatted as hex.
func Name(c Control) string {
	namesMu.RLock()
	name, ok := byValue[c]
	namesMu.RUnlock()
	if ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(c))
}

// Names returns all registered names in sorted order.
func Names() []string {
	namesMu.RLock()
	defer namesMu.RUnlock()

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
