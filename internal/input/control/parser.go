package control

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrEmptySet       = errors.New("empty control set")
	ErrInvalidControl = errors.New("invalid control")
)

// Parse resolves a single control value.
//
// Supported values:
//   - Control, signed and unsigned integers
//   - float64 holding an integral value (Lua and TOML numbers)
//   - string: hex ("0x..."), decimal, or a symbolic name
func Parse(v any) (Control, error) {
	switch x := v.(type) {
	case Control:
		return checkNonZero(x)
	case uint32:
		return checkNonZero(Control(x))
	case uint:
		return fromInt64(int64(x))
	case uint64:
		if x > math.MaxUint32 {
			return None, fmt.Errorf("%w: %d out of range", ErrInvalidControl, x)
		}
		return checkNonZero(Control(x))
	case int:
		return fromInt64(int64(x))
	case int32:
		return fromInt64(int64(x))
	case int64:
		return fromInt64(x)
	case float64:
		if x != math.Trunc(x) {
			return None, fmt.Errorf("%w: %v is not integral", ErrInvalidControl, x)
		}
		return fromInt64(int64(x))
	case string:
		return parseString(x)
	case nil:
		return None, fmt.Errorf("%w: nil", ErrInvalidControl)
	default:
		return None, fmt.Errorf("%w: unsupported type %T", ErrInvalidControl, v)
	}
}

// ParseSet resolves an ordered control set.
// A single value is treated as a one-element set. An empty slice is rejected.
func ParseSet(v any) ([]Control, error) {
	var items []any
	switch x := v.(type) {
	case []Control:
		items = make([]any, len(x))
		for i, c := range x {
			items[i] = c
		}
	case []string:
		items = make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}
	case []int:
		items = make([]any, len(x))
		for i, n := range x {
			items[i] = n
		}
	case []any:
		items = x
	default:
		c, err := Parse(v)
		if err != nil {
			return nil, err
		}
		return []Control{c}, nil
	}

	if len(items) == 0 {
		return nil, ErrEmptySet
	}

	set := make([]Control, 0, len(items))
	for i, item := range items {
		c, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("control %d: %w", i, err)
		}
		set = append(set, c)
	}
	return set, nil
}

// parseString parses numeric strings or resolves symbolic names.
func parseString(s string) (Control, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, fmt.Errorf("%w: empty name", ErrInvalidControl)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		n, err := strconv.ParseUint(lower[2:], 16, 32)
		if err != nil {
			return None, fmt.Errorf("%w: %q", ErrInvalidControl, s)
		}
		return checkNonZero(Control(n))
	}

	if isDigits(s) {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return None, fmt.Errorf("%w: %q", ErrInvalidControl, s)
		}
		return checkNonZero(Control(n))
	}

	return FromName(s), nil
}

// fromInt64 accepts both the unsigned key and its signed 32-bit form,
// since scripts often carry hashes as negative numbers.
func fromInt64(n int64) (Control, error) {
	if n < math.MinInt32 || n > math.MaxUint32 {
		return None, fmt.Errorf("%w: %d out of range", ErrInvalidControl, n)
	}
	if n < 0 {
		return checkNonZero(Control(uint32(int32(n))))
	}
	return checkNonZero(Control(n))
}

func checkNonZero(c Control) (Control, error) {
	if c == None {
		return None, fmt.Errorf("%w: zero", ErrInvalidControl)
	}
	return c, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
