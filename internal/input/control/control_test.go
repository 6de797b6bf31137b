package control

import (
	"errors"
	"testing"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name string
		want Control
	}{
		{"", 0},
		{"a", 0xCA2E9442},
		{"A", 0xCA2E9442},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hash(tt.name); got != tt.want {
				t.Errorf("Hash(%q) = 0x%08X, want 0x%08X", tt.name, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestHashCaseInsensitive(t *testing.T) {
	if Hash("INPUT_CONTEXT_X") != Hash("input_context_x") {
		t.Error("Hash should ignore case")
	}
}

func TestBuiltinNamesAgreeWithHash(t *testing.T) {
	for _, name := range builtinNames {
		c, ok := Lookup(name)
		if !ok {
			t.Errorf("Lookup(%q) not found", name)
			continue
		}
		if c != Hash(name) {
			t.Errorf("table value for %q = 0x%08X, want Hash = 0x%08X", name, uint32(c), uint32(Hash(name)))
		}
	}
}

func TestFromName(t *testing.T) {
	if got := FromName(""); got != None {
		t.Errorf("FromName(\"\") = %v, want None", got)
	}
	if got := FromName("  input_jump "); got != Hash("INPUT_JUMP") {
		t.Errorf("FromName should trim and ignore case, got 0x%08X", uint32(got))
	}
	if got := FromName("INPUT_NOT_IN_TABLE"); got != Hash("INPUT_NOT_IN_TABLE") {
		t.Errorf("unknown names should hash, got 0x%08X", uint32(got))
	}
}

func TestRegister(t *testing.T) {
	if err := Register("test_alias_interact", 0x1234); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if got := FromName("TEST_ALIAS_INTERACT"); got != 0x1234 {
		t.Errorf("FromName(alias) = 0x%X, want 0x1234", uint32(got))
	}
	if got := Name(0x1234); got != "TEST_ALIAS_INTERACT" {
		t.Errorf("Name(0x1234) = %q", got)
	}

	if err := Register("", 1); !errors.Is(err, ErrInvalidControl) {
		t.Errorf("Register(empty) error = %v, want ErrInvalidControl", err)
	}
	if err := Register("zero", None); !errors.Is(err, ErrInvalidControl) {
		t.Errorf("Register(zero) error = %v, want ErrInvalidControl", err)
	}
}

func TestName(t *testing.T) {
	if got := Name(Hash("INPUT_CONTEXT_X")); got != "INPUT_CONTEXT_X" {
		t.Errorf("Name() = %q, want INPUT_CONTEXT_X", got)
	}
	if got := Name(0xDEADBEEF); got != "0xDEADBEEF" {
		t.Errorf("Name(unknown) = %q, want 0xDEADBEEF", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    Control
		wantErr bool
	}{
		{"control", Control(42), 42, false},
		{"int", 42, 42, false},
		{"negative int", -1, 0xFFFFFFFF, false},
		{"uint32", uint32(7), 7, false},
		{"float", float64(99), 99, false},
		{"fractional float", 1.5, None, true},
		{"hex string", "0xE7BF6346", 0xE7BF6346, false},
		{"decimal string", "1234", 1234, false},
		{"name", "INPUT_JUMP", Hash("INPUT_JUMP"), false},
		{"empty string", "", None, true},
		{"bad hex", "0xZZ", None, true},
		{"zero", 0, None, true},
		{"nil", nil, None, true},
		{"bool", true, None, true},
		{"too large", int64(1) << 40, None, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Parse(%v) expected error, got 0x%X", tt.in, uint32(got))
				} else if !errors.Is(err, ErrInvalidControl) {
					t.Errorf("Parse(%v) error = %v, want ErrInvalidControl", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%v) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%v) = 0x%X, want 0x%X", tt.in, uint32(got), uint32(tt.want))
			}
		})
	}
}

func TestParseSet(t *testing.T) {
	jump := Hash("INPUT_JUMP")
	ctx := Hash("INPUT_CONTEXT_X")

	t.Run("bare value", func(t *testing.T) {
		set, err := ParseSet("INPUT_JUMP")
		if err != nil {
			t.Fatalf("ParseSet() error = %v", err)
		}
		if len(set) != 1 || set[0] != jump {
			t.Errorf("ParseSet(bare) = %v, want [%v]", set, jump)
		}
	})

	t.Run("ordered slice", func(t *testing.T) {
		set, err := ParseSet([]any{"INPUT_CONTEXT_X", float64(5), "INPUT_JUMP"})
		if err != nil {
			t.Fatalf("ParseSet() error = %v", err)
		}
		want := []Control{ctx, 5, jump}
		if len(set) != len(want) {
			t.Fatalf("len = %d, want %d", len(set), len(want))
		}
		for i := range want {
			if set[i] != want[i] {
				t.Errorf("set[%d] = %v, want %v", i, set[i], want[i])
			}
		}
	})

	t.Run("string slice", func(t *testing.T) {
		set, err := ParseSet([]string{"INPUT_JUMP", "INPUT_CONTEXT_X"})
		if err != nil {
			t.Fatalf("ParseSet() error = %v", err)
		}
		if len(set) != 2 || set[0] != jump || set[1] != ctx {
			t.Errorf("ParseSet(strings) = %v", set)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseSet([]any{}); !errors.Is(err, ErrEmptySet) {
			t.Errorf("ParseSet(empty) error = %v, want ErrEmptySet", err)
		}
		if _, err := ParseSet([]Control{}); !errors.Is(err, ErrEmptySet) {
			t.Errorf("ParseSet(empty controls) error = %v, want ErrEmptySet", err)
		}
	})

	t.Run("invalid member", func(t *testing.T) {
		if _, err := ParseSet([]any{"INPUT_JUMP", true}); !errors.Is(err, ErrInvalidControl) {
			t.Errorf("ParseSet(invalid) error = %v, want ErrInvalidControl", err)
		}
	})
}
