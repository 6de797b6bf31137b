package terminal

import (
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/promptkit/internal/input/control"
	"github.com/dshills/promptkit/internal/widget/sim"
)

var (
	ctrlX    = control.FromName("INPUT_CONTEXT_X")
	ctrlJump = control.FromName("INPUT_JUMP")
)

var epoch = time.Unix(1_700_000_000, 0)

func newTestBinding(t *testing.T, opts ...Option) (*Binding, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	b, err := New(append([]Option{WithScreen(s)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(b.Close)
	return b, s
}

func keyEvent(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func rowText(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		spec string
		want Key
	}{
		{"e", Key{Code: tcell.KeyRune, Rune: 'e'}},
		{"E", Key{Code: tcell.KeyRune, Rune: 'e'}},
		{"1", Key{Code: tcell.KeyRune, Rune: '1'}},
		{"Space", Key{Code: tcell.KeyRune, Rune: ' '}},
		{"enter", Key{Code: tcell.KeyEnter}},
		{"F1", Key{Code: tcell.KeyF1}},
		{"Up", Key{Code: tcell.KeyUp}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseKey(tt.spec)
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}

	if _, err := ParseKey("NotAKey"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("ParseKey(NotAKey) error = %v, want ErrUnknownKey", err)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{Key{Code: tcell.KeyRune, Rune: 'e'}, "E"},
		{Key{Code: tcell.KeyRune, Rune: ' '}, "Space"},
		{Key{Code: tcell.KeyEnter}, "Enter"},
	}
	for _, tt := range tests {
		if got := tt.key.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestKeyOfBackspace(t *testing.T) {
	ev := tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone)
	if got := KeyOf(ev); got.Code != tcell.KeyBackspace {
		t.Errorf("KeyOf(Backspace2) = %+v, want Backspace", got)
	}
}

func TestParseKeymap(t *testing.T) {
	km, err := ParseKeymap(map[string]string{
		"e":     "INPUT_CONTEXT_X",
		"x":     "INPUT_CONTEXT_X",
		"Space": strconv.FormatUint(uint64(ctrlJump), 10),
	})
	if err != nil {
		t.Fatalf("ParseKeymap() error = %v", err)
	}
	if km.Len() != 3 {
		t.Errorf("Len() = %d, want 3", km.Len())
	}

	c, ok := km.Control(Key{Code: tcell.KeyRune, Rune: 'x'})
	if !ok || c != ctrlX {
		t.Errorf("Control(x) = %v, %v", c, ok)
	}
	if c, _ := km.Control(Key{Code: tcell.KeyRune, Rune: ' '}); c != ctrlJump {
		t.Errorf("Control(Space) = %v, want numeric INPUT_JUMP", c)
	}
	if got := km.Label(ctrlX); got != "E" {
		t.Errorf("Label() = %q, want first key in order", got)
	}
	if got := km.Label(control.FromName("INPUT_SPRINT")); got != "INPUT_SPRINT" {
		t.Errorf("Label(unmapped) = %q, want control name", got)
	}

	if _, err := ParseKeymap(map[string]string{"Nope": "INPUT_JUMP"}); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("bad key error = %v", err)
	}
	if _, err := ParseKeymap(map[string]string{"e": ""}); !errors.Is(err, control.ErrInvalidControl) {
		t.Errorf("bad control error = %v", err)
	}
}

func TestDefaultKeymapParses(t *testing.T) {
	km, err := ParseKeymap(DefaultKeymap)
	if err != nil {
		t.Fatalf("ParseKeymap(DefaultKeymap) error = %v", err)
	}
	if km.Len() != len(DefaultKeymap) {
		t.Errorf("Len() = %d, want %d", km.Len(), len(DefaultKeymap))
	}
}

func TestKeyPressAndRelease(t *testing.T) {
	b, _ := newTestBinding(t, WithReleaseAfter(100*time.Millisecond))

	b.HandleEvent(keyEvent('E'))
	b.BeginFrame(epoch)
	if !b.IsControlJustPressed(sim.PlayerPad, ctrlX) {
		t.Fatal("key press should produce a just-pressed edge")
	}
	if b.Held() != 1 {
		t.Errorf("Held() = %d, want 1", b.Held())
	}

	b.BeginFrame(epoch.Add(50 * time.Millisecond))
	if !b.IsControlPressed(sim.PlayerPad, ctrlX) || b.IsControlJustPressed(sim.PlayerPad, ctrlX) {
		t.Error("control should stay held without a new edge")
	}

	// A key repeat keeps the control down.
	b.HandleEvent(keyEvent('e'))
	b.BeginFrame(epoch.Add(90 * time.Millisecond))
	b.BeginFrame(epoch.Add(150 * time.Millisecond))
	if !b.IsControlPressed(sim.PlayerPad, ctrlX) {
		t.Error("repeat should extend the hold")
	}

	b.BeginFrame(epoch.Add(190 * time.Millisecond))
	if !b.IsControlJustReleased(sim.PlayerPad, ctrlX) {
		t.Error("control should release after the delay")
	}
	if b.Held() != 0 {
		t.Errorf("Held() = %d, want 0", b.Held())
	}
}

func TestKeyPressOnConfiguredPad(t *testing.T) {
	b, _ := newTestBinding(t, WithPad(1))
	h := b.CreatePrompt()
	b.SetControlAction(h, ctrlX)

	b.HandleEvent(keyEvent('e'))
	b.BeginFrame(epoch)
	if !b.IsControlJustPressed(1, ctrlX) {
		t.Error("key press should land on pad 1")
	}
	if b.IsControlPressed(sim.PlayerPad, ctrlX) {
		t.Error("key press should not touch pad 0")
	}
	if !b.IsJustPressed(h) {
		t.Error("prompt should read the configured pad")
	}

	b.BeginFrame(epoch.Add(time.Second))
	if !b.IsControlJustReleased(1, ctrlX) {
		t.Error("auto release should use the configured pad")
	}
}

func TestUnmappedKeyIgnored(t *testing.T) {
	b, _ := newTestBinding(t)

	b.HandleEvent(keyEvent('z'))
	b.BeginFrame(epoch)
	if b.Held() != 0 {
		t.Error("unmapped key should not press anything")
	}
}

func TestQuitKeys(t *testing.T) {
	var quits atomic.Int32
	b, _ := newTestBinding(t, WithQuit(func() { quits.Add(1) }))

	b.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	b.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

	if quits.Load() != 2 {
		t.Errorf("quit called %d times, want 2", quits.Load())
	}
}

func TestPollGoroutine(t *testing.T) {
	b, s := newTestBinding(t)

	s.InjectKey(tcell.KeyRune, 'e', tcell.ModNone)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b.BeginFrame(epoch)
		if b.IsControlPressed(sim.PlayerPad, ctrlX) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("injected key never reached the binding")
}

func TestPromptDrivenByKey(t *testing.T) {
	b, _ := newTestBinding(t)

	h := b.CreatePrompt()
	b.SetControlAction(h, ctrlX)
	b.SetText(h, "Open")

	b.HandleEvent(keyEvent('e'))
	b.BeginFrame(epoch)
	if !b.IsJustPressed(h) {
		t.Error("prompt should be just pressed by its key")
	}
}

func TestEndFrameDrawsStandalonePrompts(t *testing.T) {
	b, s := newTestBinding(t)

	h := b.CreatePrompt()
	b.SetControlAction(h, ctrlX)
	b.SetText(h, "Open door")

	hidden := b.CreatePrompt()
	b.SetControlAction(hidden, ctrlJump)
	b.SetText(hidden, "Hidden")
	b.SetVisible(hidden, false)

	b.BeginFrame(epoch)
	b.EndFrame()

	if got := rowText(s, 0); got != "[E] Open door" {
		t.Errorf("row 0 = %q", got)
	}
	if got := rowText(s, 1); got != "" {
		t.Errorf("hidden prompt drawn: %q", got)
	}
}

func TestEndFrameDrawsActiveGroup(t *testing.T) {
	b, s := newTestBinding(t)

	member := b.CreatePrompt()
	b.SetControlAction(member, ctrlX)
	b.SetControlAction(member, ctrlJump)
	b.SetText(member, "Knock")
	b.SetGroup(member, 7)

	other := b.CreatePrompt()
	b.SetControlAction(other, ctrlX)
	b.SetText(other, "Elsewhere")
	b.SetGroup(other, 8)

	b.BeginFrame(epoch)
	b.SetActiveGroupThisFrame(7, "Door")
	b.EndFrame()

	if got := rowText(s, 0); got != "Door" {
		t.Errorf("row 0 = %q, want group label", got)
	}
	if got := rowText(s, 1); got != "  [E/Space] Knock" {
		t.Errorf("row 1 = %q", got)
	}
	if got := rowText(s, 2); got != "" {
		t.Errorf("inactive group member drawn: %q", got)
	}

	// The slot must be refilled every frame.
	b.BeginFrame(epoch.Add(time.Millisecond))
	b.EndFrame()
	if got := rowText(s, 0); got != "" {
		t.Errorf("group still drawn without activation: %q", got)
	}
}

func TestEndFrameHoldBar(t *testing.T) {
	b, s := newTestBinding(t, WithHoldFrames(2), WithReleaseAfter(time.Hour))

	h := b.CreatePrompt()
	b.SetControlAction(h, ctrlX)
	b.SetText(h, "Hold")
	b.SetHoldMode(h, true)

	b.BeginFrame(epoch)
	b.EndFrame()
	if got := rowText(s, 0); got != "[E] Hold [----------]" {
		t.Errorf("row 0 = %q", got)
	}

	b.HandleEvent(keyEvent('e'))
	b.BeginFrame(epoch)
	b.BeginFrame(epoch)
	b.EndFrame()
	if got := rowText(s, 0); got != "[E] Hold [#####-----]" {
		t.Errorf("row 0 = %q, want half progress", got)
	}

	b.BeginFrame(epoch)
	b.EndFrame()
	if got := rowText(s, 0); got != "[E] Hold [##########]" {
		t.Errorf("row 0 = %q, want full progress", got)
	}
	if !b.HasHoldModeCompleted(h) {
		t.Error("hold should be completed")
	}
}

func TestHoldBar(t *testing.T) {
	tests := []struct {
		progress, total int
		want            string
	}{
		{0, 30, "[----------]"},
		{15, 30, "[#####-----]"},
		{30, 30, "[##########]"},
		{40, 30, "[##########]"},
		{1, 0, "[----------]"},
	}
	for _, tt := range tests {
		if got := holdBar(tt.progress, tt.total); got != tt.want {
			t.Errorf("holdBar(%d, %d) = %q, want %q", tt.progress, tt.total, got, tt.want)
		}
	}
}

func TestEndFrameBeforeOpen(t *testing.T) {
	b, err := New(WithScreen(tcell.NewSimulationScreen("")))
	if err != nil {
		t.Fatal(err)
	}
	b.EndFrame()
	b.Close()
}

func TestResizeSyncs(t *testing.T) {
	b, s := newTestBinding(t)

	s.SetSize(40, 10)
	b.HandleEvent(tcell.NewEventResize(40, 10))
	b.BeginFrame(epoch)
	b.EndFrame()

	if w, h := s.Size(); w != 40 || h != 10 {
		t.Errorf("Size() = %d x %d", w, h)
	}
}
