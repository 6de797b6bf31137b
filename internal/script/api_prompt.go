package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptkit/internal/prompt"
)

// Prompt.new(controls, text [, enabled])
func (rt *Runtime) newPrompt(L *lua.LState) int {
	base := argBase(L, promptTypeName)
	controls := fromLua(L.CheckAny(base))
	text := L.OptString(base+1, "")
	enabled := L.OptBool(base+2, true)

	p, err := rt.registry.NewPrompt(controls, text, prompt.WithEnabled(enabled))
	if err != nil {
		L.RaiseError("Prompt.new: %v", err)
		return 0
	}
	L.Push(rt.promptValue(p))
	return 1
}

// promptValue returns the single userdata standing for p.
func (rt *Runtime) promptValue(p *prompt.Prompt) *lua.LUserData {
	if ud, ok := rt.prompts[p]; ok {
		return ud
	}
	ud := rt.L.NewUserData()
	ud.Value = p
	rt.L.SetMetatable(ud, rt.L.GetTypeMetatable(promptTypeName))
	rt.prompts[p] = ud
	return ud
}

// checkPrompt returns the prompt at argument 1. Deleted prompts are rejected
// unless allowDeleted is set.
func checkPrompt(L *lua.LState, allowDeleted bool) *prompt.Prompt {
	ud := L.CheckUserData(1)
	p, ok := ud.Value.(*prompt.Prompt)
	if !ok {
		L.ArgError(1, "Prompt expected")
		return nil
	}
	if p.Deleted() && !allowDeleted {
		L.RaiseError("prompt has been deleted")
		return nil
	}
	return p
}

func (rt *Runtime) promptMethods() map[string]lua.LGFunction {
	predicate := func(fn func(*prompt.Prompt) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(lua.LBool(fn(checkPrompt(L, false))))
			return 1
		}
	}
	padPredicate := func(fn func(*prompt.Prompt, int) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			p := checkPrompt(L, false)
			pad := L.OptInt(2, rt.registry.Pad())
			L.Push(lua.LBool(fn(p, pad)))
			return 1
		}
	}
	setFlag := func(fn func(*prompt.Prompt, bool)) lua.LGFunction {
		return func(L *lua.LState) int {
			fn(checkPrompt(L, false), L.CheckBool(2))
			L.Push(L.Get(1))
			return 1
		}
	}

	methods := map[string]lua.LGFunction{
		"isActive":             predicate((*prompt.Prompt).IsActive),
		"isEnabled":            predicate((*prompt.Prompt).IsEnabled),
		"isPressed":            predicate((*prompt.Prompt).IsPressed),
		"isReleased":           predicate((*prompt.Prompt).IsReleased),
		"isJustPressed":        predicate((*prompt.Prompt).IsJustPressed),
		"isJustReleased":       predicate((*prompt.Prompt).IsJustReleased),
		"hasHoldMode":          predicate((*prompt.Prompt).HasHoldMode),
		"isHoldModeRunning":    predicate((*prompt.Prompt).IsHoldModeRunning),
		"hasHoldModeCompleted": predicate((*prompt.Prompt).HasHoldModeCompleted),

		"isControlActionActive": padPredicate((*prompt.Prompt).IsControlActionActive),
		"isControlPressed":      padPredicate((*prompt.Prompt).IsControlPressed),
		"isControlReleased":     padPredicate((*prompt.Prompt).IsControlReleased),
		"isControlJustPressed":  padPredicate((*prompt.Prompt).IsControlJustPressed),
		"isControlJustReleased": padPredicate((*prompt.Prompt).IsControlJustReleased),

		"setEnabled":  setFlag(func(p *prompt.Prompt, v bool) { p.SetEnabled(v) }),
		"setVisible":  setFlag(func(p *prompt.Prompt, v bool) { p.SetVisible(v) }),
		"setHoldMode": setFlag(func(p *prompt.Prompt, v bool) { p.SetHoldMode(v) }),

		"isValid": func(L *lua.LState) int {
			p := checkPrompt(L, true)
			L.Push(lua.LBool(!p.Deleted() && p.IsValid()))
			return 1
		},
		"isDeleted": func(L *lua.LState) int {
			L.Push(lua.LBool(checkPrompt(L, true).Deleted()))
			return 1
		},
		"getHandle": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkPrompt(L, true).Handle()))
			return 1
		},
		"getText": func(L *lua.LState) int {
			L.Push(lua.LString(checkPrompt(L, true).Text()))
			return 1
		},
		"setText": func(L *lua.LState) int {
			checkPrompt(L, false).SetText(L.CheckString(2))
			L.Push(L.Get(1))
			return 1
		},
		"getControls": func(L *lua.LState) int {
			tbl := L.NewTable()
			for _, c := range checkPrompt(L, true).Controls() {
				tbl.Append(lua.LNumber(c))
			}
			L.Push(tbl)
			return 1
		},
		"getGroup": func(L *lua.LState) int {
			g := checkPrompt(L, true).Group()
			if g == nil {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(rt.groupValue(g))
			return 1
		},
		"handleEvents": func(L *lua.LState) int {
			checkPrompt(L, false).HandleEvents(L.Get(2))
			return 0
		},
		"delete": func(L *lua.LState) int {
			p := checkPrompt(L, true)
			p.Delete()
			delete(rt.prompts, p)
			return 0
		},
	}

	for _, kind := range prompt.EventKinds() {
		methods["setOn"+kind.String()] = rt.setPromptHandler(kind)
	}
	methods["on"] = func(L *lua.LState) int {
		kind := checkEventKind(L, 2)
		L.Remove(2)
		return rt.setPromptHandler(kind)(L)
	}
	return methods
}

// checkEventKind reads an event name such as "JustPressed" at argument n.
func checkEventKind(L *lua.LState, n int) prompt.EventKind {
	name := L.CheckString(n)
	kind, ok := prompt.ParseEventKind(name)
	if !ok {
		L.ArgError(n, fmt.Errorf("%w: %q", prompt.ErrInvalidEventKind, name).Error())
	}
	return kind
}

// setPromptHandler installs a Lua function as the handler for kind.
// Passing nil removes it.
func (rt *Runtime) setPromptHandler(kind prompt.EventKind) lua.LGFunction {
	return func(L *lua.LState) int {
		p := checkPrompt(L, false)
		fn := L.OptFunction(2, nil)
		if fn == nil {
			p.On(kind, nil)
		} else {
			p.On(kind, func(p *prompt.Prompt, data any) {
				rt.call(fn, rt.promptValue(p), toLua(data))
			})
		}
		L.Push(L.Get(1))
		return 1
	}
}

func (rt *Runtime) promptToString(L *lua.LState) int {
	p := checkPrompt(L, true)
	L.Push(lua.LString(fmt.Sprintf("Prompt(%d, %q)", p.Handle(), p.Text())))
	return 1
}
