package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptkit/internal/prompt"
)

// PromptGroup.new(text [, active])
func (rt *Runtime) newGroup(L *lua.LState) int {
	base := argBase(L, groupTypeName)
	text := L.OptString(base, "")
	active := L.OptBool(base+1, false)

	L.Push(rt.groupValue(rt.registry.NewGroup(text, active)))
	return 1
}

// groupValue returns the single userdata standing for g.
func (rt *Runtime) groupValue(g *prompt.Group) *lua.LUserData {
	if ud, ok := rt.groups[g]; ok {
		return ud
	}
	ud := rt.L.NewUserData()
	ud.Value = g
	rt.L.SetMetatable(ud, rt.L.GetTypeMetatable(groupTypeName))
	rt.groups[g] = ud
	return ud
}

func checkGroup(L *lua.LState, allowDeleted bool) *prompt.Group {
	ud := L.CheckUserData(1)
	g, ok := ud.Value.(*prompt.Group)
	if !ok {
		L.ArgError(1, "PromptGroup expected")
		return nil
	}
	if g.Deleted() && !allowDeleted {
		L.RaiseError("prompt group has been deleted")
		return nil
	}
	return g
}

// visitor wraps an optional Lua callback for aggregate queries.
func (rt *Runtime) visitor(fn *lua.LFunction) func(*prompt.Prompt) {
	if fn == nil {
		return nil
	}
	return func(p *prompt.Prompt) {
		rt.call(fn, rt.promptValue(p))
	}
}

func (rt *Runtime) groupMethods() map[string]lua.LGFunction {
	aggregate := func(kind prompt.EventKind) lua.LGFunction {
		return func(L *lua.LState) int {
			g := checkGroup(L, false)
			L.Push(lua.LBool(g.Any(kind, rt.visitor(L.OptFunction(2, nil)))))
			return 1
		}
	}
	// Control aggregates accept (cb), (pad) or (pad, cb).
	controlAggregate := func(fn func(*prompt.Group, int, func(*prompt.Prompt)) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			g := checkGroup(L, false)
			pad, cbArg := rt.registry.Pad(), 2
			if n, ok := L.Get(2).(lua.LNumber); ok {
				pad, cbArg = int(n), 3
			}
			L.Push(lua.LBool(fn(g, pad, rt.visitor(L.OptFunction(cbArg, nil)))))
			return 1
		}
	}

	methods := map[string]lua.LGFunction{
		"isJustPressed":        aggregate(prompt.EventJustPressed),
		"isJustReleased":       aggregate(prompt.EventJustReleased),
		"isPressed":            aggregate(prompt.EventPressed),
		"isReleased":           aggregate(prompt.EventReleased),
		"isHoldModeRunning":    aggregate(prompt.EventHoldModeRunning),
		"hasHoldModeCompleted": aggregate(prompt.EventHoldModeCompleted),

		"isControlPressed":      controlAggregate((*prompt.Group).IsControlPressed),
		"isControlReleased":     controlAggregate((*prompt.Group).IsControlReleased),
		"isControlJustPressed":  controlAggregate((*prompt.Group).IsControlJustPressed),
		"isControlJustReleased": controlAggregate((*prompt.Group).IsControlJustReleased),

		"getId": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkGroup(L, true).ID()))
			return 1
		},
		"addPrompt": func(L *lua.LState) int {
			g := checkGroup(L, false)
			controls := fromLua(L.CheckAny(2))
			text := L.OptString(3, "")
			enabled := L.OptBool(4, true)

			p, err := g.AddPrompt(controls, text, prompt.WithEnabled(enabled))
			if err != nil {
				L.RaiseError("PromptGroup.addPrompt: %v", err)
				return 0
			}
			L.Push(rt.promptValue(p))
			return 1
		},
		"setActiveThisFrame": func(L *lua.LState) int {
			checkGroup(L, false).SetActiveThisFrame()
			L.Push(L.Get(1))
			return 1
		},
		"getText": func(L *lua.LState) int {
			L.Push(lua.LString(checkGroup(L, true).Text()))
			return 1
		},
		"setText": func(L *lua.LState) int {
			checkGroup(L, false).SetText(L.CheckString(2))
			L.Push(L.Get(1))
			return 1
		},
		"getPrompts": func(L *lua.LState) int {
			tbl := L.NewTable()
			for _, p := range checkGroup(L, true).Prompts() {
				tbl.Append(rt.promptValue(p))
			}
			L.Push(tbl)
			return 1
		},
		"isActive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkGroup(L, true).IsActive()))
			return 1
		},
		"setActive": func(L *lua.LState) int {
			checkGroup(L, false).SetActive(L.CheckBool(2))
			L.Push(L.Get(1))
			return 1
		},
		"isDeleted": func(L *lua.LState) int {
			L.Push(lua.LBool(checkGroup(L, true).Deleted()))
			return 1
		},
		"handleEvents": func(L *lua.LState) int {
			checkGroup(L, false).HandleEvents(L.Get(2))
			return 0
		},
		"delete": func(L *lua.LState) int {
			g := checkGroup(L, true)
			members := g.Prompts()
			g.Delete()
			for _, p := range members {
				delete(rt.prompts, p)
			}
			delete(rt.groups, g)
			return 0
		},
	}

	for _, kind := range prompt.EventKinds() {
		methods["setOn"+kind.String()] = rt.setGroupHandler(kind)
	}
	methods["on"] = func(L *lua.LState) int {
		kind := checkEventKind(L, 2)
		L.Remove(2)
		return rt.setGroupHandler(kind)(L)
	}
	return methods
}

// setGroupHandler installs a Lua function as the group handler for kind.
// The function receives (group, prompt, data).
func (rt *Runtime) setGroupHandler(kind prompt.EventKind) lua.LGFunction {
	return func(L *lua.LState) int {
		g := checkGroup(L, false)
		fn := L.OptFunction(2, nil)
		if fn == nil {
			g.On(kind, nil)
		} else {
			g.On(kind, func(g *prompt.Group, p *prompt.Prompt, data any) {
				rt.call(fn, rt.groupValue(g), rt.promptValue(p), toLua(data))
			})
		}
		L.Push(L.Get(1))
		return 1
	}
}

func (rt *Runtime) groupToString(L *lua.LState) int {
	g := checkGroup(L, true)
	L.Push(lua.LString(fmt.Sprintf("PromptGroup(%d, %q)", g.ID(), g.Text())))
	return 1
}
