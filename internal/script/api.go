package script

import (
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/promptkit/internal/input/control"
)

const (
	promptTypeName = "Prompt"
	groupTypeName  = "PromptGroup"
)

// install registers the script globals.
func (rt *Runtime) install() {
	L := rt.L

	promptClass := L.NewTable()
	L.SetField(promptClass, "new", L.NewFunction(rt.newPrompt))
	L.SetGlobal(promptTypeName, promptClass)

	groupClass := L.NewTable()
	L.SetField(groupClass, "new", L.NewFunction(rt.newGroup))
	L.SetGlobal(groupTypeName, groupClass)

	mt := L.NewTypeMetatable(promptTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), rt.promptMethods()))
	L.SetField(mt, "__tostring", L.NewFunction(rt.promptToString))

	mt = L.NewTypeMetatable(groupTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), rt.groupMethods()))
	L.SetField(mt, "__tostring", L.NewFunction(rt.groupToString))

	manager := L.NewTable()
	L.SetField(manager, "startEventThread", L.NewFunction(rt.startEventThread))
	L.SetGlobal("PromptManager", manager)

	citizen := L.NewTable()
	L.SetField(citizen, "CreateThread", L.NewFunction(rt.luaCreateThread))
	L.SetField(citizen, "Wait", L.NewFunction(rt.luaWait))
	L.SetGlobal("Citizen", citizen)
	L.SetGlobal("CreateThread", L.NewFunction(rt.luaCreateThread))
	L.SetGlobal("Wait", L.NewFunction(rt.luaWait))

	L.SetGlobal("GetCurrentResourceName", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(rt.name))
		return 1
	}))

	L.SetGlobal("Controls", controlsTable(L))
}

// controlsTable maps every known control name to its numeric value.
func controlsTable(L *lua.LState) *lua.LTable {
	names := control.Names()
	sort.Strings(names)

	tbl := L.CreateTable(0, len(names))
	for _, name := range names {
		tbl.RawSetString(name, lua.LNumber(control.FromName(name)))
	}
	return tbl
}

// argBase returns the index of the first real argument, skipping the class
// table when a constructor is called with colon syntax.
func argBase(L *lua.LState, class string) int {
	if tbl, ok := L.Get(1).(*lua.LTable); ok && tbl == L.GetGlobal(class) {
		return 2
	}
	return 1
}

func (rt *Runtime) startEventThread(L *lua.LState) int {
	rt.registry.StartEventThread(rt.host)
	return 0
}

func (rt *Runtime) luaCreateThread(L *lua.LState) int {
	fn := L.CheckFunction(1)
	rt.createThread(fn)
	return 0
}

func (rt *Runtime) luaWait(L *lua.LState) int {
	if rt.handlerDepth > 0 {
		L.RaiseError("Wait called inside a prompt callback")
		return 0
	}
	if L == rt.L {
		L.RaiseError("Wait called outside of a thread")
		return 0
	}
	return L.Yield(lua.LNumber(L.OptNumber(1, 0)))
}
