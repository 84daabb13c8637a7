package scripting

import (
	"github.com/scenekit/scenekit/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
)

// installModule exposes the entity registry to scripts as the global table
// `ecs`. Entities are addressed by numeric id; unknown ids read as absent.
func (e *Engine) installModule() {
	mod := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"count_tag":       e.luaCountTag,
		"count_component": e.luaCountComponent,
		"with_tag":        e.luaWithTag,
		"with_component":  e.luaWithComponent,
		"has_tag":         e.luaHasTag,
		"has_component":   e.luaHasComponent,
		"add_tag":         e.luaAddTag,
		"remove_tag":      e.luaRemoveTag,
		"is_active":       e.luaIsActive,
		"set_active":      e.luaSetActive,
		"destroy":         e.luaDestroy,
	})
	e.vm.SetGlobal("ecs", mod)
}

func (e *Engine) entityArg(L *lua.LState, n int) *ecs.Entity {
	return e.m.Entity(ecs.ID(L.CheckInt64(n)))
}

func idList(L *lua.LState, ents []*ecs.Entity) *lua.LTable {
	t := L.CreateTable(len(ents), 0)
	for _, ent := range ents {
		t.Append(lua.LNumber(ent.ID()))
	}
	return t
}

func (e *Engine) luaCountTag(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.TagCount(L.CheckString(1))))
	return 1
}

func (e *Engine) luaCountComponent(L *lua.LState) int {
	L.Push(lua.LNumber(e.m.ComponentCount(L.CheckString(1))))
	return 1
}

// with_tag(tag) returns the ids of active entities carrying tag, ascending.
func (e *Engine) luaWithTag(L *lua.LState) int {
	L.Push(idList(L, e.m.Query().WithTags(L.CheckString(1)).Execute()))
	return 1
}

func (e *Engine) luaWithComponent(L *lua.LState) int {
	L.Push(idList(L, e.m.Query().WithComponents(L.CheckString(1)).Execute()))
	return 1
}

func (e *Engine) luaHasTag(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(ent != nil && ent.HasTag(L.CheckString(2))))
	return 1
}

func (e *Engine) luaHasComponent(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(ent != nil && ent.HasComponent(L.CheckString(2))))
	return 1
}

func (e *Engine) luaAddTag(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(ent != nil && ent.AddTag(L.CheckString(2))))
	return 1
}

func (e *Engine) luaRemoveTag(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(ent != nil && ent.RemoveTag(L.CheckString(2))))
	return 1
}

func (e *Engine) luaIsActive(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	L.Push(lua.LBool(ent != nil && ent.Active()))
	return 1
}

func (e *Engine) luaSetActive(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	if ent == nil {
		L.Push(lua.LFalse)
		return 1
	}
	ent.SetActive(L.CheckBool(2))
	L.Push(lua.LTrue)
	return 1
}

// destroy(id) queues the entity for end-of-frame destruction, so scripts may
// call it while walking a with_tag result.
func (e *Engine) luaDestroy(L *lua.LState) int {
	ent := e.entityArg(L, 1)
	if ent == nil {
		L.Push(lua.LFalse)
		return 1
	}
	e.m.MarkForDestruction(ent)
	L.Push(lua.LTrue)
	return 1
}
