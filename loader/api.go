package loader

import (
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Arena { max_x = 500, max_y = 500, distance = 50, seed = 1 }
	L.SetGlobal("Arena", L.NewFunction(func(L *lua.LState) int {
		coll.arena = L.CheckTable(1)
		coll.arenas++
		return 0
	}))

	// Squirrel "name" { x = 1, y = 2 } and friends. Curried: the kind
	// constructor takes the name and returns a function taking the table.
	for _, kind := range npc.Kinds() {
		L.SetGlobal(npc.KindName(kind), kindConstructor(L, coll, kind))
	}

	// Horde { count = 10, seed = 3 }
	L.SetGlobal("Horde", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.steps = append(coll.steps, rawStep{
			kind:  stepHorde,
			table: tbl,
			order: coll.nextSourceOrder(),
		})
		return 0
	}))

	// Fight() or Fight { distance = 30 }
	L.SetGlobal("Fight", L.NewFunction(func(L *lua.LState) int {
		tbl := L.OptTable(1, L.NewTable())
		coll.steps = append(coll.steps, rawStep{
			kind:  stepFight,
			table: tbl,
			order: coll.nextSourceOrder(),
		})
		return 0
	}))
}

func kindConstructor(L *lua.LState, coll *collector, kind types.Kind) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.steps = append(coll.steps, rawStep{
				kind:    stepPlace,
				npcKind: kind,
				name:    name,
				table:   tbl,
				order:   coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	})
}
