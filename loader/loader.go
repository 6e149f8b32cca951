package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// collector accumulates Lua declarations during file execution.
type collector struct {
	arena  *lua.LTable
	arenas int
	steps  []rawStep
	order  int
}

func (c *collector) nextSourceOrder() int {
	c.order++
	return c.order
}

// Load reads all .lua files from dir, compiles them into a scenario and
// validates it. The Lua VM is discarded after loading.
func Load(dir string) (*Scenario, error) {
	// Discover .lua files.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scenario directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// Sort: arena.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	return run(filepath.Base(dir), func(L *lua.LState) error {
		for _, f := range luaFiles {
			if err := L.DoFile(filepath.Join(dir, f)); err != nil {
				return fmt.Errorf("executing %s: %w", f, err)
			}
		}
		return nil
	})
}

// LoadFile loads a single scenario file.
func LoadFile(path string) (*Scenario, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return run(name, func(L *lua.LState) error {
		if err := L.DoFile(path); err != nil {
			return fmt.Errorf("executing %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}

// LoadString loads a scenario from source text. name labels the scenario and
// its error messages.
func LoadString(name, src string) (*Scenario, error) {
	return run(name, func(L *lua.LState) error {
		fn, err := L.Load(strings.NewReader(src), name)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", name, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return fmt.Errorf("executing %s: %w", name, err)
		}
		return nil
	})
}

func run(name string, exec func(L *lua.LState) error) (*Scenario, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	if err := exec(L); err != nil {
		return nil, err
	}

	sc, err := compile(name, coll)
	if err != nil {
		return nil, fmt.Errorf("compiling scenario: %w", err)
	}

	if err := validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Random placement goes through Horde{seed=...}; math.random would make
	// scenarios irreproducible.
	if mathTbl := L.GetGlobal("math"); mathTbl != lua.LNil {
		if tbl, ok := mathTbl.(*lua.LTable); ok {
			tbl.RawSetString("randomseed", lua.LNil)
			tbl.RawSetString("random", lua.LNil)
		}
	}
}

func sortedLuaFiles(files []string) []string {
	var arenaFile string
	var others []string
	for _, f := range files {
		if f == "arena.lua" {
			arenaFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if arenaFile != "" {
		return append([]string{arenaFile}, others...)
	}
	return others
}
