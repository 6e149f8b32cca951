// Package loader loads Lua scenario files into Go structs. The Lua VM is
// discarded after loading; nothing Lua survives into a battle.
package loader

import (
	"fmt"
	"math"
	"sort"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/factory"
	"github.com/nathoo/skirmish/types"
	lua "github.com/yuin/gopher-lua"
)

// DefaultSeed seeds hordes when neither the horde nor the arena sets one.
const DefaultSeed = 1

type stepKind int

const (
	stepPlace stepKind = iota
	stepHorde
	stepFight
)

// rawStep holds one declaration before compilation.
type rawStep struct {
	kind    stepKind
	npcKind types.Kind
	name    string
	table   *lua.LTable
	order   int
}

// Placement is one named NPC.
type Placement struct {
	Kind  types.Kind
	Name  string
	Point types.Point
}

// Horde is a batch of randomly placed NPCs.
type Horde struct {
	Count int
	Seed  int64
}

// Step is one scenario action. Exactly one of NPC, Horde or Fight is set.
type Step struct {
	NPC   *Placement
	Horde *Horde
	Fight *float64 // battle distance
	Order int      // declaration order across files
}

// Scenario is a compiled scenario, ready to apply to an engine.
type Scenario struct {
	Name     string
	Bounds   factory.Bounds
	Distance float64
	Seed     int64
	Steps    []Step
	Warnings []string
}

// Factory returns a factory enforcing the scenario's arena bounds.
func (s *Scenario) Factory() *factory.Factory {
	return factory.New(s.Bounds)
}

// Placements returns the named NPCs in declaration order.
func (s *Scenario) Placements() []Placement {
	var out []Placement
	for _, st := range s.Steps {
		if st.NPC != nil {
			out = append(out, *st.NPC)
		}
	}
	return out
}

// Apply runs the scenario's steps against e in declaration order: NPCs are
// added, hordes populated and fights run. It stops at the first failure.
func (s *Scenario) Apply(e *engine.Engine) ([]engine.BattleReport, error) {
	return s.Run(e, e.Battle)
}

// Run is Apply with each Fight step handed to fight, so a caller can print
// the roster around every battle.
func (s *Scenario) Run(e *engine.Engine, fight func(distance float64) engine.BattleReport) ([]engine.BattleReport, error) {
	var reports []engine.BattleReport
	for _, st := range s.Steps {
		switch {
		case st.NPC != nil:
			if err := e.Add(st.NPC.Kind, st.NPC.Point, st.NPC.Name); err != nil {
				return reports, fmt.Errorf("placing %s: %w", st.NPC.Name, err)
			}
		case st.Horde != nil:
			if err := e.Populate(engine.NewRNG(st.Horde.Seed), st.Horde.Count); err != nil {
				return reports, fmt.Errorf("horde: %w", err)
			}
		case st.Fight != nil:
			reports = append(reports, fight(*st.Fight))
		}
	}
	return reports, nil
}

// getNumber returns a numeric field from a Lua table and whether it was set.
func getNumber(tbl *lua.LTable, key string) (float64, bool) {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n), true
	}
	return 0, false
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getCoordinate returns a non-negative integer field.
func getCoordinate(tbl *lua.LTable, key string) (uint64, error) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return 0, fmt.Errorf("%s is required", key)
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s must be a number, got %s", key, v.Type())
	}
	f := float64(n)
	if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %v", key, f)
	}
	return uint64(f), nil
}

// compile converts collected Lua tables into a Scenario.
func compile(name string, coll *collector) (*Scenario, error) {
	sc := &Scenario{
		Name:     name,
		Bounds:   factory.DefaultBounds,
		Distance: 50,
		Seed:     DefaultSeed,
	}

	if coll.arenas > 1 {
		return nil, fmt.Errorf("Arena declared %d times", coll.arenas)
	}
	if coll.arena != nil {
		if err := compileArena(sc, coll.arena); err != nil {
			return nil, fmt.Errorf("Arena: %w", err)
		}
	}

	steps := make([]rawStep, len(coll.steps))
	copy(steps, coll.steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].order < steps[j].order })

	for _, raw := range steps {
		st, err := compileStep(sc, raw)
		if err != nil {
			return nil, err
		}
		sc.Steps = append(sc.Steps, st)
	}
	return sc, nil
}

func compileArena(sc *Scenario, tbl *lua.LTable) error {
	if title := getString(tbl, "name"); title != "" {
		sc.Name = title
	}
	if tbl.RawGetString("max_x") != lua.LNil {
		v, err := getCoordinate(tbl, "max_x")
		if err != nil {
			return err
		}
		sc.Bounds.MaxX = v
	}
	if tbl.RawGetString("max_y") != lua.LNil {
		v, err := getCoordinate(tbl, "max_y")
		if err != nil {
			return err
		}
		sc.Bounds.MaxY = v
	}
	if d, ok := getNumber(tbl, "distance"); ok {
		sc.Distance = d
	}
	if s, ok := getNumber(tbl, "seed"); ok {
		sc.Seed = int64(s)
	}
	return nil
}

func compileStep(sc *Scenario, raw rawStep) (Step, error) {
	st := Step{Order: raw.order}
	switch raw.kind {
	case stepPlace:
		x, err := getCoordinate(raw.table, "x")
		if err != nil {
			return st, fmt.Errorf("npc %q: %w", raw.name, err)
		}
		y, err := getCoordinate(raw.table, "y")
		if err != nil {
			return st, fmt.Errorf("npc %q: %w", raw.name, err)
		}
		st.NPC = &Placement{Kind: raw.npcKind, Name: raw.name, Point: types.Point{X: x, Y: y}}

	case stepHorde:
		count, ok := getNumber(raw.table, "count")
		if !ok {
			return st, fmt.Errorf("Horde: count is required")
		}
		if count != math.Trunc(count) {
			return st, fmt.Errorf("Horde: count %v must be a whole number", count)
		}
		if count > engine.MaxPopulate {
			return st, fmt.Errorf("Horde: count %v is more than %d", count, engine.MaxPopulate)
		}
		if count < -engine.MaxPopulate {
			count = -engine.MaxPopulate
		}
		h := &Horde{Count: int(count), Seed: sc.Seed + int64(raw.order)}
		if s, ok := getNumber(raw.table, "seed"); ok {
			h.Seed = int64(s)
		}
		st.Horde = h

	case stepFight:
		d := sc.Distance
		if v, ok := getNumber(raw.table, "distance"); ok {
			d = v
		}
		st.Fight = &d
	}
	return st, nil
}
