// Package session turns console commands into engine operations. Both the
// line-mode CLI and the TUI drive the arena through a Session.
package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/skirmish/engine"
	"github.com/nathoo/skirmish/engine/codec"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/engine/parser"
	"github.com/nathoo/skirmish/engine/resolve"
	"github.com/nathoo/skirmish/engine/rules"
	"github.com/nathoo/skirmish/engine/save"
	"github.com/nathoo/skirmish/observe"
	"github.com/nathoo/skirmish/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxSpawn caps a single spawn command.
const MaxSpawn = engine.MaxPopulate

// Session holds the engine plus the settings a console user can change.
type Session struct {
	Engine   *engine.Engine
	RNG      *engine.RNG
	Distance float64
	Battles  int

	kills      *observe.Recorder
	commandLog []string
}

// New wraps e. distance is the default for fight; seed drives spawn.
func New(e *engine.Engine, distance float64, seed int64) *Session {
	s := &Session{
		Engine:   e,
		RNG:      engine.NewRNG(seed),
		Distance: distance,
		kills:    &observe.Recorder{},
	}
	e.AddObserver(s.kills)
	return s
}

// Step executes one command and returns its output.
func (s *Session) Step(input string) types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return types.Result{}
	}
	s.commandLog = append(s.commandLog, strings.TrimSpace(input))

	switch intent.Verb {
	case "add":
		return s.add(intent.Args)
	case "fight":
		return s.fight(intent.Args)
	case "list":
		return s.list()
	case "show":
		return s.show(intent.Args)
	case "spawn":
		return s.spawn(intent.Args)
	case "rules":
		return s.rules()
	case "stats":
		return s.stats()
	case "distance":
		return s.distance(intent.Args)
	case "clear":
		s.Engine.Reset()
		return output("The arena is empty.")
	default:
		return output(fmt.Sprintf("I don't know how to %q. Type /help for available commands.", intent.Verb))
	}
}

// CommandLog returns every command stepped so far.
func (s *Session) CommandLog() []string {
	return s.commandLog
}

// State returns the settings that go into a save.
func (s *Session) State() save.Session {
	log := make([]string, len(s.commandLog))
	copy(log, s.commandLog)
	return save.Session{
		Distance:   s.Distance,
		Battles:    s.Battles,
		RNGSeed:    s.RNG.Seed(),
		CommandLog: log,
	}
}

// Restore applies settings read back from a save.
func (s *Session) Restore(st save.Session) {
	s.Distance = st.Distance
	s.Battles = st.Battles
	s.RNG = engine.NewRNG(st.RNGSeed)
	s.commandLog = append([]string(nil), st.CommandLog...)
}

func output(lines ...string) types.Result {
	return types.Result{Output: lines}
}

// KindFromInput accepts a kind name in any case ("squirrel", "WEREWOLF").
func KindFromInput(s string) (types.Kind, error) {
	return npc.ParseKind(cases.Title(language.English).String(s))
}

func (s *Session) add(args []string) types.Result {
	if len(args) != 4 {
		return output("Usage: add <kind> <name> <x> <y>")
	}
	kind, err := KindFromInput(args[0])
	if err != nil {
		return output(fmt.Sprintf("Cannot add %s: %v", args[1], err))
	}
	x, errX := strconv.ParseUint(args[2], 10, 64)
	y, errY := strconv.ParseUint(args[3], 10, 64)
	if errX != nil || errY != nil {
		return output(fmt.Sprintf("Cannot add %s: coordinates must be non-negative integers", args[1]))
	}
	p := types.Point{X: x, Y: y}
	if err := s.Engine.Add(kind, p, args[1]); err != nil {
		return output(fmt.Sprintf("Cannot add %s: %v", args[1], err))
	}
	return output("Added " + codec.Encode(kind, args[1], p) + ".")
}

func (s *Session) fight(args []string) types.Result {
	distance := s.Distance
	if len(args) > 0 {
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil || d < 0 {
			return output(fmt.Sprintf("Bad distance %q: want a non-negative number.", args[0]))
		}
		distance = d
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Before battle (%d):", s.Engine.Len()))
	lines = append(lines, s.rosterLines()...)

	s.kills.Drain()
	report := s.Engine.Battle(distance)
	kills := s.kills.Drain()
	s.Battles++

	for _, k := range kills {
		lines = append(lines, observe.Message(k))
	}
	lines = append(lines, fmt.Sprintf("After battle (%d):", report.After))
	lines = append(lines, s.rosterLines()...)
	lines = append(lines, fmt.Sprintf("Battle over at distance %g: %d killed, %d survive.",
		distance, report.Before-report.After, report.After))

	return types.Result{Output: lines, Kills: kills}
}

func (s *Session) rosterLines() []string {
	npcs := s.Engine.NPCs()
	lines := make([]string, len(npcs))
	for i, n := range npcs {
		lines[i] = codec.EncodeSnapshot(n)
	}
	return lines
}

func (s *Session) list() types.Result {
	lines := s.rosterLines()
	if len(lines) == 0 {
		return output("The arena is empty.")
	}
	return output(lines...)
}

func (s *Session) show(args []string) types.Result {
	if len(args) != 1 {
		return output("Usage: show <name>")
	}
	n, err := resolve.Resolve(s.Engine.NPCs(), args[0])
	if err != nil {
		return output(err.Error())
	}

	var prey []string
	for _, e := range rules.Matrix(npc.Kinds()) {
		if e.Attacker == n.Kind && e.Outcome == types.OutcomeKilled {
			prey = append(prey, npc.KindName(e.Defender))
		}
	}
	hunts := "nothing"
	if len(prey) > 0 {
		hunts = strings.Join(prey, ", ")
	}

	var reach []string
	hunter := npc.New(n.Kind, n.Point, n.Name)
	for _, other := range s.Engine.NPCs() {
		if other.Name == n.Name {
			continue
		}
		target := npc.New(other.Kind, other.Point, other.Name)
		if hunter.CanAttack(&target, s.Distance) &&
			rules.Resolve(n.Kind, other.Kind) == types.OutcomeKilled {
			reach = append(reach, other.Name)
		}
	}
	inReach := "none"
	if len(reach) > 0 {
		inReach = strings.Join(reach, ", ")
	}

	return output(
		codec.EncodeSnapshot(n),
		"Hunts: "+hunts,
		fmt.Sprintf("Prey within %g: %s", s.Distance, inReach),
	)
}

func (s *Session) spawn(args []string) types.Result {
	if len(args) != 1 {
		return output("Usage: spawn <count>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 || n > MaxSpawn {
		return output(fmt.Sprintf("Bad count %q: want 1..%d.", args[0], MaxSpawn))
	}
	before := s.Engine.Len()
	if err := s.Engine.Populate(s.RNG, n); err != nil {
		return output(fmt.Sprintf("Spawn failed: %v", err))
	}
	return output(fmt.Sprintf("Spawned %d npcs (%d in the arena).", s.Engine.Len()-before, s.Engine.Len()))
}

func (s *Session) rules() types.Result {
	var lines []string
	for _, e := range rules.Matrix(npc.Kinds()) {
		verdict := "spares"
		if e.Outcome == types.OutcomeKilled {
			verdict = "kills"
		}
		lines = append(lines, fmt.Sprintf("%-8s %-6s %s", npc.KindName(e.Attacker), verdict, npc.KindName(e.Defender)))
	}
	return output(lines...)
}

func (s *Session) stats() types.Result {
	counts := s.Engine.Counts()
	parts := make([]string, 0, len(npc.Kinds()))
	for _, k := range npc.Kinds() {
		parts = append(parts, fmt.Sprintf("%s: %d", npc.KindName(k), counts[k]))
	}
	return output(
		strings.Join(parts, ", "),
		fmt.Sprintf("Total: %d, battles fought: %d, distance: %g", s.Engine.Len(), s.Battles, s.Distance),
	)
}

func (s *Session) distance(args []string) types.Result {
	if len(args) == 0 {
		return output(fmt.Sprintf("Battle distance is %g.", s.Distance))
	}
	d, err := strconv.ParseFloat(args[0], 64)
	if err != nil || d < 0 {
		return output(fmt.Sprintf("Bad distance %q: want a non-negative number.", args[0]))
	}
	s.Distance = d
	return output(fmt.Sprintf("Battle distance set to %g.", d))
}
