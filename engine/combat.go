package engine

import (
	"slices"

	"github.com/google/uuid"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/engine/rules"
	"github.com/nathoo/skirmish/types"
)

// BattleReport summarises a battle. Individual kills are only visible to
// observers.
type BattleReport struct {
	ID       uuid.UUID
	Distance float64
	Before   int // roster size before the sweep
	After    int // roster size after the dead were removed
}

// battle applies the predation rules against one bound defender at a time
// and reports kills back to the engine.
type battle struct {
	engine *Engine
	id     uuid.UUID
	target int
}

func newBattle(e *Engine) *battle {
	return &battle{engine: e, id: uuid.New(), target: -1}
}

// setTarget binds the defender for subsequent strikes.
func (b *battle) setTarget(i int) {
	b.target = i
}

// strike lets the attacker at index i act against the bound defender.
// A kill marks the defender dead and notifies observers once.
func (b *battle) strike(i int) {
	attacker := &b.engine.roster[i]
	defender := &b.engine.roster[b.target]
	if !defender.Alive() {
		return
	}
	if rules.Resolve(attacker.Kind(), defender.Kind()) != types.OutcomeKilled {
		return
	}
	defender.Kill()
	b.engine.notifyKill(b.id, attacker, defender)
}

// Battle runs one full sweep: every NPC in roster order is taken as the
// defender and every NPC in roster order may attack it, stopping at the
// first kill. Dead NPCs stay in place until the sweep finishes, then are
// removed together.
func (e *Engine) Battle(distance float64) BattleReport {
	b := newBattle(e)
	report := BattleReport{ID: b.id, Distance: distance, Before: len(e.roster)}

	e.log.Debug("battle started", "battle", b.id, "distance", distance, "npcs", report.Before)

	for d := range e.roster {
		b.setTarget(d)
		for a := range e.roster {
			if !e.roster[a].CanAttack(&e.roster[d], distance) {
				continue
			}
			b.strike(a)
			if !e.roster[d].Alive() {
				break
			}
		}
	}

	e.purge()
	report.After = len(e.roster)

	e.log.Debug("battle finished", "battle", b.id, "killed", report.Before-report.After, "survivors", report.After)
	return report
}

// purge removes dead NPCs, keeping survivors in order.
func (e *Engine) purge() {
	e.roster = slices.DeleteFunc(e.roster, func(n npc.NPC) bool {
		return !n.Alive()
	})
}

func (e *Engine) notifyKill(battleID uuid.UUID, killer, killed *npc.NPC) {
	ev := types.KillEvent{
		Battle: battleID,
		Killer: killer.Snapshot(),
		Killed: killed.Snapshot(),
	}
	e.log.Debug("kill", "battle", battleID, "killer", ev.Killer.Name, "killed", ev.Killed.Name)
	e.bus.Publish(ev)
}
