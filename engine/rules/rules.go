// Package rules holds the predation matrix: which kind kills which.
// The table is fixed at compile time; there is no per-NPC behavior.
package rules

import "github.com/nathoo/skirmish/types"

// prey lists, per attacker kind, the defender kinds it kills.
// Kinds absent from the table (druids) never kill.
var prey = map[types.Kind]map[types.Kind]bool{
	types.KindSquirrel: {
		types.KindWerewolf: true,
		types.KindDruid:    true,
	},
	types.KindWerewolf: {
		types.KindDruid: true,
	},
}

// Resolve returns the outcome of attacker striking defender.
func Resolve(attacker, defender types.Kind) types.Outcome {
	if prey[attacker][defender] {
		return types.OutcomeKilled
	}
	return types.OutcomeSpared
}

// Entry is one cell of the predation matrix.
type Entry struct {
	Attacker types.Kind
	Defender types.Kind
	Outcome  types.Outcome
}

// Matrix returns every (attacker, defender) pair over kinds, attacker-major,
// in the order given.
func Matrix(kinds []types.Kind) []Entry {
	entries := make([]Entry, 0, len(kinds)*len(kinds))
	for _, a := range kinds {
		for _, d := range kinds {
			entries = append(entries, Entry{Attacker: a, Defender: d, Outcome: Resolve(a, d)})
		}
	}
	return entries
}

// Predators returns the kinds that can kill at least one kind in kinds.
func Predators(kinds []types.Kind) []types.Kind {
	var result []types.Kind
	for _, a := range kinds {
		if len(prey[a]) > 0 {
			result = append(result, a)
		}
	}
	return result
}
