// Package types defines the shared data structures for the skirmish engine.
// This package contains only type definitions, no logic.
package types

import "github.com/google/uuid"

// Point is a grid coordinate. Placement limits are enforced by the factory,
// not by the value itself.
type Point struct {
	X uint64
	Y uint64
}

// Kind is the closed predation class of an NPC.
type Kind int

const (
	KindSquirrel Kind = iota // predator, eats werewolves and druids
	KindWerewolf             // predator, eats druids
	KindDruid                // neutral
)

// Outcome is the result of one attacker striking one defender.
type Outcome int

const (
	OutcomeSpared Outcome = iota
	OutcomeKilled
)

// Snapshot is a value copy of an NPC handed to observers and callers.
type Snapshot struct {
	ID    uuid.UUID
	Kind  Kind
	Name  string
	Point Point
	Alive bool
}

// KillEvent is delivered to observers once per kill.
type KillEvent struct {
	Battle uuid.UUID
	Killer Snapshot
	Killed Snapshot
}

// Intent is the parsed representation of a console command.
type Intent struct {
	Verb string
	Args []string
}

// Result is the outcome of one console command.
type Result struct {
	Output []string
	Kills  []KillEvent
}
