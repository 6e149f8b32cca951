// Package npc implements the combatants placed on the arena grid.
package npc

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/nathoo/skirmish/types"
)

// epsilon treats distances that differ from the limit only by rounding
// as out of range.
const epsilon = 1e-9

// ErrUnknownKind is returned when a kind name is not one of the known kinds.
var ErrUnknownKind = errors.New("unknown npc kind")

var kindNames = map[types.Kind]string{
	types.KindSquirrel: "Squirrel",
	types.KindWerewolf: "Werewolf",
	types.KindDruid:    "Druid",
}

// Kinds returns every kind in wire order.
func Kinds() []types.Kind {
	return []types.Kind{types.KindSquirrel, types.KindWerewolf, types.KindDruid}
}

// KindName returns the wire name of a kind ("Squirrel", "Werewolf", "Druid").
func KindName(k types.Kind) string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "<unknown>"
}

// ParseKind maps a wire name back to its kind. Matching is exact.
func ParseKind(s string) (types.Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// NPC is a single combatant. The zero value is not useful; use New.
type NPC struct {
	id    uuid.UUID
	kind  types.Kind
	name  string
	point types.Point
	alive bool
}

// New creates a living NPC. It performs no validation; bounds and name
// uniqueness belong to the factory and the roster.
func New(kind types.Kind, point types.Point, name string) NPC {
	return NPC{
		id:    uuid.New(),
		kind:  kind,
		name:  name,
		point: point,
		alive: true,
	}
}

// Kill marks the NPC dead. Killing a dead NPC changes nothing.
func (n *NPC) Kill() {
	n.alive = false
}

// CanAttack reports whether other is within reach: both alive, not the same
// NPC, and strictly closer than maxDistance. It says nothing about whether
// the attack would succeed.
func (n *NPC) CanAttack(other *NPC, maxDistance float64) bool {
	if n == other {
		return false
	}
	if !n.alive || !other.alive {
		return false
	}
	return maxDistance-Distance(n.point, other.point) > epsilon
}

// ID returns the identity assigned at construction.
func (n *NPC) ID() uuid.UUID { return n.id }

// Kind returns the predation class.
func (n *NPC) Kind() types.Kind { return n.kind }

// Name returns the roster name.
func (n *NPC) Name() string { return n.name }

// Position returns the grid coordinate.
func (n *NPC) Position() types.Point { return n.point }

// Alive reports whether the NPC has not been killed.
func (n *NPC) Alive() bool { return n.alive }

// Snapshot returns a value copy safe to hand to observers.
func (n *NPC) Snapshot() types.Snapshot {
	return types.Snapshot{
		ID:    n.id,
		Kind:  n.kind,
		Name:  n.name,
		Point: n.point,
		Alive: n.alive,
	}
}

// Distance is the Euclidean distance between two points.
func Distance(a, b types.Point) float64 {
	dx := float64(a.X) - float64(b.X)
	dy := float64(a.Y) - float64(b.Y)
	return math.Hypot(dx, dy)
}
