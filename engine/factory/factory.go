// Package factory builds NPCs and enforces placement rules.
package factory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/nathoo/skirmish/engine/codec"
	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

var (
	// ErrOutOfBounds is returned when a coordinate exceeds the arena limits.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidName is returned for names that cannot survive a
	// save/load round trip (empty or containing whitespace).
	ErrInvalidName = errors.New("invalid npc name")
)

// Bounds is the inclusive placement limit on each axis. The lower limit is
// always zero.
type Bounds struct {
	MaxX uint64
	MaxY uint64
}

// DefaultBounds is the 0..500 arena.
var DefaultBounds = Bounds{MaxX: 500, MaxY: 500}

// Contains reports whether p lies within the bounds.
func (b Bounds) Contains(p types.Point) bool {
	return p.X <= b.MaxX && p.Y <= b.MaxY
}

// Factory creates NPCs within a configured arena.
type Factory struct {
	bounds Bounds
}

// New creates a factory for the given bounds.
func New(bounds Bounds) *Factory {
	return &Factory{bounds: bounds}
}

// Bounds returns the configured placement limits.
func (f *Factory) Bounds() Bounds {
	return f.bounds
}

// Create validates the placement and name, then builds the NPC.
func (f *Factory) Create(kind types.Kind, p types.Point, name string) (npc.NPC, error) {
	if err := ValidateName(name); err != nil {
		return npc.NPC{}, err
	}
	if !f.bounds.Contains(p) {
		return npc.NPC{}, fmt.Errorf("%w: %s at [%d,%d] exceeds [%d,%d]",
			ErrOutOfBounds, name, p.X, p.Y, f.bounds.MaxX, f.bounds.MaxY)
	}
	if !slices.Contains(npc.Kinds(), kind) {
		return npc.NPC{}, fmt.Errorf("%w: %d", npc.ErrUnknownKind, kind)
	}
	return npc.New(kind, p, name), nil
}

// ParseLine decodes a roster line and creates the NPC it describes.
func (f *Factory) ParseLine(line string) (npc.NPC, error) {
	rec, err := codec.Decode(line)
	if err != nil {
		return npc.NPC{}, err
	}
	return f.Create(rec.Kind, rec.Point, rec.Name)
}

// ValidateName rejects names the line format cannot carry.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}
