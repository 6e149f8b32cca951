package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/nathoo/skirmish/engine/npc"
	"github.com/nathoo/skirmish/types"
)

// RNG is a seeded source that counts how many draws it has made, so a
// populated roster can be reproduced from (seed, position).
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Coordinate returns a value in [0, limit].
func (r *RNG) Coordinate(limit uint64) uint64 {
	r.pos++
	if limit == math.MaxUint64 {
		return r.src.Uint64()
	}
	if limit >= 1<<62 {
		return r.src.Uint64() % (limit + 1)
	}
	return uint64(r.src.Int63n(int64(limit) + 1))
}

// Pick returns an index chosen with probability proportional to its weight.
// weights must be non-empty with all positive values.
func (r *RNG) Pick(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r.pos++
	roll := r.src.Intn(total)
	for i, w := range weights {
		if roll < w {
			return i
		}
		roll -= w
	}
	return len(weights) - 1
}

// MaxPopulate caps a single Populate call.
const MaxPopulate = 10000

// Populate adds n NPCs with random kinds and in-bounds positions. Names
// follow "<Kind>_<k>" where k is the first free number, so repeated calls
// never collide with existing NPCs.
func (e *Engine) Populate(rng *RNG, n int) error {
	if n > MaxPopulate {
		return fmt.Errorf("populating %d npcs: at most %d at a time", n, MaxPopulate)
	}
	kinds := npc.Kinds()
	weights := make([]int, len(kinds))
	for i := range weights {
		weights[i] = 1
	}
	bounds := e.factory.Bounds()

	next := e.Len()
	for i := 0; i < n; i++ {
		kind := kinds[rng.Pick(weights)]
		p := types.Point{X: rng.Coordinate(bounds.MaxX), Y: rng.Coordinate(bounds.MaxY)}

		var name string
		for {
			next++
			name = fmt.Sprintf("%s_%d", npc.KindName(kind), next)
			if e.indexOf(name) < 0 {
				break
			}
		}
		if err := e.Add(kind, p, name); err != nil {
			return fmt.Errorf("populating npc %d: %w", i+1, err)
		}
	}
	return nil
}
