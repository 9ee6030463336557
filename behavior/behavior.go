// Package behavior holds the per-kind agent rules. Each rule is a pure
// function of (agent, state snapshot, config, tick RNG) producing an
// intent; the scheduler owns ordering, conflict resolution, and all
// energy bookkeeping.
package behavior

import (
	"math/rand/v2"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/world"
)

// Intent is the action an agent wants to take this tick. The zero
// value is a no-op. Moves may be cancelled by conflict resolution;
// spawns become birth requests.
type Intent struct {
	Move   bool
	Target world.Pos

	Spawn   bool
	SpawnAt world.Pos
}

// Rule maps an agent and its visible neighborhood to an intent.
type Rule func(a world.Agent, s *world.State, cfg *config.Config, rng *rand.Rand) Intent

// rules is the closed dispatch table, indexed by world.Kind.
var rules = [world.NumKinds]Rule{
	world.KindPlant:     plantRule,
	world.KindHerbivore: foragerRule(world.KindPlant),
	world.KindCarnivore: foragerRule(world.KindHerbivore),
}

// For returns the rule for the given kind.
func For(k world.Kind) Rule { return rules[k] }

// FoodKind returns the kind the given kind eats, and whether it eats
// at all.
func FoodKind(k world.Kind) (world.Kind, bool) {
	switch k {
	case world.KindHerbivore:
		return world.KindPlant, true
	case world.KindCarnivore:
		return world.KindHerbivore, true
	default:
		return 0, false
	}
}

// Species returns the config block governing the given kind's energy
// economy. Plants have no species block.
func Species(cfg *config.Config, k world.Kind) (config.SpeciesConfig, bool) {
	switch k {
	case world.KindHerbivore:
		return cfg.Herbivores, true
	case world.KindCarnivore:
		return cfg.Carnivores, true
	default:
		return config.SpeciesConfig{}, false
	}
}

// neighborOffsets lists the 8 Moore neighbors in reading order. The
// fixed order keeps uniform draws over empty neighbors deterministic.
var neighborOffsets = [8]world.Pos{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// EmptyNeighbors returns the in-bounds unoccupied cells adjacent to p,
// in reading order.
func EmptyNeighbors(s *world.State, p world.Pos) []world.Pos {
	out := make([]world.Pos, 0, 8)
	for _, d := range neighborOffsets {
		q := world.Pos{X: p.X + d.X, Y: p.Y + d.Y}
		if s.Grid.IsEmpty(q) {
			out = append(out, q)
		}
	}
	return out
}

// stepToward returns the cell one pursuit step from p toward target.
// Each axis moves by at most stepSize cells and never overshoots, so a
// step onto the target cell is exact.
func stepToward(p, target world.Pos, stepSize int) world.Pos {
	return world.Pos{
		X: p.X + clampStep(target.X-p.X, stepSize),
		Y: p.Y + clampStep(target.Y-p.Y, stepSize),
	}
}

func clampStep(d, max int) int {
	switch {
	case d > max:
		return max
	case d < -max:
		return -max
	default:
		return d
	}
}
