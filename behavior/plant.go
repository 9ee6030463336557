package behavior

import (
	"math/rand/v2"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/world"
)

// plantRule implements regrowth. Plants never move and never decay;
// with the configured probability they try to seed a uniformly chosen
// empty adjacent cell. With no empty neighbor the attempt is a silent
// no-op for the tick.
func plantRule(a world.Agent, s *world.State, cfg *config.Config, rng *rand.Rand) Intent {
	if rng.Float64() >= cfg.Plants.RegrowthChance {
		return Intent{}
	}
	open := EmptyNeighbors(s, a.Pos)
	if len(open) == 0 {
		return Intent{}
	}
	return Intent{Spawn: true, SpawnAt: open[rng.IntN(len(open))]}
}
