package behavior

import (
	"math/rand/v2"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/world"
)

// foragerRule builds the movement rule shared by herbivores and
// carnivores: pursue the nearest agent of the food kind within vision,
// otherwise wander one random step. Ties on distance break to the
// lowest (x, y) position so pursuit is reproducible.
func foragerRule(food world.Kind) Rule {
	return func(a world.Agent, s *world.State, cfg *config.Config, rng *rand.Rand) Intent {
		sp, _ := Species(cfg, a.Kind)

		if prey, ok := s.NearestOfKind(a.Pos, food, sp.VisionRadius); ok {
			target := stepToward(a.Pos, prey.Pos, cfg.Movement.StepSize)
			if target == a.Pos {
				return Intent{}
			}
			return Intent{Move: true, Target: target}
		}

		open := EmptyNeighbors(s, a.Pos)
		if len(open) == 0 {
			return Intent{}
		}
		return Intent{Move: true, Target: open[rng.IntN(len(open))]}
	}
}
