// Package sim orchestrates ticks: the step scheduler, the history
// buffer, and the engine facade the driver consumes.
package sim

import (
	"math/rand/v2"

	"github.com/pthm-cable/ecosim/behavior"
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/world"
)

// birthRequest is a queued reproduction collected during the act
// phase. Placement happens after all moves, against the then-current
// grid; requests without a free adjacent cell are dropped.
type birthRequest struct {
	parentID uint32

	// Plants pick their seed cell in the rule; it must still be empty
	// at application time.
	hasCell bool
	cell    world.Pos
}

// Scheduler computes the next state from the current one. It never
// mutates a published state: each tick works on a clone and publishes
// the result. It never fails on a validated configuration; blocked
// moves and failed births are silent policy outcomes.
type Scheduler struct {
	cfg     *config.Config
	streams *world.Stream
	nextID  uint32
}

// NewScheduler creates a scheduler drawing randomness from the given
// stream. nextID is the first agent ID free for newborns.
func NewScheduler(cfg *config.Config, streams *world.Stream, nextID uint32) *Scheduler {
	return &Scheduler{cfg: cfg, streams: streams, nextID: nextID}
}

// Step produces the successor of prev and the events of the tick.
//
// Phases, in order, all randomness from the tick-scoped stream:
// decay, permutation draw, act+conflict resolution in permutation
// order, birth application, aging. Intents are computed against the
// frozen post-decay snapshot; application runs against the working
// grid, so when two moves contest a cell the agent earlier in the
// permutation wins and the later move is a no-op.
func (sc *Scheduler) Step(prev *world.State) (*world.State, *telemetry.Events) {
	tick := prev.Tick + 1
	rng := sc.streams.Tick(tick)
	ev := telemetry.NewEvents()

	next := prev.Clone()
	next.Tick = tick

	// Decay: plants are exempt; anything at zero is gone before the
	// state is published.
	for _, id := range next.SortedIDs() {
		a := next.Agents[id]
		sp, ok := behavior.Species(sc.cfg, a.Kind)
		if !ok {
			continue
		}
		a.Energy -= sp.EnergyDecay
		if a.Energy <= 0 {
			next.Grid.Remove(a.Pos)
			delete(next.Agents, id)
			ev.RecordStarved(id, a.Kind)
			continue
		}
		next.Agents[id] = a
	}

	// Frozen post-decay snapshot: every rule sees the same
	// neighborhood regardless of its slot in the permutation.
	frozen := next.Clone()

	order := next.SortedIDs()
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var births []birthRequest

	for _, id := range order {
		a, alive := next.Agents[id]
		if !alive {
			// consumed earlier this tick
			continue
		}

		intent := behavior.For(a.Kind)(a, frozen, sc.cfg, rng)

		if intent.Move {
			a = sc.applyMove(next, a, intent.Target, ev)
		}
		if intent.Spawn {
			births = append(births, birthRequest{parentID: id, hasCell: true, cell: intent.SpawnAt})
		}

		if sp, ok := behavior.Species(sc.cfg, a.Kind); ok {
			if a.Energy >= sp.ReproThreshold && rng.Float64() < sp.ReproChance {
				births = append(births, birthRequest{parentID: id})
			}
		}

		next.Agents[id] = a
	}

	sc.applyBirths(next, births, rng, ev)

	// Survivors of the previous tick age one step; newborns stay 0.
	for _, id := range next.SortedIDs() {
		a := next.Agents[id]
		if a.BirthTick < tick {
			a.Age++
			next.Agents[id] = a
		}
	}

	return next, ev
}

// applyMove resolves one movement intent against the working state.
// Landing on the agent's food kind consumes it; landing on any other
// occupant cancels the move.
func (sc *Scheduler) applyMove(next *world.State, a world.Agent, target world.Pos, ev *telemetry.Events) world.Agent {
	if !next.Grid.InBounds(target) || target == a.Pos {
		return a
	}

	if occID, occupied := next.Grid.IDAt(target); occupied {
		food, eats := behavior.FoodKind(a.Kind)
		prey := next.Agents[occID]
		if !eats || prey.Kind != food {
			return a
		}
		next.Grid.Remove(prey.Pos)
		delete(next.Agents, occID)
		ev.RecordEaten(occID, prey.Kind)
		sp, _ := behavior.Species(sc.cfg, a.Kind)
		a.Energy += sp.EnergyGain
	}

	next.Grid.Remove(a.Pos)
	if err := next.Grid.Place(a.ID, target); err != nil {
		// cannot happen: target was checked empty above
		_ = next.Grid.Place(a.ID, a.Pos)
		return a
	}
	a.Pos = target
	return a
}

// applyBirths places queued newborns. Each needs an empty cell at
// application time; requests that lost their cell to an earlier
// newborn (or whose parent is gone) are skipped.
func (sc *Scheduler) applyBirths(next *world.State, births []birthRequest, rng *rand.Rand, ev *telemetry.Events) {
	for _, b := range births {
		parent, ok := next.Agents[b.parentID]
		if !ok {
			continue
		}

		var cell world.Pos
		if b.hasCell {
			if !next.Grid.IsEmpty(b.cell) {
				continue
			}
			cell = b.cell
		} else {
			open := behavior.EmptyNeighbors(next, parent.Pos)
			if len(open) == 0 {
				continue
			}
			cell = open[rng.IntN(len(open))]
		}

		energy := sc.cfg.Plants.InitialEnergy
		if parent.Kind != world.KindPlant {
			// Offspring takes half the parent's energy, parent keeps
			// the remainder.
			energy = parent.Energy / 2
			if energy <= 0 {
				continue
			}
			parent.Energy -= energy
			next.Agents[parent.ID] = parent
		}

		child := world.Agent{
			ID:        sc.nextID,
			Kind:      parent.Kind,
			Pos:       cell,
			Energy:    energy,
			BirthTick: next.Tick,
		}
		sc.nextID++
		next.Agents[child.ID] = child
		if err := next.Grid.Place(child.ID, cell); err != nil {
			// cannot happen: cell was checked empty above
			delete(next.Agents, child.ID)
			continue
		}
		ev.RecordBirth(child.Kind)
	}
}
