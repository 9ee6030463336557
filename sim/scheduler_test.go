package sim

import (
	"testing"

	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/world"
)

func testConfig() *config.Config {
	return &config.Config{
		Grid:   config.GridConfig{Width: 10, Height: 10},
		Plants: config.PlantConfig{InitialEnergy: 5, RegrowthChance: 0},
		Herbivores: config.SpeciesConfig{
			InitialEnergy: 30, EnergyGain: 7, EnergyDecay: 1,
			ReproThreshold: 1000, ReproChance: 0, VisionRadius: 5,
		},
		Carnivores: config.SpeciesConfig{
			InitialEnergy: 50, EnergyGain: 10, EnergyDecay: 1,
			ReproThreshold: 1000, ReproChance: 0, VisionRadius: 5,
		},
		Movement:  config.MoveConfig{StepSize: 1},
		Telemetry: config.TelemetryConfig{LogEvery: 0},
	}
}

func addAgent(t *testing.T, s *world.State, id uint32, k world.Kind, p world.Pos, energy int) {
	t.Helper()
	s.Agents[id] = world.Agent{ID: id, Kind: k, Pos: p, Energy: energy}
	if err := s.Grid.Place(id, p); err != nil {
		t.Fatalf("placing agent %d at %v: %v", id, p, err)
	}
}

// checkInvariants verifies cell exclusivity, energy non-negativity,
// and grid/agent-map agreement for a published state.
func checkInvariants(t *testing.T, s *world.State) {
	t.Helper()

	seen := make(map[world.Pos]uint32, len(s.Agents))
	for id, a := range s.Agents {
		if a.Energy < 0 {
			t.Errorf("tick %d: agent %d has negative energy %d", s.Tick, id, a.Energy)
		}
		if a.Kind != world.KindPlant && a.Energy == 0 {
			t.Errorf("tick %d: zero-energy %s %d was published", s.Tick, a.Kind, id)
		}
		if other, dup := seen[a.Pos]; dup {
			t.Errorf("tick %d: agents %d and %d share cell %v", s.Tick, id, other, a.Pos)
		}
		seen[a.Pos] = id
		if gid, ok := s.Grid.IDAt(a.Pos); !ok || gid != id {
			t.Errorf("tick %d: grid cell %v holds %d, agent map says %d", s.Tick, a.Pos, gid, id)
		}
	}

	w, h := s.Grid.Bounds()
	occupied := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if _, ok := s.Grid.IDAt(world.Pos{X: x, Y: y}); ok {
				occupied++
			}
		}
	}
	if occupied != len(s.Agents) {
		t.Errorf("tick %d: grid holds %d cells, agent map holds %d agents", s.Tick, occupied, len(s.Agents))
	}
}

func TestStepHerbivoreEatsAdjacentPlant(t *testing.T) {
	// 10x10 grid, one herbivore at (2,2), one plant at (2,3): after one
	// step the plant is gone, the herbivore stands on (2,3), and its
	// energy is prior minus decay plus gain.
	cfg := testConfig()
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindPlant, world.Pos{X: 2, Y: 3}, 5)
	addAgent(t, s, 1, world.KindHerbivore, world.Pos{X: 2, Y: 2}, 30)

	sc := NewScheduler(cfg, world.NewStream(42), 2)
	next, ev := sc.Step(s)

	if next.Tick != 1 {
		t.Errorf("tick = %d, want 1", next.Tick)
	}
	if _, ok := next.Agent(0); ok {
		t.Error("plant still present after being eaten")
	}
	herb, ok := next.Agent(1)
	if !ok {
		t.Fatal("herbivore missing from next state")
	}
	if herb.Pos != (world.Pos{X: 2, Y: 3}) {
		t.Errorf("herbivore at %v, want (2,3)", herb.Pos)
	}
	if want := 30 - 1 + 7; herb.Energy != want {
		t.Errorf("herbivore energy = %d, want %d", herb.Energy, want)
	}
	if herb.Age != 1 {
		t.Errorf("herbivore age = %d, want 1", herb.Age)
	}
	if ev.Eaten[world.KindPlant] != 1 {
		t.Errorf("plants eaten = %d, want 1", ev.Eaten[world.KindPlant])
	}
	if cause, ok := ev.Causes[0]; !ok || cause != world.DiedPredation {
		t.Errorf("plant death cause = %v, %v; want predation", cause, ok)
	}
	checkInvariants(t, next)
}

func TestStepExactDecayStarves(t *testing.T) {
	// Energy exactly equal to the per-tick decay: the agent hits zero
	// and is absent from the published state.
	cfg := testConfig()
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindHerbivore, world.Pos{X: 4, Y: 4}, cfg.Herbivores.EnergyDecay)

	sc := NewScheduler(cfg, world.NewStream(7), 1)
	next, ev := sc.Step(s)

	if _, ok := next.Agent(0); ok {
		t.Error("starved herbivore still present")
	}
	if ev.Starved[world.KindHerbivore] != 1 {
		t.Errorf("herbivores starved = %d, want 1", ev.Starved[world.KindHerbivore])
	}
	if cause, ok := ev.Causes[0]; !ok || cause != world.DiedStarvation {
		t.Errorf("death cause = %v, %v; want starvation", cause, ok)
	}
	checkInvariants(t, next)
}

func TestStepContestedCellOneWinner(t *testing.T) {
	// Two herbivores flank one plant. Whoever acts first eats it and
	// takes the cell; the other's move is cancelled for the tick.
	cfg := testConfig()
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindPlant, world.Pos{X: 5, Y: 5}, 5)
	addAgent(t, s, 1, world.KindHerbivore, world.Pos{X: 5, Y: 4}, 30)
	addAgent(t, s, 2, world.KindHerbivore, world.Pos{X: 5, Y: 6}, 30)

	sc := NewScheduler(cfg, world.NewStream(3), 3)
	next, ev := sc.Step(s)

	if _, ok := next.Agent(0); ok {
		t.Error("plant survived two adjacent herbivores")
	}
	if ev.Eaten[world.KindPlant] != 1 {
		t.Errorf("plants eaten = %d, want exactly 1", ev.Eaten[world.KindPlant])
	}

	winner, ok := next.AgentAt(world.Pos{X: 5, Y: 5})
	if !ok || winner.Kind != world.KindHerbivore {
		t.Fatal("contested cell not taken by a herbivore")
	}
	if want := 30 - 1 + 7; winner.Energy != want {
		t.Errorf("winner energy = %d, want %d", winner.Energy, want)
	}

	var loser world.Agent
	for _, id := range []uint32{1, 2} {
		if id != winner.ID {
			loser, _ = next.Agent(id)
		}
	}
	if want := 30 - 1; loser.Energy != want {
		t.Errorf("loser energy = %d, want %d (decay only)", loser.Energy, want)
	}
	if loser.Pos == (world.Pos{X: 5, Y: 5}) {
		t.Error("both herbivores ended on the contested cell")
	}
	checkInvariants(t, next)
}

func TestStepCarnivoreEatsHerbivore(t *testing.T) {
	cfg := testConfig()
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindHerbivore, world.Pos{X: 3, Y: 3}, 2)
	addAgent(t, s, 1, world.KindCarnivore, world.Pos{X: 3, Y: 4}, 50)

	sc := NewScheduler(cfg, world.NewStream(11), 2)
	next, ev := sc.Step(s)

	// The herbivore survives decay (energy 1) and may move before the
	// carnivore acts; either way the tick ends with at most one
	// predation and a consistent state.
	if ev.Eaten[world.KindHerbivore] > 1 {
		t.Errorf("herbivores eaten = %d, want at most 1", ev.Eaten[world.KindHerbivore])
	}
	carn, ok := next.Agent(1)
	if !ok {
		t.Fatal("carnivore missing from next state")
	}
	if ev.Eaten[world.KindHerbivore] == 1 {
		if _, alive := next.Agent(0); alive {
			t.Error("eaten herbivore still present")
		}
		if want := 50 - 1 + 10; carn.Energy != want {
			t.Errorf("carnivore energy = %d, want %d after a kill", carn.Energy, want)
		}
	}
	checkInvariants(t, next)
}

func TestStepReproductionSplitsEnergy(t *testing.T) {
	cfg := testConfig()
	cfg.Herbivores.ReproThreshold = 10
	cfg.Herbivores.ReproChance = 1.0
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindHerbivore, world.Pos{X: 5, Y: 5}, 21)

	sc := NewScheduler(cfg, world.NewStream(5), 1)
	next, ev := sc.Step(s)

	if ev.Births[world.KindHerbivore] != 1 {
		t.Fatalf("herbivore births = %d, want 1", ev.Births[world.KindHerbivore])
	}
	parent, ok := next.Agent(0)
	if !ok {
		t.Fatal("parent missing from next state")
	}
	child, ok := next.Agent(1)
	if !ok {
		t.Fatal("child missing from next state")
	}
	// Post-decay the parent held 20; the child takes half, the parent
	// keeps the remainder.
	if child.Energy != 10 || parent.Energy != 10 {
		t.Errorf("energies parent=%d child=%d, want 10 and 10", parent.Energy, child.Energy)
	}
	if child.Age != 0 || child.BirthTick != 1 {
		t.Errorf("child age=%d birth_tick=%d, want 0 and 1", child.Age, child.BirthTick)
	}
	if d := parent.Pos.Chebyshev(child.Pos); d != 1 {
		t.Errorf("child at %v, distance %d from parent, want adjacent", child.Pos, d)
	}
	checkInvariants(t, next)
}

func TestStepPlantRegrowth(t *testing.T) {
	cfg := testConfig()
	cfg.Plants.RegrowthChance = 1.0
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindPlant, world.Pos{X: 5, Y: 5}, 5)

	sc := NewScheduler(cfg, world.NewStream(9), 1)
	next, ev := sc.Step(s)

	if ev.Births[world.KindPlant] != 1 {
		t.Fatalf("plant births = %d, want 1", ev.Births[world.KindPlant])
	}
	child, ok := next.Agent(1)
	if !ok {
		t.Fatal("seeded plant missing")
	}
	if child.Kind != world.KindPlant || child.Energy != cfg.Plants.InitialEnergy {
		t.Errorf("child = %+v, want a plant with initial energy %d", child, cfg.Plants.InitialEnergy)
	}
	if d := child.Pos.Chebyshev(world.Pos{X: 5, Y: 5}); d != 1 {
		t.Errorf("seed at %v, want adjacent to parent", child.Pos)
	}
	checkInvariants(t, next)
}

func TestStepDeterministicReplay(t *testing.T) {
	// Same seed, same config: two independent schedulers produce
	// identical states tick by tick.
	cfg := testConfig()
	cfg.Plants.RegrowthChance = 0.2
	cfg.Herbivores.ReproThreshold = 15
	cfg.Herbivores.ReproChance = 0.5

	build := func() *world.State {
		s := world.NewState(10, 10)
		addAgent(t, s, 0, world.KindPlant, world.Pos{X: 1, Y: 1}, 5)
		addAgent(t, s, 1, world.KindPlant, world.Pos{X: 8, Y: 2}, 5)
		addAgent(t, s, 2, world.KindHerbivore, world.Pos{X: 4, Y: 4}, 30)
		addAgent(t, s, 3, world.KindHerbivore, world.Pos{X: 6, Y: 7}, 30)
		addAgent(t, s, 4, world.KindCarnivore, world.Pos{X: 0, Y: 9}, 50)
		return s
	}

	a := build()
	b := build()
	sca := NewScheduler(cfg, world.NewStream(1234), 5)
	scb := NewScheduler(cfg, world.NewStream(1234), 5)

	for tick := 0; tick < 50; tick++ {
		a, _ = sca.Step(a)
		b, _ = scb.Step(b)
		if !a.Equal(b) {
			t.Fatalf("states diverged at tick %d", a.Tick)
		}
	}
}
