package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/ecosim/world"
)

func addAgent(t *testing.T, s *world.State, id uint32, k world.Kind, p world.Pos, energy int) {
	t.Helper()
	s.Agents[id] = world.Agent{ID: id, Kind: k, Pos: p, Energy: energy}
	if err := s.Grid.Place(id, p); err != nil {
		t.Fatalf("placing agent %d: %v", id, err)
	}
}

func TestComputeCounts(t *testing.T) {
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindPlant, world.Pos{X: 0, Y: 0}, 5)
	addAgent(t, s, 1, world.KindPlant, world.Pos{X: 1, Y: 0}, 5)
	addAgent(t, s, 2, world.KindHerbivore, world.Pos{X: 2, Y: 0}, 10)
	addAgent(t, s, 3, world.KindHerbivore, world.Pos{X: 3, Y: 0}, 20)
	addAgent(t, s, 4, world.KindCarnivore, world.Pos{X: 4, Y: 0}, 50)

	st := Compute(s, Events{})

	if st.Plants != 2 || st.Herbivores != 2 || st.Carnivores != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1", st.Plants, st.Herbivores, st.Carnivores)
	}
	if st.Total() != len(s.Agents) {
		t.Errorf("Total = %d, want %d", st.Total(), len(s.Agents))
	}
}

func TestComputeEnergyDistribution(t *testing.T) {
	s := world.NewState(10, 10)
	addAgent(t, s, 0, world.KindHerbivore, world.Pos{X: 0, Y: 0}, 10)
	addAgent(t, s, 1, world.KindHerbivore, world.Pos{X: 1, Y: 0}, 20)
	addAgent(t, s, 2, world.KindHerbivore, world.Pos{X: 2, Y: 0}, 30)

	st := Compute(s, Events{})

	if math.Abs(st.HerbEnergyMean-20) > 0.001 {
		t.Errorf("mean = %v, want 20", st.HerbEnergyMean)
	}
	// Population variance of {10, 20, 30} is 200/3.
	if math.Abs(st.HerbEnergyVar-200.0/3.0) > 0.001 {
		t.Errorf("variance = %v, want %v", st.HerbEnergyVar, 200.0/3.0)
	}
	if st.HerbEnergyMin != 10 || st.HerbEnergyMax != 30 {
		t.Errorf("min/max = %v/%v, want 10/30", st.HerbEnergyMin, st.HerbEnergyMax)
	}
}

func TestComputeEmptyKinds(t *testing.T) {
	s := world.NewState(5, 5)
	st := Compute(s, Events{})

	if st.Total() != 0 {
		t.Errorf("Total = %d, want 0", st.Total())
	}
	if st.HerbEnergyMean != 0 || st.HerbEnergyVar != 0 || st.CarnEnergyMin != 0 {
		t.Error("empty kinds must report zeros, not NaN")
	}
}

func TestComputeCarriesEvents(t *testing.T) {
	s := world.NewState(5, 5)
	ev := NewEvents()
	ev.RecordBirth(world.KindPlant)
	ev.RecordBirth(world.KindHerbivore)
	ev.RecordEaten(3, world.KindPlant)
	ev.RecordStarved(4, world.KindCarnivore)

	st := Compute(s, *ev)

	if st.PlantBirths != 1 || st.HerbBirths != 1 || st.CarnBirths != 0 {
		t.Errorf("births = %d/%d/%d, want 1/1/0", st.PlantBirths, st.HerbBirths, st.CarnBirths)
	}
	if st.PlantsEaten != 1 {
		t.Errorf("plants eaten = %d, want 1", st.PlantsEaten)
	}
	if st.CarnStarved != 1 {
		t.Errorf("carnivores starved = %d, want 1", st.CarnStarved)
	}
}

func TestTotalsAdd(t *testing.T) {
	var totals Totals

	e1 := NewEvents()
	e1.RecordBirth(world.KindHerbivore)
	e1.RecordEaten(1, world.KindPlant)
	e2 := NewEvents()
	e2.RecordBirth(world.KindHerbivore)
	e2.RecordStarved(2, world.KindHerbivore)

	totals.Add(e1)
	totals.Add(e2)

	if totals.Ticks != 2 {
		t.Errorf("ticks = %d, want 2", totals.Ticks)
	}
	if totals.Births[world.KindHerbivore] != 2 {
		t.Errorf("herb births = %d, want 2", totals.Births[world.KindHerbivore])
	}
	if totals.Eaten[world.KindPlant] != 1 || totals.Starved[world.KindHerbivore] != 1 {
		t.Error("eaten/starved totals wrong")
	}
}
