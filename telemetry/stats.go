// Package telemetry derives per-tick statistics from published states
// and handles stats output and per-agent tracking.
package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ecosim/world"
)

// Stats summarizes one published state. It is derived fresh from the
// state every tick, never accumulated, so replayed ticks always report
// identical numbers.
type Stats struct {
	Tick int32 `csv:"tick"`

	// Population counts
	Plants     int `csv:"plants"`
	Herbivores int `csv:"herbivores"`
	Carnivores int `csv:"carnivores"`

	// Energy distribution per kind (population variance; zero when the
	// kind is absent)
	PlantEnergyMean float64 `csv:"plant_energy_mean"`
	HerbEnergyMean  float64 `csv:"herb_energy_mean"`
	HerbEnergyVar   float64 `csv:"herb_energy_var"`
	HerbEnergyMin   float64 `csv:"herb_energy_min"`
	HerbEnergyMax   float64 `csv:"herb_energy_max"`
	CarnEnergyMean  float64 `csv:"carn_energy_mean"`
	CarnEnergyVar   float64 `csv:"carn_energy_var"`
	CarnEnergyMin   float64 `csv:"carn_energy_min"`
	CarnEnergyMax   float64 `csv:"carn_energy_max"`

	// Events during the tick that produced this state
	PlantBirths int `csv:"plant_births"`
	HerbBirths  int `csv:"herb_births"`
	CarnBirths  int `csv:"carn_births"`
	PlantsEaten int `csv:"plants_eaten"`
	HerbsEaten  int `csv:"herbs_eaten"`
	HerbStarved int `csv:"herb_starved"`
	CarnStarved int `csv:"carn_starved"`
}

// Total returns the total agent count across kinds.
func (s Stats) Total() int {
	return s.Plants + s.Herbivores + s.Carnivores
}

// Count returns the population count for the given kind.
func (s Stats) Count(k world.Kind) int {
	switch k {
	case world.KindPlant:
		return s.Plants
	case world.KindHerbivore:
		return s.Herbivores
	default:
		return s.Carnivores
	}
}

// Compute derives the statistics for a state and the events of the
// tick that produced it. For tick 0 pass a zero Events.
func Compute(s *world.State, ev Events) Stats {
	st := Stats{
		Tick:        s.Tick,
		PlantBirths: ev.Births[world.KindPlant],
		HerbBirths:  ev.Births[world.KindHerbivore],
		CarnBirths:  ev.Births[world.KindCarnivore],
		PlantsEaten: ev.Eaten[world.KindPlant],
		HerbsEaten:  ev.Eaten[world.KindHerbivore],
		HerbStarved: ev.Starved[world.KindHerbivore],
		CarnStarved: ev.Starved[world.KindCarnivore],
	}

	var energies [world.NumKinds][]float64
	for _, a := range s.Agents {
		energies[a.Kind] = append(energies[a.Kind], float64(a.Energy))
	}

	st.Plants = len(energies[world.KindPlant])
	st.Herbivores = len(energies[world.KindHerbivore])
	st.Carnivores = len(energies[world.KindCarnivore])

	st.PlantEnergyMean = meanOrZero(energies[world.KindPlant])
	st.HerbEnergyMean, st.HerbEnergyVar, st.HerbEnergyMin, st.HerbEnergyMax = distribution(energies[world.KindHerbivore])
	st.CarnEnergyMean, st.CarnEnergyVar, st.CarnEnergyMin, st.CarnEnergyMax = distribution(energies[world.KindCarnivore])

	return st
}

func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

func distribution(values []float64) (mean, variance, min, max float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)
	variance = stat.PopVariance(values, nil)
	min = floats.Min(values)
	max = floats.Max(values)
	return mean, variance, min, max
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", int(s.Tick)),
		slog.Int("plants", s.Plants),
		slog.Int("herbivores", s.Herbivores),
		slog.Int("carnivores", s.Carnivores),
		slog.Float64("herb_energy_mean", s.HerbEnergyMean),
		slog.Float64("carn_energy_mean", s.CarnEnergyMean),
		slog.Int("plant_births", s.PlantBirths),
		slog.Int("herb_births", s.HerbBirths),
		slog.Int("carn_births", s.CarnBirths),
		slog.Int("plants_eaten", s.PlantsEaten),
		slog.Int("herbs_eaten", s.HerbsEaten),
		slog.Int("herb_starved", s.HerbStarved),
		slog.Int("carn_starved", s.CarnStarved),
	)
}
