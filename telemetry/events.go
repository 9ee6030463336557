package telemetry

import "github.com/pthm-cable/ecosim/world"

// Events accumulates the birth and death events of a single tick. The
// scheduler records into a fresh Events per tick; the aggregator folds
// them into the tick's Stats.
type Events struct {
	Births  [world.NumKinds]int
	Eaten   [world.NumKinds]int
	Starved [world.NumKinds]int

	// Causes maps each removed agent to why it was removed.
	Causes map[uint32]world.DeathCause
}

// NewEvents creates an empty event record for one tick.
func NewEvents() *Events {
	return &Events{Causes: make(map[uint32]world.DeathCause)}
}

// RecordBirth records a new agent of the given kind.
func (e *Events) RecordBirth(k world.Kind) {
	e.Births[k]++
}

// RecordEaten records an agent consumed by a predator.
func (e *Events) RecordEaten(id uint32, k world.Kind) {
	e.Eaten[k]++
	e.Causes[id] = world.DiedPredation
}

// RecordStarved records an agent that ran out of energy.
func (e *Events) RecordStarved(id uint32, k world.Kind) {
	e.Starved[k]++
	e.Causes[id] = world.DiedStarvation
}

// Totals accumulates event counts across an entire run for the
// end-of-run report.
type Totals struct {
	Births  [world.NumKinds]int
	Eaten   [world.NumKinds]int
	Starved [world.NumKinds]int
	Ticks   int
}

// Add folds one tick's events into the running totals.
func (t *Totals) Add(e *Events) {
	for k := 0; k < world.NumKinds; k++ {
		t.Births[k] += e.Births[k]
		t.Eaten[k] += e.Eaten[k]
		t.Starved[k] += e.Starved[k]
	}
	t.Ticks++
}
