package telemetry

import "github.com/pthm-cable/ecosim/world"

// Track holds the observed history of a single followed agent.
type Track struct {
	ID        uint32
	Kind      world.Kind
	BirthTick int32
	Born      world.Pos

	// Last observed state
	Pos    world.Pos
	Energy int
	Age    int32

	Dead  bool
	Cause world.DeathCause
}

// Tracker follows one agent at a time across newly computed ticks,
// recording its position, energy, and eventual cause of death. The
// viewer uses it for click-to-track.
type Tracker struct {
	track *Track
}

// NewTracker creates an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Follow starts tracking the given agent, replacing any previous track.
func (t *Tracker) Follow(a world.Agent) {
	t.track = &Track{
		ID:        a.ID,
		Kind:      a.Kind,
		BirthTick: a.BirthTick,
		Born:      a.Pos,
		Pos:       a.Pos,
		Energy:    a.Energy,
		Age:       a.Age,
	}
}

// Clear stops tracking.
func (t *Tracker) Clear() {
	t.track = nil
}

// Current returns the active track, if any.
func (t *Tracker) Current() (Track, bool) {
	if t.track == nil {
		return Track{}, false
	}
	return *t.track, true
}

// Observe updates the track from a freshly computed state and its
// events. Once the agent is gone the recorded cause sticks.
func (t *Tracker) Observe(s *world.State, ev *Events) {
	if t.track == nil || t.track.Dead {
		return
	}
	if a, ok := s.Agent(t.track.ID); ok {
		t.track.Pos = a.Pos
		t.track.Energy = a.Energy
		t.track.Age = a.Age
		return
	}
	t.track.Dead = true
	t.track.Energy = 0
	if ev != nil {
		if cause, ok := ev.Causes[t.track.ID]; ok {
			t.track.Cause = cause
		}
	}
}
