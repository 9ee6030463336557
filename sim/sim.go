package sim

import (
	"github.com/pthm-cable/ecosim/config"
	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/world"
)

// Sim is the engine facade the driver consumes: a validated config, a
// scheduler, and the history buffer. All engine state flows through
// the history's append-only sequence; nothing else persists between
// calls.
type Sim struct {
	cfg     *config.Config
	sched   *Scheduler
	hist    *History
	tracker *telemetry.Tracker
	totals  telemetry.Totals
	seed    int64
}

// New validates the configuration, seeds tick 0 with the initial
// populations at random non-colliding positions, and returns a ready
// engine. Fails with config.ErrInvalid before any stepping can start.
func New(cfg *config.Config, seed int64) (*Sim, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	streams := world.NewStream(seed)
	state, nextID := seedState(cfg, streams)
	stats := telemetry.Compute(state, telemetry.Events{})

	return &Sim{
		cfg:     cfg,
		sched:   NewScheduler(cfg, streams, nextID),
		hist:    NewHistory(Entry{State: state, Stats: stats}),
		tracker: telemetry.NewTracker(),
		seed:    seed,
	}, nil
}

// seedState builds tick 0. Cells are dealt from a shuffled deck of all
// grid positions, so initial placement never collides and terminates
// for any validated population size.
func seedState(cfg *config.Config, streams *world.Stream) (*world.State, uint32) {
	rng := streams.Placement()
	w, h := cfg.Grid.Width, cfg.Grid.Height

	cells := make([]world.Pos, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cells = append(cells, world.Pos{X: x, Y: y})
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	s := world.NewState(w, h)
	var id uint32
	place := func(kind world.Kind, count, energy int) {
		for i := 0; i < count; i++ {
			pos := cells[id]
			a := world.Agent{ID: id, Kind: kind, Pos: pos, Energy: energy}
			s.Agents[id] = a
			if err := s.Grid.Place(id, pos); err != nil {
				// cannot happen: deck cells are unique and validated to fit
				panic(err)
			}
			id++
		}
	}
	place(world.KindPlant, cfg.Plants.InitialCount, cfg.Plants.InitialEnergy)
	place(world.KindHerbivore, cfg.Herbivores.InitialCount, cfg.Herbivores.InitialEnergy)
	place(world.KindCarnivore, cfg.Carnivores.InitialCount, cfg.Carnivores.InitialEnergy)

	return s, id
}

// Seed returns the run seed.
func (s *Sim) Seed() int64 { return s.seed }

// Config returns the simulation configuration.
func (s *Sim) Config() *config.Config { return s.cfg }

// History exposes the tick history for direct navigation.
func (s *Sim) History() *History { return s.hist }

// Tracker exposes the agent tracker for click-to-track.
func (s *Sim) Tracker() *telemetry.Tracker { return s.tracker }

// Totals returns the cumulative event counts of all computed ticks.
func (s *Sim) Totals() telemetry.Totals { return s.totals }

// Current returns the state and statistics under the history cursor.
func (s *Sim) Current() (*world.State, telemetry.Stats) {
	e := s.hist.Current()
	return e.State, e.Stats
}

// StepForward advances one tick. Behind the tip it replays the
// recorded entry without recomputation; at the tip it computes the
// next state, derives its statistics, and appends.
func (s *Sim) StepForward() (*world.State, telemetry.Stats, error) {
	if e, ok := s.hist.Forward(); ok {
		return e.State, e.Stats, nil
	}

	cur := s.hist.Current()
	next, ev := s.sched.Step(cur.State)
	stats := telemetry.Compute(next, *ev)

	s.totals.Add(ev)
	s.tracker.Observe(next, ev)

	e := Entry{State: next, Stats: stats}
	if err := s.hist.Append(e); err != nil {
		return cur.State, cur.Stats, err
	}
	return next, stats, nil
}

// StepBackward moves the cursor one tick back. At tick 0 the state is
// unchanged and ErrBoundary is reported; callers ignore it and keep
// their current view.
func (s *Sim) StepBackward() (*world.State, telemetry.Stats, error) {
	e, err := s.hist.Backward()
	return e.State, e.Stats, err
}

// JumpTo seeks directly to a recorded tick.
func (s *Sim) JumpTo(tick int32) (*world.State, telemetry.Stats, error) {
	e, err := s.hist.JumpTo(tick)
	return e.State, e.Stats, err
}
