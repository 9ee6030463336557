package world

import (
	"sort"
	"strings"
)

// State is one published simulation snapshot: the grid, the agent
// records, and the tick number. A State is immutable once it enters
// the history; the scheduler derives the next tick from a working copy
// and never touches a published one.
type State struct {
	Tick   int32
	Grid   *Grid
	Agents map[uint32]Agent
}

// NewState creates an empty state for the given grid dimensions.
func NewState(w, h int) *State {
	return &State{
		Grid:   NewGrid(w, h),
		Agents: make(map[uint32]Agent),
	}
}

// AgentAt returns the agent occupying p, if any. This is the
// click-to-select query used by the viewer.
func (s *State) AgentAt(p Pos) (Agent, bool) {
	id, ok := s.Grid.IDAt(p)
	if !ok {
		return Agent{}, false
	}
	return s.Agents[id], true
}

// Agent returns the agent with the given ID, if it is alive in this state.
func (s *State) Agent(id uint32) (Agent, bool) {
	a, ok := s.Agents[id]
	return a, ok
}

// Count returns the number of agents of the given kind.
func (s *State) Count(k Kind) int {
	n := 0
	for _, a := range s.Agents {
		if a.Kind == k {
			n++
		}
	}
	return n
}

// SortedIDs returns all agent IDs in ascending order. Map iteration
// order is not deterministic, so everything that must be reproducible
// starts from this slice.
func (s *State) SortedIDs() []uint32 {
	ids := make([]uint32, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AgentsNear returns the agents within the given Chebyshev radius of p,
// excluding any agent standing on p itself. Results are ordered by
// distance, ties broken by lowest (x, y), so callers get a
// deterministic nearest-first scan.
func (s *State) AgentsNear(p Pos, radius int) []Agent {
	var out []Agent
	for _, a := range s.Agents {
		if a.Pos == p {
			continue
		}
		if p.Chebyshev(a.Pos) <= radius {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := p.Chebyshev(out[i].Pos), p.Chebyshev(out[j].Pos)
		if di != dj {
			return di < dj
		}
		return out[i].Pos.Less(out[j].Pos)
	})
	return out
}

// NearestOfKind returns the closest agent of the given kind within the
// Chebyshev radius of p. Ties are broken by lowest (x, y) lexicographic
// position; positions are unique, so the result does not depend on map
// iteration order.
func (s *State) NearestOfKind(p Pos, k Kind, radius int) (Agent, bool) {
	var best Agent
	found := false
	for _, a := range s.Agents {
		if a.Kind != k || a.Pos == p {
			continue
		}
		d := p.Chebyshev(a.Pos)
		if d > radius {
			continue
		}
		if !found {
			best, found = a, true
			continue
		}
		bd := p.Chebyshev(best.Pos)
		if d < bd || (d == bd && a.Pos.Less(best.Pos)) {
			best = a
		}
	}
	return best, found
}

// Clone returns a deep working copy for the scheduler to mutate.
func (s *State) Clone() *State {
	agents := make(map[uint32]Agent, len(s.Agents))
	for id, a := range s.Agents {
		agents[id] = a
	}
	return &State{Tick: s.Tick, Grid: s.Grid.Clone(), Agents: agents}
}

// Equal reports whether two states hold the same tick and identical
// agent sets (ID, kind, position, energy, age). Used by replay tests.
func (s *State) Equal(o *State) bool {
	if s.Tick != o.Tick || len(s.Agents) != len(o.Agents) {
		return false
	}
	for id, a := range s.Agents {
		b, ok := o.Agents[id]
		if !ok || a != b {
			return false
		}
	}
	return true
}

// Render draws the grid as text, one rune per cell, '.' for empty.
// Rows are emitted top to bottom.
func (s *State) Render() string {
	w, h := s.Grid.Bounds()
	var b strings.Builder
	b.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if a, ok := s.AgentAt(Pos{X: x, Y: y}); ok {
				b.WriteRune(a.Kind.Rune())
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
