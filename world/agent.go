// Package world defines the spatial grid, the agent data model, and the
// immutable per-tick state snapshots the scheduler publishes.
package world

// Kind identifies an agent's species. The set is closed; behavior is
// dispatched through a rule table indexed by Kind, not subtyping.
type Kind uint8

const (
	KindPlant Kind = iota
	KindHerbivore
	KindCarnivore

	NumKinds = 3
)

// String returns the kind name for logs and CSV output.
func (k Kind) String() string {
	switch k {
	case KindPlant:
		return "plant"
	case KindHerbivore:
		return "herbivore"
	case KindCarnivore:
		return "carnivore"
	default:
		return "unknown"
	}
}

// Rune returns the single-character cell representation used by the
// ASCII renderer and the terminal viewer.
func (k Kind) Rune() rune {
	switch k {
	case KindPlant:
		return '*'
	case KindHerbivore:
		return 'H'
	case KindCarnivore:
		return 'C'
	default:
		return '?'
	}
}

// Pos is an integer grid coordinate.
type Pos struct {
	X, Y int
}

// Less orders positions lexicographically by (x, y). Used as the
// deterministic tie-break when several targets are equally close.
func (p Pos) Less(q Pos) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}

// Chebyshev returns the Chebyshev (chessboard) distance to q. All
// vision and adjacency in the engine uses this metric: the 8 Moore
// neighbors of a cell are exactly the cells at distance 1.
func (p Pos) Chebyshev(q Pos) int {
	dx := p.X - q.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - q.Y
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}

// Agent is one simulated entity occupying a single grid cell.
type Agent struct {
	ID        uint32
	Kind      Kind
	Pos       Pos
	Energy    int   // non-negative in every published state
	Age       int32 // ticks survived since creation
	BirthTick int32
}

// DeathCause labels why an agent left the simulation.
type DeathCause uint8

const (
	DiedStarvation DeathCause = iota
	DiedPredation
)

// String returns the death cause label.
func (d DeathCause) String() string {
	switch d {
	case DiedStarvation:
		return "starvation"
	case DiedPredation:
		return "predation"
	default:
		return "unknown"
	}
}
