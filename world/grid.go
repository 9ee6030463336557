package world

import (
	"errors"
	"fmt"
)

// Grid errors. Out-of-range placements are caller bugs surfaced as
// errors; during normal stepping the scheduler only ever places onto
// cells it has already checked.
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrOccupied    = errors.New("cell occupied")
)

// Grid is a pure spatial index over agents: each cell holds at most one
// agent ID. It owns no behavior. A fresh grid is built for every
// published state so past snapshots stay valid for replay.
type Grid struct {
	w, h  int
	cells []uint32 // 0 = empty, otherwise agent ID + 1
}

// NewGrid allocates an empty w x h grid.
func NewGrid(w, h int) *Grid {
	return &Grid{w: w, h: h, cells: make([]uint32, w*h)}
}

// Bounds returns the grid dimensions.
func (g *Grid) Bounds() (w, h int) { return g.w, g.h }

// InBounds reports whether p lies inside the grid.
func (g *Grid) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

func (g *Grid) idx(p Pos) int { return p.Y*g.w + p.X }

// IsEmpty reports whether p is in bounds and unoccupied.
func (g *Grid) IsEmpty(p Pos) bool {
	return g.InBounds(p) && g.cells[g.idx(p)] == 0
}

// IDAt returns the agent ID occupying p, if any.
func (g *Grid) IDAt(p Pos) (uint32, bool) {
	if !g.InBounds(p) {
		return 0, false
	}
	v := g.cells[g.idx(p)]
	if v == 0 {
		return 0, false
	}
	return v - 1, true
}

// Place puts an agent ID onto p. Fails if p is out of bounds or taken.
func (g *Grid) Place(id uint32, p Pos) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, p.X, p.Y)
	}
	if g.cells[g.idx(p)] != 0 {
		return fmt.Errorf("%w: (%d, %d)", ErrOccupied, p.X, p.Y)
	}
	g.cells[g.idx(p)] = id + 1
	return nil
}

// Remove clears the cell at p. No-op if p is out of bounds or empty.
func (g *Grid) Remove(p Pos) {
	if g.InBounds(p) {
		g.cells[g.idx(p)] = 0
	}
}

// Move relocates the occupant of from to to. The destination must be
// empty; the scheduler checks before calling.
func (g *Grid) Move(from, to Pos) error {
	id, ok := g.IDAt(from)
	if !ok {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, from.X, from.Y)
	}
	if err := g.Place(id, to); err != nil {
		return err
	}
	g.cells[g.idx(from)] = 0
	return nil
}

// Clone returns a deep copy. The scheduler clones the previous tick's
// grid as its working copy instead of mutating the published one.
func (g *Grid) Clone() *Grid {
	c := &Grid{w: g.w, h: g.h, cells: make([]uint32, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}
