package sim

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/ecosim/telemetry"
	"github.com/pthm-cable/ecosim/world"
)

// ErrBoundary reports navigation past the edge of recorded history.
// It is informational: the caller keeps its current entry and carries
// on.
var ErrBoundary = errors.New("history boundary")

// Entry pairs one published state with its derived statistics.
type Entry struct {
	State *world.State
	Stats telemetry.Stats
}

// History is the append-only sequence of simulation ticks plus a read
// cursor. Appending happens only at the tip; moving the cursor never
// recomputes, so revisited ticks are bit-identical.
type History struct {
	entries []Entry
	cursor  int
}

// NewHistory creates a history holding the initial tick, cursor on it.
func NewHistory(first Entry) *History {
	return &History{entries: []Entry{first}}
}

// Len returns the number of recorded ticks.
func (h *History) Len() int { return len(h.entries) }

// Cursor returns the current cursor index.
func (h *History) Cursor() int { return h.cursor }

// AtTip reports whether the cursor sits on the newest entry.
func (h *History) AtTip() bool { return h.cursor == len(h.entries)-1 }

// Current returns the entry under the cursor.
func (h *History) Current() Entry { return h.entries[h.cursor] }

// Append records a new tick at the tip and moves the cursor onto it.
// The caller must be at the tip; stepping forward off the tip is the
// only way new ticks are produced.
func (h *History) Append(e Entry) error {
	if !h.AtTip() {
		return fmt.Errorf("%w: append with cursor at %d of %d", ErrBoundary, h.cursor, len(h.entries))
	}
	h.entries = append(h.entries, e)
	h.cursor++
	return nil
}

// Forward advances the cursor within recorded history. Returns false
// at the tip, where the scheduler must compute a new tick instead.
func (h *History) Forward() (Entry, bool) {
	if h.AtTip() {
		return Entry{}, false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// Backward moves the cursor one tick back. At tick 0 the cursor stays
// put and ErrBoundary is reported.
func (h *History) Backward() (Entry, error) {
	if h.cursor == 0 {
		return h.entries[0], ErrBoundary
	}
	h.cursor--
	return h.entries[h.cursor], nil
}

// JumpTo seeks the cursor directly to the given tick.
func (h *History) JumpTo(tick int32) (Entry, error) {
	if tick < 0 || int(tick) >= len(h.entries) {
		return h.entries[h.cursor], fmt.Errorf("%w: tick %d outside [0, %d]", ErrBoundary, tick, len(h.entries)-1)
	}
	h.cursor = int(tick)
	return h.entries[h.cursor], nil
}
