// Package tui is the interactive terminal driver. It consumes the
// engine strictly through the state-query/step API and owns no
// simulation state of its own.
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/ecosim/sim"
	"github.com/pthm-cable/ecosim/world"
)

var kindStyles = map[world.Kind]tcell.Style{
	world.KindPlant:     tcell.StyleDefault.Foreground(tcell.ColorGreen),
	world.KindHerbivore: tcell.StyleDefault.Foreground(tcell.ColorYellow),
	world.KindCarnivore: tcell.StyleDefault.Foreground(tcell.ColorRed),
}

// Viewer renders the grid and drives the simulation from keyboard and
// mouse input.
type Viewer struct {
	screen tcell.Screen
	engine *sim.Sim

	running  bool // continuous stepping while true
	tickRate time.Duration
}

// NewViewer initializes the terminal screen.
func NewViewer(engine *sim.Sim) (*Viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.EnableMouse()
	return &Viewer{screen: screen, engine: engine, tickRate: 100 * time.Millisecond}, nil
}

// Run drives the event loop until the user quits.
func (v *Viewer) Run() error {
	defer v.screen.Fini()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(v.tickRate)
	defer ticker.Stop()

	v.draw()
	for {
		select {
		case ev := <-events:
			quit, err := v.handle(ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
			v.draw()
		case <-ticker.C:
			if v.running {
				if _, _, err := v.engine.StepForward(); err != nil {
					return err
				}
				v.draw()
			}
		}
	}
}

func (v *Viewer) handle(ev tcell.Event) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()

	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return true, nil
		case ev.Key() == tcell.KeyRight || ev.Rune() == ' ':
			_, _, err := v.engine.StepForward()
			return false, err
		case ev.Key() == tcell.KeyLeft:
			// ErrBoundary at tick 0 is expected; keep the current view
			v.engine.StepBackward()
		case ev.Key() == tcell.KeyHome:
			v.engine.JumpTo(0)
		case ev.Key() == tcell.KeyEnd:
			v.engine.JumpTo(int32(v.engine.History().Len() - 1))
		case ev.Rune() == 'r':
			v.running = !v.running
		case ev.Rune() == 't':
			v.engine.Tracker().Clear()
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			state, _ := v.engine.Current()
			if a, ok := state.AgentAt(world.Pos{X: x, Y: y - 1}); ok {
				v.engine.Tracker().Follow(a)
			}
		}
	}
	return false, nil
}

// draw renders the header, the grid, and the track line. The grid is
// drawn starting at row 1; cell (x, y) maps to screen (x, y+1).
func (v *Viewer) draw() {
	v.screen.Clear()
	state, stats := v.engine.Current()

	mode := "paused"
	if v.running {
		mode = "running"
	}
	header := fmt.Sprintf("tick %d/%d [%s]  plants %d  herbivores %d  carnivores %d   arrows: step  r: run  click: track  q: quit",
		state.Tick, v.engine.History().Len()-1, mode, stats.Plants, stats.Herbivores, stats.Carnivores)
	v.drawText(0, 0, header, tcell.StyleDefault.Bold(true))

	var trackedID uint32
	hasTrack := false
	if tr, ok := v.engine.Tracker().Current(); ok {
		hasTrack = true
		trackedID = tr.ID
		line := fmt.Sprintf("tracking %s #%d  pos (%d,%d)  energy %d  age %d", tr.Kind, tr.ID, tr.Pos.X, tr.Pos.Y, tr.Energy, tr.Age)
		if tr.Dead {
			line = fmt.Sprintf("tracking %s #%d  died: %s", tr.Kind, tr.ID, tr.Cause)
		}
		_, gh := state.Grid.Bounds()
		v.drawText(0, gh+1, line, tcell.StyleDefault.Foreground(tcell.ColorAqua))
	}

	gw, gh := state.Grid.Bounds()
	for y := 0; y < gh; y++ {
		for x := 0; x < gw; x++ {
			a, ok := state.AgentAt(world.Pos{X: x, Y: y})
			if !ok {
				v.screen.SetContent(x, y+1, '.', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
				continue
			}
			style := kindStyles[a.Kind]
			if hasTrack && a.ID == trackedID {
				style = style.Reverse(true)
			}
			v.screen.SetContent(x, y+1, a.Kind.Rune(), nil, style)
		}
	}

	v.screen.Show()
}

func (v *Viewer) drawText(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
