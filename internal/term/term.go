// Package term runs the sand simulation inside a terminal using tcell.
// Each terminal row shows two grid rows through the upper-half block glyph.
package term

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"

	"sandfall/internal/core"
	"sandfall/internal/input"
	"sandfall/internal/render"
	"sandfall/internal/sand"
)

const (
	upperHalf  = '▀'
	frameRate  = 60
	slipDelta  = 0.05
	statusRows = 1
)

type slipper interface {
	Slippage() float64
	SetSlippage(p float64)
}

// GridSize returns the grid that fills a w x h terminal above the status line.
func GridSize(w, h int) (rows, cols int) {
	rows = (h - statusRows) * 2
	if rows < 1 {
		rows = 1
	}
	if w < 1 {
		w = 1
	}
	return rows, w
}

// App couples a simulation to a tcell screen.
type App struct {
	screen  tcell.Screen
	sim     core.Sim
	pointer *input.Pointer
	clock   *core.FixedStep
	log     *log.Logger
	seed    int64

	paused   bool
	tickOnce bool
	snap     core.Snapshot
}

// New builds an App. The screen must already be initialized.
func New(screen tcell.Screen, sim core.Sim, colors core.ColorSupplier, tps int, seed int64, logger *log.Logger) *App {
	return &App{
		screen:  screen,
		sim:     sim,
		pointer: input.NewPointer(1, colors),
		clock:   core.NewFixedStep(tps),
		log:     logger,
		seed:    seed,
	}
}

// Paused reports whether automatic ticking is suspended.
func (a *App) Paused() bool { return a.paused }

// Run processes events and ticks until ctx is cancelled or the user quits.
func (a *App) Run(ctx context.Context) error {
	a.screen.EnableMouse()
	a.screen.HideCursor()
	defer a.screen.DisableMouse()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go a.screen.ChannelEvents(events, quit)

	frame := time.NewTicker(time.Second / frameRate)
	defer frame.Stop()

	a.log.WithFields(log.Fields{"tps": a.clock.TPS(), "rows": a.sim.Size().H, "cols": a.sim.Size().W}).Info("terminal session started")
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if a.HandleEvent(ev) {
				a.log.Info("terminal session ended")
				return nil
			}
		case now := <-frame.C:
			a.Update(now)
			a.Draw()
		}
	}
}

// HandleEvent applies one tcell event and reports whether the user asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		a.paused = false
		return false
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q':
		return true
	case ' ':
		a.paused = !a.paused
	case 'n':
		a.tickOnce = true
	case 'r':
		a.sim.Reset(a.seed)
		a.log.WithField("seed", a.seed).Info("simulation reset")
	case '+', '=':
		a.nudgeSlippage(slipDelta)
	case '-', '_':
		a.nudgeSlippage(-slipDelta)
	}
	return false
}

func (a *App) nudgeSlippage(delta float64) {
	s, ok := a.sim.(slipper)
	if !ok {
		return
	}
	s.SetSlippage(s.Slippage() + delta)
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	// The pointer works in grid units: one column per terminal column and
	// two rows per terminal row.
	px, py := float64(x), float64(y*2)
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.Button1 != 0:
		if a.pointer.Active() {
			a.pointer.Move(px, py)
		} else {
			a.pointer.Press(px, py)
		}
	case buttons&tcell.Button2 != 0:
		if walls, ok := a.sim.(core.ObstacleSetter); ok {
			walls.SetFixed(y*2, x, sand.WallColor)
			walls.SetFixed(y*2+1, x, sand.WallColor)
		}
	default:
		if a.pointer.Active() {
			a.pointer.Release()
		}
		a.pointer.Move(px, py)
	}
}

// Update applies pending input and runs every tick owed at now.
func (a *App) Update(now time.Time) {
	due := a.clock.StepsDue(now)
	if a.paused {
		due = 0
	}
	if a.tickOnce {
		due = 1
		a.tickOnce = false
	}
	if due == 0 {
		a.pointer.Apply(a.sim)
		return
	}
	for i := 0; i < due; i++ {
		a.pointer.Apply(a.sim)
		a.sim.Step()
	}
}

// Draw renders the grid and status line and shows the result.
func (a *App) Draw() {
	a.sim.SnapshotInto(&a.snap)
	w, h := a.screen.Size()
	bg := rgb(render.Background)
	for y := 0; y < h-statusRows; y++ {
		for x := 0; x < w; x++ {
			top := a.snap.At(y*2, x)
			bottom := a.snap.At(y*2+1, x)
			if !top.Present && !bottom.Present {
				a.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(bg))
				continue
			}
			style := tcell.StyleDefault.Foreground(bg).Background(bg)
			if top.Present {
				style = style.Foreground(rgb(top.Color))
			}
			if bottom.Present {
				style = style.Background(rgb(bottom.Color))
			}
			a.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	a.drawStatus(w, h)
	a.screen.Show()
}

func (a *App) drawStatus(w, h int) {
	if h < statusRows {
		return
	}
	state := "running"
	if a.paused {
		state = "paused"
	}
	slip := ""
	if s, ok := a.sim.(slipper); ok {
		slip = fmt.Sprintf("  slippage %.2f", s.Slippage())
	}
	line := fmt.Sprintf(" %s  tick %d  particles %d%s  [%s]  space pause  n step  r reset  +/- slip  q quit",
		a.sim.Name(), a.snap.Tick(), a.snap.Count(), slip, state)
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(line)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(runes) {
			r = runes[x]
		}
		a.screen.SetContent(x, h-1, r, nil, style)
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
