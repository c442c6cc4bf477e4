//go:build ebiten

package app

import (
	"sandfall/internal/core"
	"sandfall/internal/input"
	"sandfall/internal/render"
	"sandfall/internal/sand"
	"sandfall/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	hudWidth  = 220
	slipDelta = 0.05
)

type slipper interface {
	Slippage() float64
	SetSlippage(p float64)
}

// Game adapts a sand simulation to the ebiten.Game interface. Ebiten calls
// Update at the configured TPS, so every Update is one tick.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pointer *input.Pointer
	log     *log.Logger
	snap    core.Snapshot

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for sim drawn at scale pixels per cell.
func New(sim core.Sim, colors core.ColorSupplier, scale int, seed int64, logger *log.Logger) (*Game, error) {
	if sim == nil {
		return nil, errors.New("app: simulation is required")
	}
	if scale <= 0 {
		scale = 1
	}
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		pointer: input.NewPointer(float64(scale), colors),
		log:     logger,
		scale:   scale,
		seed:    seed,
	}, nil
}

// Run opens the window and blocks until the user quits.
func (g *Game) Run(title string, tps int) error {
	w, h := g.WindowSize()
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(tps)
	ebiten.SetWindowSize(w, h)

	g.log.WithField("tps", tps).Info("window opened")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "run game")
	}
	return nil
}

// Reset clears the simulation with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
	g.log.WithField("seed", seed).Info("simulation reset")
}

// Update handles input and advances the simulation by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.nudgeSlippage(slipDelta)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.nudgeSlippage(-slipDelta)
	}

	gridW := g.sim.Size().W * g.scale
	if g.hud.Update(gridW, g.paused) {
		g.pointer.Release()
	} else {
		g.handlePointer()
	}

	row, col := g.pointer.Cell()
	g.overlay.Update(1/float32(ebiten.TPS()), row, col, g.pointer.Color(), g.pointer.Active())

	g.pointer.Apply(g.sim)
	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

func (g *Game) handlePointer() {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.pointer.Press(x, y)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.pointer.Release()
	default:
		g.pointer.Move(x, y)
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		if walls, ok := g.sim.(core.ObstacleSetter); ok {
			row, col := g.pointer.Cell()
			walls.SetFixed(row, col, sand.WallColor)
		}
	}
}

func (g *Game) nudgeSlippage(delta float64) {
	if s, ok := g.sim.(slipper); ok {
		s.SetSlippage(s.Slippage() + delta)
	}
}

// Draw renders the grid, overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.sim.SnapshotInto(&g.snap)
	g.painter.Blit(screen, &g.snap, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.WindowSize()
}

// WindowSize is the grid plus the HUD panel, in pixels.
func (g *Game) WindowSize() (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + hudWidth, s.H * g.scale
}
