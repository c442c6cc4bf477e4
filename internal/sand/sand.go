package sand

import (
	"errors"
	"image/color"

	"sandfall/internal/core"
	"sandfall/pkg/rng"
)

var (
	// ErrInvalidSize rejects grids with a non-positive dimension.
	ErrInvalidSize = errors.New("sand: rows and cols must be positive")
	// ErrInvalidSlippage rejects slippage outside [0, 1].
	ErrInvalidSlippage = errors.New("sand: slippage must be within [0, 1]")
	// ErrNoColors rejects a missing color supplier.
	ErrNoColors = errors.New("sand: color supplier is required")
)

// Source yields uniform values in [0, 1). *rng.RNG satisfies it; tests
// substitute scripted sequences.
type Source interface {
	Float64() float64
}

// Obstacle is a fixed cell a preset places on every Reset.
type Obstacle struct {
	Row, Col int
	Color    color.RGBA
}

// Option customizes a Simulation at construction time.
type Option func(*Simulation)

// WithSource replaces the built-in seeded RNG.
func WithSource(src Source) Option {
	return func(s *Simulation) {
		if src == nil {
			return
		}
		s.src = src
		s.rng = nil
	}
}

// WithName overrides the reported simulation name.
func WithName(name string) Option {
	return func(s *Simulation) {
		if name != "" {
			s.name = name
		}
	}
}

// WithObstacles installs fixed cells that survive Reset.
func WithObstacles(obs []Obstacle) Option {
	return func(s *Simulation) {
		s.obstacles = append(s.obstacles[:0], obs...)
	}
}

// WithSeed seeds the built-in RNG.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.seed = seed
		if s.rng != nil {
			s.rng.Seed(seed)
		}
	}
}

// Simulation is a falling-sand cellular automaton. It is not safe for
// concurrent use; one goroutine owns it and applies input between ticks.
type Simulation struct {
	name     string
	cur, nxt *core.Grid[core.Cell]
	slippage float64
	colors   core.ColorSupplier
	src      Source
	rng      *rng.RNG
	seed     int64
	tick     uint64

	obstacles []Obstacle
	display   []uint8
}

// New returns an empty rows x cols simulation.
func New(rows, cols int, slippage float64, colors core.ColorSupplier, opts ...Option) (*Simulation, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidSize
	}
	if !(slippage >= 0 && slippage <= 1) {
		return nil, ErrInvalidSlippage
	}
	if colors == nil {
		return nil, ErrNoColors
	}
	r := rng.NewRNG(1)
	s := &Simulation{
		name:     "sand",
		cur:      core.NewGrid[core.Cell](cols, rows),
		nxt:      core.NewGrid[core.Cell](cols, rows),
		slippage: slippage,
		colors:   colors,
		src:      r,
		rng:      r,
		seed:     1,
		display:  make([]uint8, rows*cols),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.placeObstacles()
	return s, nil
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return s.name }

// Size returns the grid dimensions; W counts columns and H rows.
func (s *Simulation) Size() core.Size { return core.Size{W: s.cur.W, H: s.cur.H} }

// Rows returns the number of grid rows.
func (s *Simulation) Rows() int { return s.cur.H }

// Cols returns the number of grid columns.
func (s *Simulation) Cols() int { return s.cur.W }

// Slippage returns the diagonal slip probability.
func (s *Simulation) Slippage() float64 { return s.slippage }

// SetSlippage changes the slip probability, clamped into [0, 1].
func (s *Simulation) SetSlippage(p float64) {
	if !(p >= 0) {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	s.slippage = p
}

// Tick returns the number of steps taken since the last Reset.
func (s *Simulation) Tick() uint64 { return s.tick }

// NextColor draws the next stroke color from the injected supplier.
func (s *Simulation) NextColor() color.RGBA { return s.colors.NextColor() }

// Count returns the number of occupied cells.
func (s *Simulation) Count() int {
	n := 0
	for _, c := range s.cur.Cells() {
		if c.Present {
			n++
		}
	}
	return n
}

// Reset empties the grid, restores preset obstacles and reseeds the built-in
// RNG. A zero seed keeps the construction seed.
func (s *Simulation) Reset(seed int64) {
	if seed == 0 {
		seed = s.seed
	}
	if s.rng != nil {
		s.rng.Seed(seed)
	}
	s.cur.Clear()
	s.nxt.Clear()
	s.tick = 0
	s.placeObstacles()
}

// SetCell deposits a particle at (row, col). Out-of-bounds and occupied
// targets are ignored.
func (s *Simulation) SetCell(row, col int, c color.RGBA) {
	if !s.cur.InBounds(row, col) {
		return
	}
	cell := s.cur.At(row, col)
	if cell.Present {
		return
	}
	*cell = core.Cell{Present: true, Color: c}
}

// SetFixed places an immovable cell at (row, col) under the same guards as
// SetCell.
func (s *Simulation) SetFixed(row, col int, c color.RGBA) {
	if !s.cur.InBounds(row, col) {
		return
	}
	cell := s.cur.At(row, col)
	if cell.Present {
		return
	}
	*cell = core.Cell{Present: true, Fixed: true, Color: c}
}

// Step advances the automaton by one tick.
//
// Rows are visited from the second-to-last up to the first, so every fall
// decision for row i reads row i+1 before any particle from row i has moved
// into it. A particle therefore moves at most once per tick.
func (s *Simulation) Step() {
	s.nxt.CopyFrom(s.cur)
	cells := s.nxt.Cells()
	rows, cols := s.nxt.H, s.nxt.W
	p := s.slippage

	for i := rows - 2; i >= 0; i-- {
		row := i * cols
		below := row + cols
		for j := 0; j < cols; j++ {
			src := row + j
			if !cells[src].Present || cells[src].Fixed {
				continue
			}
			// A fixed cell below pins the particle in place, diagonals included.
			if cells[below+j].Fixed {
				continue
			}
			if !cells[below+j].Present {
				move(cells, src, below+j)
				continue
			}
			if p <= 0 {
				continue
			}
			r := s.src.Float64()
			if r < p/2 && j > 0 && !cells[below+j-1].Present {
				move(cells, src, below+j-1)
			} else if r < p && j < cols-1 && !cells[below+j+1].Present {
				move(cells, src, below+j+1)
			}
		}
	}

	s.cur, s.nxt = s.nxt, s.cur
	s.tick++
}

func move(cells []core.Cell, from, to int) {
	cells[to] = cells[from]
	cells[from] = core.Cell{}
}

// Snapshot returns a detached copy of the current grid.
func (s *Simulation) Snapshot() core.Snapshot {
	var snap core.Snapshot
	s.SnapshotInto(&snap)
	return snap
}

// SnapshotInto copies the current grid into dst, reusing its buffer.
func (s *Simulation) SnapshotInto(dst *core.Snapshot) {
	dst.Fill(s.cur.H, s.cur.W, s.tick, s.cur.Cells())
}

// Cells exposes an occupancy buffer: 0 empty, 1 particle, 2 fixed.
func (s *Simulation) Cells() []uint8 {
	for i, c := range s.cur.Cells() {
		switch {
		case c.Fixed:
			s.display[i] = 2
		case c.Present:
			s.display[i] = 1
		default:
			s.display[i] = 0
		}
	}
	return s.display
}

func (s *Simulation) placeObstacles() {
	for _, o := range s.obstacles {
		s.SetFixed(o.Row, o.Col, o.Color)
	}
}
