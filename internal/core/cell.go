package core

import "image/color"

// Cell is one grid position. Color is only meaningful while Present is set.
type Cell struct {
	Present bool
	Fixed   bool
	Color   color.RGBA
}

// Snapshot is a detached copy of a simulation grid. Mutating it never
// touches the simulation it was taken from.
type Snapshot struct {
	rows, cols int
	tick       uint64
	cells      []Cell
}

// NewSnapshot builds a snapshot by copying cells, which must hold rows*cols
// entries in row-major order.
func NewSnapshot(rows, cols int, tick uint64, cells []Cell) Snapshot {
	var s Snapshot
	s.Fill(rows, cols, tick, cells)
	return s
}

// Fill replaces the snapshot contents, reusing its buffer when large enough.
func (s *Snapshot) Fill(rows, cols int, tick uint64, cells []Cell) {
	s.rows, s.cols, s.tick = rows, cols, tick
	if cap(s.cells) < len(cells) {
		s.cells = make([]Cell, len(cells))
	}
	s.cells = s.cells[:len(cells)]
	copy(s.cells, cells)
}

// Rows returns the number of grid rows.
func (s Snapshot) Rows() int { return s.rows }

// Cols returns the number of grid columns.
func (s Snapshot) Cols() int { return s.cols }

// Tick returns the simulation tick the snapshot was taken at.
func (s Snapshot) Tick() uint64 { return s.tick }

// At returns the cell at (row, col); out-of-range positions read as empty.
func (s Snapshot) At(row, col int) Cell {
	if row < 0 || row >= s.rows || col < 0 || col >= s.cols {
		return Cell{}
	}
	return s.cells[row*s.cols+col]
}

// Count returns the number of occupied cells.
func (s Snapshot) Count() int {
	n := 0
	for i := range s.cells {
		if s.cells[i].Present {
			n++
		}
	}
	return n
}

// Each calls fn for every occupied cell in row-major order.
func (s Snapshot) Each(fn func(row, col int, c Cell)) {
	for i, c := range s.cells {
		if !c.Present {
			continue
		}
		fn(i/s.cols, i%s.cols, c)
	}
}
