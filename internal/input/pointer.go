// Package input turns pointer gestures into particle deposits.
package input

import (
	"image/color"
	"math"

	"sandfall/internal/core"
)

// Pointer tracks one pointing device. A stroke begins on Press, picks a
// single color for its whole duration, and ends on Release. Positions are
// in canvas pixels; cellSize maps them onto grid cells.
type Pointer struct {
	cellSize float64
	colors   core.ColorSupplier

	active bool
	x, y   float64
	color  color.RGBA

	pending []queued
}

type queued struct {
	row, col int
	color    color.RGBA
}

// NewPointer returns an idle pointer. Non-positive cell sizes are treated as 1.
func NewPointer(cellSize float64, colors core.ColorSupplier) *Pointer {
	if !(cellSize > 0) {
		cellSize = 1
	}
	return &Pointer{cellSize: cellSize, colors: colors}
}

// Active reports whether a stroke is in progress.
func (p *Pointer) Active() bool { return p.active }

// Color returns the current stroke color.
func (p *Pointer) Color() color.RGBA { return p.color }

// Cell returns the grid cell under the pointer.
func (p *Pointer) Cell() (row, col int) {
	return p.toCell(p.x, p.y)
}

// Press starts a stroke at (x, y) with a fresh color.
func (p *Pointer) Press(x, y float64) {
	p.active = true
	if p.colors != nil {
		p.color = p.colors.NextColor()
	}
	p.moveTo(x, y)
}

// Move updates the position. While a stroke is active the new cell is
// queued for deposit.
func (p *Pointer) Move(x, y float64) {
	if !p.active {
		p.x, p.y = x, y
		return
	}
	p.moveTo(x, y)
}

// Release ends the stroke. Cells queued before the release are still applied.
func (p *Pointer) Release() {
	p.active = false
}

// Apply deposits every queued cell and, while the stroke is held, the cell
// under the pointer. It must run between ticks on the goroutine that owns
// the simulation.
func (p *Pointer) Apply(dst core.Depositor) {
	for _, q := range p.pending {
		dst.SetCell(q.row, q.col, q.color)
	}
	p.pending = p.pending[:0]
	if p.active {
		row, col := p.Cell()
		dst.SetCell(row, col, p.color)
	}
}

func (p *Pointer) moveTo(x, y float64) {
	p.x, p.y = x, y
	row, col := p.toCell(x, y)
	p.pending = append(p.pending, queued{row: row, col: col, color: p.color})
}

func (p *Pointer) toCell(x, y float64) (row, col int) {
	return int(math.Floor(y / p.cellSize)), int(math.Floor(x / p.cellSize))
}
