package core

// Grid stores a 2D grid of cell values in row-major order.
type Grid[T any] struct {
	W, H int
	data []T
}

// NewGrid allocates a grid with the given dimensions. Callers validate sizes;
// non-positive dimensions are clamped to one so indexing stays in range.
func NewGrid[T any](w, h int) *Grid[T] {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid[T]{W: w, H: h, data: make([]T, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid[T]) Cells() []T { return g.data }

// Index returns the linear slice index for row and column.
func (g *Grid[T]) Index(row, col int) int { return row*g.W + col }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid[T]) InBounds(row, col int) bool {
	return row >= 0 && row < g.H && col >= 0 && col < g.W
}

// At returns a pointer to the cell at (row, col). The caller checks bounds.
func (g *Grid[T]) At(row, col int) *T { return &g.data[g.Index(row, col)] }

// CopyFrom overwrites g with the contents of src. Both grids must share
// dimensions.
func (g *Grid[T]) CopyFrom(src *Grid[T]) {
	copy(g.data, src.data)
}

// Clear resets every cell to the zero value.
func (g *Grid[T]) Clear() {
	var zero T
	for i := range g.data {
		g.data[i] = zero
	}
}
