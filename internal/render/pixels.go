package render

import (
	"image"
	"image/color"
	"strings"

	"sandfall/internal/core"
)

// Background is the color drawn behind empty cells.
var Background = color.RGBA{R: 12, G: 12, B: 16, A: 255}

// fillCellsRGBA converts a snapshot into RGBA pixels in buf, one pixel per cell.
// Empty cells take the background color.
func fillCellsRGBA(buf []byte, snap *core.Snapshot, bg color.RGBA) {
	rows, cols := snap.Rows(), snap.Cols()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			base := (r*cols + c) * 4
			col := bg
			if cell := snap.At(r, c); cell.Present {
				col = cell.Color
			}
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}

// Image renders snap into a new RGBA image with each cell drawn as a
// scale x scale square.
func Image(snap *core.Snapshot, scale int, bg color.RGBA) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	rows, cols := snap.Rows(), snap.Cols()
	img := image.NewRGBA(image.Rect(0, 0, cols*scale, rows*scale))
	cells := make([]byte, 4*rows*cols)
	fillCellsRGBA(cells, snap, bg)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			src := cells[(r*cols+c)*4 : (r*cols+c)*4+4]
			for dy := 0; dy < scale; dy++ {
				off := img.PixOffset(c*scale, r*scale+dy)
				for dx := 0; dx < scale; dx++ {
					copy(img.Pix[off+dx*4:off+dx*4+4], src)
				}
			}
		}
	}
	return img
}

// ASCII renders snap as text: '.' empty, 'o' particle, '#' fixed.
func ASCII(snap *core.Snapshot) string {
	var b strings.Builder
	rows, cols := snap.Rows(), snap.Cols()
	b.Grow(rows * (cols + 1))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := snap.At(r, c)
			switch {
			case cell.Fixed:
				b.WriteByte('#')
			case cell.Present:
				b.WriteByte('o')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
