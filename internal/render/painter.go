//go:build ebiten

package render

import (
	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads snapshots into a single cell-resolution image and
// draws it scaled up.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of w columns and h rows.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the snapshot into the painter image and draws it.
func (gp *GridPainter) Blit(dst *ebiten.Image, snap *core.Snapshot, scale int) {
	if snap.Rows() != gp.h || snap.Cols() != gp.w {
		return
	}
	fillCellsRGBA(gp.buf, snap, Background)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}
