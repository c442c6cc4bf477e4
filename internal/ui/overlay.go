//go:build ebiten

package ui

import (
	"image/color"

	"sandfall/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	pulseLow      = 0.35
	pulseHigh     = 1.0
	pulseDuration = 0.6
)

// Overlay draws the brush cursor and an optional highlight of fixed cells.
type Overlay struct {
	sim   core.Sim
	scale int

	showFixed bool
	maskImg   *ebiten.Image
	maskBuf   []byte

	pixel *ebiten.Image

	pulse  *gween.Tween
	rising bool
	alpha  float32

	row, col int
	color    color.RGBA
	active   bool
}

// NewOverlay constructs an overlay for sim drawn at the given scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, alpha: pulseHigh}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	o.pulse = gween.New(pulseHigh, pulseLow, pulseDuration, ease.InOutSine)
	return o
}

// Update advances the cursor pulse by dt seconds and records the brush.
func (o *Overlay) Update(dt float32, row, col int, c color.RGBA, active bool) {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		o.showFixed = !o.showFixed
	}
	o.row, o.col, o.color, o.active = row, col, c, active

	alpha, done := o.pulse.Update(dt)
	o.alpha = alpha
	if done {
		o.rising = !o.rising
		if o.rising {
			o.pulse = gween.New(pulseLow, pulseHigh, pulseDuration, ease.InOutSine)
		} else {
			o.pulse = gween.New(pulseHigh, pulseLow, pulseDuration, ease.OutQuad)
		}
	}
}

// Draw renders the overlay onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showFixed {
		o.drawFixedMask(screen, size, scale)
	}
	if o.row < 0 || o.col < 0 || o.row >= size.H || o.col >= size.W {
		return
	}

	c := o.color
	if !o.active {
		c = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	}
	x := float64(o.col * scale)
	y := float64(o.row * scale)
	s := float64(scale)
	o.rect(screen, x-1, y-1, s+2, 1, c)
	o.rect(screen, x-1, y+s, s+2, 1, c)
	o.rect(screen, x-1, y, 1, s, c)
	o.rect(screen, x+s, y, 1, s, c)
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	op.ColorScale.ScaleAlpha(o.alpha)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawFixedMask(screen *ebiten.Image, size core.Size, scale int) {
	cells := o.sim.Cells()
	if len(cells) != size.W*size.H {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*len(cells))
	}
	for i, v := range cells {
		p := o.maskBuf[4*i : 4*i+4]
		if v == 2 {
			p[0], p[1], p[2], p[3] = 255, 80, 200, 160
		} else {
			p[0], p[1], p[2], p[3] = 0, 0, 0, 0
		}
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
