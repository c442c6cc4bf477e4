// Package palette generates stroke colors for deposited particles.
package palette

import (
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"sandfall/internal/core"
	"sandfall/pkg/rng"
)

// Mode names accepted by New.
const (
	ModeRandom = "random"
	ModeDrift  = "drift"
	ModeSand   = "sand"
)

// Modes lists every supported palette mode.
func Modes() []string { return []string{ModeRandom, ModeDrift, ModeSand} }

// Options tunes the HSV output of every palette.
type Options struct {
	Saturation float64
	Value      float64
}

// DefaultOptions returns bright, fully saturated colors.
func DefaultOptions() Options {
	return Options{Saturation: 0.75, Value: 0.95}
}

// New builds the palette named by mode.
func New(mode string, seed int64, opts Options) (core.ColorSupplier, error) {
	opts = opts.clamped()
	switch mode {
	case "", ModeRandom:
		return NewRandom(seed, opts), nil
	case ModeDrift:
		return NewDrift(seed, opts), nil
	case ModeSand:
		return NewSand(seed), nil
	default:
		return nil, errors.Errorf("palette: unknown mode %q", mode)
	}
}

func (o Options) clamped() Options {
	o.Saturation = clamp01(o.Saturation)
	o.Value = clamp01(o.Value)
	return o
}

// Random picks a uniformly random hue for every stroke.
type Random struct {
	rng  *rng.RNG
	opts Options
}

// NewRandom returns a seeded random-hue palette.
func NewRandom(seed int64, opts Options) *Random {
	return &Random{rng: rng.NewRNG(seed), opts: opts.clamped()}
}

// NextColor returns a fresh random hue.
func (r *Random) NextColor() color.RGBA {
	return hsv(r.rng.Float64()*360, r.opts)
}

// Drift walks the hue along 1D Perlin noise so consecutive strokes stay
// related but never repeat.
type Drift struct {
	noise *perlin.Perlin
	pos   float64
	step  float64
	opts  Options
}

// NewDrift returns a Perlin-driven palette.
func NewDrift(seed int64, opts Options) *Drift {
	return &Drift{
		noise: perlin.NewPerlin(2, 2, 3, seed),
		step:  0.37,
		opts:  opts.clamped(),
	}
}

// NextColor advances along the noise curve and maps it onto the hue wheel.
func (d *Drift) NextColor() color.RGBA {
	d.pos += d.step
	n := d.noise.Noise1D(d.pos)
	hue := math.Mod((n+1)*360, 360)
	if hue < 0 {
		hue += 360
	}
	return hsv(hue, d.opts)
}

// Sand returns earthy tones around a sandstone base, jittered in HCL space.
type Sand struct {
	rng  *rng.RNG
	base colorful.Color
}

// NewSand returns the sand-tone palette.
func NewSand(seed int64) *Sand {
	base, _ := colorful.Hex("#d6ae80")
	return &Sand{rng: rng.NewRNG(seed), base: base}
}

// NextColor jitters lightness and hue of the base tone.
func (s *Sand) NextColor() color.RGBA {
	h, c, l := s.base.Hcl()
	h += s.rng.Jitter(20)
	l += s.rng.Jitter(0.2)
	return toRGBA(colorful.Hcl(h, c, clamp01(l)).Clamped())
}

func hsv(hue float64, opts Options) color.RGBA {
	return toRGBA(colorful.Hsv(hue, opts.Saturation, opts.Value))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// ParseHex parses #rrggbb into an opaque color.
func ParseHex(s string) (color.RGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "parse color %q", s)
	}
	return toRGBA(c), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
