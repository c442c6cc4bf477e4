package sand

import (
	"image/color"

	"sandfall/internal/core"
)

// WallColor is the color of preset obstacle cells.
var WallColor = color.RGBA{R: 110, G: 110, B: 120, A: 255}

// FunnelObstacles builds a V-shaped catch basin whose walls start a third of
// the way down and close to a two-cell gap.
func FunnelObstacles(rows, cols int) []Obstacle {
	if rows < 4 || cols < 6 {
		return nil
	}
	top := rows / 3
	var obs []Obstacle
	for k := 0; top+k < rows-1; k++ {
		left := 1 + k
		right := cols - 2 - k
		if right-left < 3 {
			break
		}
		obs = append(obs,
			Obstacle{Row: top + k, Col: left, Color: WallColor},
			Obstacle{Row: top + k, Col: right, Color: WallColor},
		)
	}
	return obs
}

func newFromConfig(name string, cfg map[string]string, colors core.ColorSupplier, obstacles func(rows, cols int) []Obstacle) (core.Sim, error) {
	c := FromMap(cfg)
	opts := []Option{WithName(name), WithSeed(c.Seed)}
	if obstacles != nil {
		opts = append(opts, WithObstacles(obstacles(c.Rows, c.Cols)))
	}
	sim, err := New(c.Rows, c.Cols, c.Slippage, colors, opts...)
	if err != nil {
		return nil, err
	}
	return sim, nil
}

func init() {
	core.Register("sand", func(cfg map[string]string, colors core.ColorSupplier) (core.Sim, error) {
		return newFromConfig("sand", cfg, colors, nil)
	})
	core.Register("funnel", func(cfg map[string]string, colors core.ColorSupplier) (core.Sim, error) {
		return newFromConfig("funnel", cfg, colors, FunnelObstacles)
	})
}
