package core

import (
	"image/color"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the contract every falling-particle simulation implements.
// Rows run along H and columns along W.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
	SetCell(row, col int, c color.RGBA)
	SnapshotInto(dst *Snapshot)
}

// Depositor accepts new particles. Input adapters only need this much of a Sim.
type Depositor interface {
	SetCell(row, col int, c color.RGBA)
}

// ObstacleSetter is implemented by sims that support immovable cells.
type ObstacleSetter interface {
	SetFixed(row, col int, c color.RGBA)
}

// ColorSupplier hands out stroke colors.
type ColorSupplier interface {
	NextColor() color.RGBA
}

// ColorFunc adapts a plain function to ColorSupplier.
type ColorFunc func() color.RGBA

// NextColor calls f.
func (f ColorFunc) NextColor() color.RGBA { return f() }

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string, colors ColorSupplier) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// SimNames lists registered factories in sorted order.
func SimNames() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
