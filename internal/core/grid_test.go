package core

import (
	"image/color"
	"testing"
)

func TestGridBoundsAndCopy(t *testing.T) {
	g := NewGrid[Cell](4, 3)
	if g.W != 4 || g.H != 3 || len(g.Cells()) != 12 {
		t.Fatalf("unexpected grid shape %dx%d len=%d", g.W, g.H, len(g.Cells()))
	}
	if !g.InBounds(2, 3) || g.InBounds(3, 0) || g.InBounds(0, -1) {
		t.Fatal("InBounds disagrees with dimensions")
	}
	g.At(1, 2).Present = true

	other := NewGrid[Cell](4, 3)
	other.CopyFrom(g)
	if !other.At(1, 2).Present {
		t.Fatal("CopyFrom did not carry cell state")
	}
	other.At(1, 2).Present = false
	if !g.At(1, 2).Present {
		t.Fatal("copied grid must not alias the source")
	}

	g.Clear()
	for i, c := range g.Cells() {
		if c.Present {
			t.Fatalf("cell %d still present after Clear", i)
		}
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	cells := make([]Cell, 6)
	cells[4] = Cell{Present: true, Color: color.RGBA{R: 9, A: 255}}
	snap := NewSnapshot(2, 3, 7, cells)
	cells[4] = Cell{}

	if got := snap.At(1, 1); !got.Present || got.Color.R != 9 {
		t.Fatalf("snapshot changed with its source: %+v", got)
	}
	if snap.Tick() != 7 || snap.Count() != 1 {
		t.Fatalf("tick=%d count=%d", snap.Tick(), snap.Count())
	}
	if got := snap.At(5, 5); got.Present {
		t.Fatal("out of range reads must be empty")
	}

	var visited [][2]int
	snap.Each(func(row, col int, c Cell) { visited = append(visited, [2]int{row, col}) })
	if len(visited) != 1 || visited[0] != [2]int{1, 1} {
		t.Fatalf("Each visited %v", visited)
	}
}
