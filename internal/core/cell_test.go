package core

import (
	"image/color"
	"testing"
)

func snapshotOf(cells []Cell) Snapshot {
	return NewSnapshot(2, 3, 7, cells)
}

func TestSnapshotReadsWorkOnReturnedValues(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	cells := make([]Cell, 6)
	cells[4] = Cell{Present: true, Color: red}
	cells[5] = Cell{Present: true, Fixed: true}

	if got := snapshotOf(cells).At(1, 1); !got.Present || got.Color != red {
		t.Fatalf("At(1,1) = %+v", got)
	}
	if got := snapshotOf(cells).At(-1, 0); got.Present {
		t.Fatal("out of range reads must be empty")
	}
	if snapshotOf(cells).Count() != 2 || snapshotOf(cells).Tick() != 7 {
		t.Fatal("count or tick mismatch")
	}
	if snapshotOf(cells).Rows() != 2 || snapshotOf(cells).Cols() != 3 {
		t.Fatal("size mismatch")
	}
	var seen [][2]int
	snapshotOf(cells).Each(func(row, col int, c Cell) { seen = append(seen, [2]int{row, col}) })
	if len(seen) != 2 || seen[0] != [2]int{1, 1} || seen[1] != [2]int{1, 2} {
		t.Fatalf("Each visited %v", seen)
	}
}

func TestSnapshotCopiesOnFill(t *testing.T) {
	cells := make([]Cell, 6)
	snap := snapshotOf(cells)
	cells[0] = Cell{Present: true}
	if snap.At(0, 0).Present {
		t.Fatal("snapshot must copy its cells")
	}

	var reused Snapshot
	reused.Fill(2, 3, 1, cells)
	cells[0] = Cell{}
	if !reused.At(0, 0).Present {
		t.Fatal("Fill must copy, not alias")
	}
}
