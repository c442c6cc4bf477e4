package server

import (
	"sandfall/internal/core"
	"sandfall/internal/palette"
)

// Frame is the JSON message streamed to websocket clients after every tick.
// Only occupied cells are listed.
type Frame struct {
	Tick  uint64      `json:"tick"`
	Rows  int         `json:"rows"`
	Cols  int         `json:"cols"`
	Cells []FrameCell `json:"cells"`
}

// FrameCell is one occupied cell.
type FrameCell struct {
	R     int    `json:"r"`
	C     int    `json:"c"`
	Color string `json:"color"`
	Fixed bool   `json:"fixed,omitempty"`
}

// NewFrame encodes snap.
func NewFrame(snap *core.Snapshot) Frame {
	f := Frame{
		Tick:  snap.Tick(),
		Rows:  snap.Rows(),
		Cols:  snap.Cols(),
		Cells: make([]FrameCell, 0, snap.Count()),
	}
	snap.Each(func(row, col int, c core.Cell) {
		f.Cells = append(f.Cells, FrameCell{R: row, C: col, Color: palette.Hex(c.Color), Fixed: c.Fixed})
	})
	return f
}

// Event types sent by clients.
const (
	EventDown = "down"
	EventMove = "move"
	EventUp   = "up"
)

// Event is a pointer gesture from a client, in canvas pixels.
type Event struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}
