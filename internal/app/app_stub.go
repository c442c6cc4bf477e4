//go:build !ebiten

package app

import (
	"sandfall/internal/core"

	log "github.com/sirupsen/logrus"
)

// Game stands in for the window front end in headless builds.
type Game struct{}

// New always fails with ErrNoGUI in the headless build.
func New(core.Sim, core.ColorSupplier, int, int64, *log.Logger) (*Game, error) {
	return nil, ErrNoGUI
}

// Run reports ErrNoGUI.
func (g *Game) Run(string, int) error { return ErrNoGUI }
