package main

import (
	"github.com/spf13/cobra"

	"sandfall/internal/app"
)

func newGUICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open a window and pour sand with the mouse",
		Long: `Left mouse pours, right mouse builds walls. F toggles the wall overlay.

Keys: space pause, enter resume, n step, r reset, +/- slippage, q or esc quit.
Requires a build with -tags ebiten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			sim, colors, err := e.buildSim(cfg.Rows(), cfg.Cols())
			if err != nil {
				return err
			}
			game, err := app.New(sim, colors, cfg.Canvas.CellSize, e.seed, e.log)
			if err != nil {
				return err
			}
			return game.Run("sandfall - "+sim.Name(), cfg.Simulation.TPS)
		},
	}
}
