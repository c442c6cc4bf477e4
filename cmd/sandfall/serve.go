package main

import (
	"github.com/spf13/cobra"

	"sandfall/internal/server"
)

func newServeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation and stream it to websocket clients",
		Long: `Runs one shared simulation and streams a JSON frame to every connected
client after each tick. Clients send pointer events to pour sand.

Routes:
  GET /              minimal canvas client
  GET /ws            websocket stream
  GET /snapshot      current grid as JSON
  GET /snapshot.png  current grid as PNG
  GET /healthz       liveness`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg
			sim, colors, err := e.buildSim(cfg.Rows(), cfg.Cols())
			if err != nil {
				return err
			}
			srv := server.New(sim, colors, server.Options{
				CellSize:   float64(cfg.Canvas.CellSize),
				TPS:        cfg.Simulation.TPS,
				MaxClients: cfg.Server.MaxClients,
				Origins:    cfg.Server.Origins,
			}, e.log)

			ctx, stop := signalContext()
			defer stop()
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
}
