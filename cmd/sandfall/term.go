package main

import (
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"sandfall/internal/term"
)

func newTermCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the simulation in the terminal",
		Long: `Fills the terminal with the grid, two grid rows per text row.
Drag with the left mouse button to pour, right button to build walls.

Keys: space pause, enter resume, n step, r reset, +/- slippage, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile, _ := cmd.Flags().GetString("log-file")
			// the screen owns stdout, so logs go elsewhere or nowhere
			e.log.SetOutput(io.Discard)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return errors.Wrap(err, "open log file")
				}
				defer f.Close()
				e.log.SetOutput(f)
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return errors.Wrap(err, "open terminal")
			}
			if err := screen.Init(); err != nil {
				return errors.Wrap(err, "init terminal")
			}
			defer screen.Fini()

			rows, cols := term.GridSize(screen.Size())
			sim, colors, err := e.buildSim(rows, cols)
			if err != nil {
				return err
			}
			ctx, stop := signalContext()
			defer stop()
			return term.New(screen, sim, colors, e.cfg.Simulation.TPS, e.seed, e.log).Run(ctx)
		},
	}
	cmd.Flags().String("log-file", "", "append logs to this file")
	return cmd
}
