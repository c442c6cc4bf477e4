package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sandfall/internal/config"
	"sandfall/internal/core"
	"sandfall/internal/logging"
	"sandfall/internal/palette"
	_ "sandfall/internal/sand"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sandfall:", err)
		os.Exit(1)
	}
}

// env is the resolved configuration shared by every subcommand.
type env struct {
	cfg  *config.Config
	log  *log.Logger
	seed int64
}

func newRootCmd() *cobra.Command {
	e := &env{}
	var cfgPath string
	var overrides *config.Overrides

	rootCmd := &cobra.Command{
		Use:   "sandfall",
		Short: "Falling sand on a grid",
		Long: `sandfall pours colored particles onto a grid and lets them settle.

Particles fall straight down when they can and slip diagonally with a
configurable probability when they cannot. Run it in a window, in a
terminal, headless, or as a websocket server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.load(cfgPath, overrides, cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "YAML config file")
	overrides = config.BindOverrides(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newGUICmd(e),
		newTermCmd(e),
		newServeCmd(e),
		newRunCmd(e),
		newConfigCmd(e),
	)
	return rootCmd
}

func (e *env) load(path string, overrides *config.Overrides, logOut io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	if _, ok := core.Sims()[cfg.Simulation.Preset]; !ok {
		return errors.Errorf("unknown preset %q (available: %s)",
			cfg.Simulation.Preset, strings.Join(core.SimNames(), ", "))
	}
	e.cfg = cfg
	e.log = logging.New(cfg.Logging.Level, logOut)
	e.seed = cfg.EffectiveSeed()
	return nil
}

// buildSim constructs the configured preset on a rows x cols grid along with
// its stroke palette.
func (e *env) buildSim(rows, cols int) (core.Sim, core.ColorSupplier, error) {
	colors, err := palette.New(e.cfg.Palette.Mode, e.seed, e.cfg.PaletteOptions())
	if err != nil {
		return nil, nil, errors.Wrap(err, "palette")
	}
	params := e.cfg.SimMap(e.seed)
	params["rows"] = strconv.Itoa(rows)
	params["cols"] = strconv.Itoa(cols)

	factory := core.Sims()[e.cfg.Simulation.Preset]
	sim, err := factory(params, colors)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s simulation", e.cfg.Simulation.Preset)
	}
	e.log.WithFields(log.Fields{
		"preset": sim.Name(),
		"rows":   rows,
		"cols":   cols,
		"seed":   e.seed,
		"params": sortedKeys(params),
	}).Debug("simulation created")
	return sim, colors, nil
}

func sortedKeys(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		keys = append(keys, k+"="+v)
	}
	sort.Strings(keys)
	return strings.Join(keys, " ")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newConfigCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := e.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
