// Package config loads sandfall settings from YAML and command-line flags.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"sandfall/internal/palette"
)

// Config contains every sandfall setting.
type Config struct {
	Canvas     CanvasConfig     `yaml:"canvas"`
	Simulation SimulationConfig `yaml:"simulation"`
	Palette    PaletteConfig    `yaml:"palette"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// CanvasConfig sizes the drawing surface. The grid is derived from it:
// rows = height / cell_size and cols = width / cell_size.
type CanvasConfig struct {
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
	CellSize int `yaml:"cell_size"`
}

// SimulationConfig selects the preset and its movement parameters.
type SimulationConfig struct {
	Preset   string  `yaml:"preset"`
	Slippage float64 `yaml:"slippage"`
	TPS      int     `yaml:"tps"`
	// Seed drives the slip draws and palettes. Zero picks a time-based seed.
	Seed int64 `yaml:"seed"`
}

// PaletteConfig selects how stroke colors are generated.
type PaletteConfig struct {
	Mode       string  `yaml:"mode"`
	Saturation float64 `yaml:"saturation"`
	Value      float64 `yaml:"value"`
}

// ServerConfig configures the websocket server.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	MaxClients int    `yaml:"max_clients"`

	// Origins lists extra browser origins allowed to connect to /ws.
	Origins []string `yaml:"origins,omitempty"`
}

// LoggingConfig sets log verbosity: "debug", "info", "warn" or "error".
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	opts := palette.DefaultOptions()
	return &Config{
		Canvas:     CanvasConfig{Width: 800, Height: 600, CellSize: 5},
		Simulation: SimulationConfig{Preset: "sand", Slippage: 0.5, TPS: 60},
		Palette:    PaletteConfig{Mode: palette.ModeRandom, Saturation: opts.Saturation, Value: opts.Value},
		Server:     ServerConfig{Addr: ":8080", MaxClients: 32},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := cfg.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Parse overlays YAML data onto c. Keys absent from data keep their values.
func (c *Config) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, "decode yaml")
	}
	return nil
}

// Marshal encodes c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return out, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return errors.Errorf("canvas size %dx%d must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.CellSize <= 0 {
		return errors.Errorf("cell_size %d must be positive", c.Canvas.CellSize)
	}
	if c.Rows() <= 0 || c.Cols() <= 0 {
		return errors.Errorf("cell_size %d leaves an empty %dx%d grid", c.Canvas.CellSize, c.Rows(), c.Cols())
	}
	if !(c.Simulation.Slippage >= 0 && c.Simulation.Slippage <= 1) {
		return errors.Errorf("slippage %v must be within [0, 1]", c.Simulation.Slippage)
	}
	if c.Simulation.TPS <= 0 {
		return errors.Errorf("tps %d must be positive", c.Simulation.TPS)
	}
	if c.Simulation.Preset == "" {
		return errors.New("preset must be set")
	}
	if !validMode(c.Palette.Mode) {
		return errors.Errorf("unknown palette mode %q", c.Palette.Mode)
	}
	if c.Server.MaxClients < 0 {
		return errors.Errorf("max_clients %d must not be negative", c.Server.MaxClients)
	}
	return nil
}

func validMode(mode string) bool {
	for _, m := range palette.Modes() {
		if m == mode {
			return true
		}
	}
	return false
}

// Rows returns the grid height in cells.
func (c *Config) Rows() int {
	if c.Canvas.CellSize <= 0 {
		return 0
	}
	return c.Canvas.Height / c.Canvas.CellSize
}

// Cols returns the grid width in cells.
func (c *Config) Cols() int {
	if c.Canvas.CellSize <= 0 {
		return 0
	}
	return c.Canvas.Width / c.Canvas.CellSize
}

// EffectiveSeed resolves a zero seed to the current time.
func (c *Config) EffectiveSeed() int64 {
	if c.Simulation.Seed != 0 {
		return c.Simulation.Seed
	}
	return time.Now().UnixNano()
}

// SimMap converts the grid settings into the string map read by simulation
// factories.
func (c *Config) SimMap(seed int64) map[string]string {
	return map[string]string{
		"rows":     strconv.Itoa(c.Rows()),
		"cols":     strconv.Itoa(c.Cols()),
		"slippage": strconv.FormatFloat(c.Simulation.Slippage, 'f', -1, 64),
		"seed":     strconv.FormatInt(seed, 10),
	}
}

// PaletteOptions converts the palette section.
func (c *Config) PaletteOptions() palette.Options {
	return palette.Options{Saturation: c.Palette.Saturation, Value: c.Palette.Value}
}

// Bind attaches override flags to fs. Flags write straight into c, so bind
// after loading the file and parse before use.
func (c *Config) Bind(fs *pflag.FlagSet) {
	fs.IntVar(&c.Canvas.Width, "width", c.Canvas.Width, "canvas width in pixels")
	fs.IntVar(&c.Canvas.Height, "height", c.Canvas.Height, "canvas height in pixels")
	fs.IntVar(&c.Canvas.CellSize, "cell-size", c.Canvas.CellSize, "cell edge in pixels")
	fs.StringVar(&c.Simulation.Preset, "preset", c.Simulation.Preset, "simulation preset")
	fs.Float64Var(&c.Simulation.Slippage, "slippage", c.Simulation.Slippage, "diagonal slip probability in [0,1]")
	fs.IntVar(&c.Simulation.TPS, "tps", c.Simulation.TPS, "ticks per second")
	fs.Int64Var(&c.Simulation.Seed, "seed", c.Simulation.Seed, "random seed (0 = time based)")
	fs.StringVar(&c.Palette.Mode, "palette", c.Palette.Mode, "stroke palette: random, drift or sand")
	fs.StringVar(&c.Server.Addr, "addr", c.Server.Addr, "listen address for serve")
	fs.StringVar(&c.Logging.Level, "log-level", c.Logging.Level, "log level: debug, info, warn, error")
}

// Overrides collects command-line flags before the config file is known and
// applies only the flags the user actually set.
type Overrides struct {
	fs      *pflag.FlagSet
	scratch *Config
}

// BindOverrides registers the override flags on fs.
func BindOverrides(fs *pflag.FlagSet) *Overrides {
	o := &Overrides{fs: fs, scratch: Default()}
	o.scratch.Bind(fs)
	return o
}

// Apply copies every changed flag into c. It checks Flag.Changed rather than
// using Visit because cobra parses persistent flags through the subcommand's
// flag set.
func (o *Overrides) Apply(c *Config) {
	s := o.scratch
	o.fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		switch f.Name {
		case "width":
			c.Canvas.Width = s.Canvas.Width
		case "height":
			c.Canvas.Height = s.Canvas.Height
		case "cell-size":
			c.Canvas.CellSize = s.Canvas.CellSize
		case "preset":
			c.Simulation.Preset = s.Simulation.Preset
		case "slippage":
			c.Simulation.Slippage = s.Simulation.Slippage
		case "tps":
			c.Simulation.TPS = s.Simulation.TPS
		case "seed":
			c.Simulation.Seed = s.Simulation.Seed
		case "palette":
			c.Palette.Mode = s.Palette.Mode
		case "addr":
			c.Server.Addr = s.Server.Addr
		case "log-level":
			c.Logging.Level = s.Logging.Level
		}
	})
}
