package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestDefaultCanvasGrid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if cfg.Rows() != 120 || cfg.Cols() != 160 {
		t.Fatalf("expected 120x160 grid, got %dx%d", cfg.Rows(), cfg.Cols())
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sandfall.yaml")
	data := []byte("canvas:\n  width: 300\n  cell_size: 10\nsimulation:\n  slippage: 0.9\n  preset: funnel\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cols() != 30 || cfg.Rows() != 60 {
		t.Fatalf("expected 60x30 grid, got %dx%d", cfg.Rows(), cfg.Cols())
	}
	if cfg.Simulation.Slippage != 0.9 || cfg.Simulation.Preset != "funnel" {
		t.Fatalf("simulation section not applied: %+v", cfg.Simulation)
	}
	if cfg.Simulation.TPS != 60 {
		t.Fatalf("unset keys should keep defaults, tps=%d", cfg.Simulation.TPS)
	}
}

func TestLoadMissingFileWrapsPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("expected wrapped read error naming the file, got %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"zero width":       func(c *Config) { c.Canvas.Width = 0 },
		"zero cell":        func(c *Config) { c.Canvas.CellSize = 0 },
		"cell too large":   func(c *Config) { c.Canvas.CellSize = 1000 },
		"slippage high":    func(c *Config) { c.Simulation.Slippage = 1.2 },
		"slippage low":     func(c *Config) { c.Simulation.Slippage = -0.2 },
		"tps":              func(c *Config) { c.Simulation.TPS = 0 },
		"palette":          func(c *Config) { c.Palette.Mode = "neon" },
		"preset":           func(c *Config) { c.Simulation.Preset = "" },
		"negative clients": func(c *Config) { c.Server.MaxClients = -1 },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestOverridesApplyOnlyChangedFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o := BindOverrides(fs)
	if err := fs.Parse([]string{"--slippage=0.1", "--tps", "30"}); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.Canvas.Width = 400
	o.Apply(cfg)

	if cfg.Simulation.Slippage != 0.1 || cfg.Simulation.TPS != 30 {
		t.Fatalf("changed flags not applied: %+v", cfg.Simulation)
	}
	if cfg.Canvas.Width != 400 {
		t.Fatalf("unchanged flags must not clobber file values, width=%d", cfg.Canvas.Width)
	}
}

func TestSimMapAndMarshal(t *testing.T) {
	cfg := Default()
	m := cfg.SimMap(5)
	if m["rows"] != "120" || m["cols"] != "160" || m["slippage"] != "0.5" || m["seed"] != "5" {
		t.Fatalf("unexpected sim map %v", m)
	}

	out, err := cfg.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back := &Config{}
	if err := back.Parse(out); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*back, *cfg) {
		t.Fatalf("marshal round trip changed config:\n%+v\n%+v", back, cfg)
	}
}

func TestEffectiveSeed(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Seed = 12
	if cfg.EffectiveSeed() != 12 {
		t.Fatal("explicit seed must be kept")
	}
	cfg.Simulation.Seed = 0
	if cfg.EffectiveSeed() == 0 {
		t.Fatal("zero seed must resolve to a time-based value")
	}
}
