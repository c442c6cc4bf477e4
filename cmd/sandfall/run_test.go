package main

import (
	"bytes"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sandfall/internal/core"
	"sandfall/internal/sand"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPourFillsCenterColumn(t *testing.T) {
	colors := core.ColorFunc(func() color.RGBA { return color.RGBA{R: 200, A: 255} })
	sim, err := sand.New(5, 5, 0, colors)
	if err != nil {
		t.Fatal(err)
	}
	snap := pour(sim, colors, 3)
	if snap.Tick() != 3 || snap.Count() != 3 {
		t.Fatalf("tick %d count %d, want 3 and 3", snap.Tick(), snap.Count())
	}

	var out bytes.Buffer
	if err := report(&out, &snap, true); err != nil {
		t.Fatal(err)
	}
	want := "tick 3  particles 3  grid 5x5\n" +
		".....\n" +
		"..o..\n" +
		"..o..\n" +
		"..o..\n" +
		".....\n"
	if out.String() != want {
		t.Fatalf("report mismatch:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "--ticks", "3", "--width", "25", "--height", "25",
		"--cell-size", "5", "--slippage", "0", "--seed", "7")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "tick 3  particles 3  grid 5x5") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.png")
	if _, err := execute(t, "run", "--ticks", "2", "--width", "20", "--height", "20",
		"--cell-size", "4", "--seed", "1", "--png", path); err != nil {
		t.Fatalf("run: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
}

func TestConfigCommandAppliesFileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandfall.yaml")
	file := "simulation:\n  slippage: 0.1\n  tps: 24\n"
	if err := os.WriteFile(path, []byte(file), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "config", "--config", path, "--tps", "30", "--preset", "funnel")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"slippage: 0.1", "tps: 30", "preset: funnel", "cell_size: 5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownPresetRejected(t *testing.T) {
	_, err := execute(t, "config", "--preset", "lava")
	if err == nil || !strings.Contains(err.Error(), "unknown preset") {
		t.Fatalf("expected unknown preset error, got %v", err)
	}
}

func TestInvalidSlippageRejected(t *testing.T) {
	_, err := execute(t, "run", "--slippage", "1.5")
	if err == nil || !strings.Contains(err.Error(), "slippage") {
		t.Fatalf("expected slippage error, got %v", err)
	}
}

func TestGUICommandRegistered(t *testing.T) {
	cmd := newRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"gui", "term", "serve", "run", "config"} {
		if !names[want] {
			t.Fatalf("missing %s subcommand", want)
		}
	}
}
