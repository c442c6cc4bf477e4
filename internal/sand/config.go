package sand

import "strconv"

// Config controls the dimensions and slippage of a sand simulation.
type Config struct {
	Rows     int
	Cols     int
	Slippage float64
	Seed     int64
}

// DefaultConfig returns the standard configuration: an 800x600 canvas split
// into 5px cells.
func DefaultConfig() Config {
	return Config{Rows: 120, Cols: 160, Slippage: 0.5, Seed: 1}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Invalid entries are ignored and keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["rows"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Rows = parsed
		}
	}
	if v, ok := cfg["cols"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Cols = parsed
		}
	}
	if v, ok := cfg["slippage"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Slippage = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	return c
}
