package sand

import (
	"strconv"

	"sandfall/internal/core"
)

// Parameters reports the current tunables for HUD and config display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("rows", "Rows", s.Rows()),
				intParam("cols", "Cols", s.Cols()),
				intParam("particles", "Particles", s.Count()),
				int64Param("tick", "Tick", int64(s.tick)),
			},
		},
		{
			Name: "Movement",
			Params: []core.Parameter{
				floatParam("slippage", "Slippage", s.slippage),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls exposes the HUD-adjustable parameters.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{
			Key:    "slippage",
			Label:  "Slippage",
			Type:   core.ParamTypeFloat,
			Step:   0.05,
			Min:    0,
			Max:    1,
			HasMin: true,
			HasMax: true,
		},
	}
}

// SetFloatParameter updates a float parameter by key.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "slippage":
		s.SetSlippage(value)
		return true
	}
	return false
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
