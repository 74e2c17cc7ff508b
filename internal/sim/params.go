package sim

import (
	"strconv"
	"time"

	"jello-lod/internal/core"
)

// Parameters exposes the tunables for the HUD.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	st := s.Stats()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Grid",
			Params: []core.Parameter{
				core.IntParam("res", "Resolution", s.cfg.Res),
				core.FloatParam("size", "Cell size", s.cfg.CellSize),
				core.StringParam("view", "View mode", s.cfg.ViewMode.String()),
			},
		},
		{
			Name: "Waves",
			Params: []core.Parameter{
				core.FloatParam("damping", "Damping", s.cfg.Damping),
				core.FloatParam("wave_speed", "Wave speed", s.cfg.WaveSpeed),
				core.FloatParam("stimulus", "Stimulus", s.cfg.StimulusMagnitude),
				core.BoolParam("stimulus_on", "Stimulus on", s.stimulus),
			},
		},
		{
			Name: "LOD",
			Params: []core.Parameter{
				core.IntParam("throttle_ms", "Throttle ms", int(s.throttle.Interval()/time.Millisecond)),
				core.IntParam("tiers", "Tiers", len(s.cfg.Tiers)),
				core.IntParam("cells", "Cells", st.Cells),
				core.IntParam("seams", "Seams", st.Seams),
				core.IntParam("primitives", "Primitives", st.Primitives),
			},
			Summary: "focus " + strconv.Itoa(s.focus.X) + "," + strconv.Itoa(s.focus.Z),
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "res", Label: "Resolution", Type: core.ParamTypeInt, Step: 5, Min: 5, Max: 200, HasMin: true, HasMax: true},
		{Key: "damping", Label: "Damping", Type: core.ParamTypeFloat, Step: 0.01, Min: 0.5, Max: 0.99, HasMin: true, HasMax: true},
		{Key: "wave_speed", Label: "Wave speed", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
		{Key: "stimulus", Label: "Stimulus", Type: core.ParamTypeFloat, Step: 1, Min: 0, Max: 50, HasMin: true, HasMax: true},
		{Key: "throttle_ms", Label: "Throttle ms", Type: core.ParamTypeInt, Step: 10, Min: 0, Max: 1000, HasMin: true, HasMax: true},
	}
}

// SetIntParameter applies an integer control. It reports whether key was
// recognised and the value accepted.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	switch key {
	case "res":
		return s.SetResolution(value) == nil
	case "throttle_ms":
		if value < 0 {
			return false
		}
		s.cfg.ThrottleInterval = time.Duration(value) * time.Millisecond
		s.throttle.SetInterval(s.cfg.ThrottleInterval)
		return true
	}
	return false
}

// SetFloatParameter applies a floating point control.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "damping":
		if !(value > 0 && value < 1) {
			return false
		}
		s.cfg.Damping = value
		s.field.SetDamping(value)
		return true
	case "wave_speed":
		if !(value > 0) {
			return false
		}
		s.cfg.WaveSpeed = value
		s.field.SetWaveSpeed(value)
		return true
	case "stimulus":
		s.cfg.StimulusMagnitude = value
		return true
	}
	return false
}
