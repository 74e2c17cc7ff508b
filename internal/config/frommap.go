package config

import (
	"strconv"
	"time"

	"jello-lod/internal/lod"
)

// FromMap applies flag-style key/value overrides over Default. Unparsable or
// out-of-range values are ignored.
func FromMap(cfg map[string]string) Config {
	c := Default()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["res"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Res = parsed
		}
	}
	if v, ok := cfg["size"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && positive(parsed) {
			c.CellSize = parsed
		}
	}
	if v, ok := cfg["damping"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed < 1 {
			c.Damping = parsed
		}
	}
	if v, ok := cfg["wave_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && positive(parsed) {
			c.WaveSpeed = parsed
		}
	}
	if v, ok := cfg["stimulus"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.StimulusMagnitude = parsed
		}
	}
	if v, ok := cfg["stimulus_enabled"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.StimulusEnabled = parsed
		}
	}
	if v, ok := cfg["throttle_ms"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.ThrottleInterval = time.Duration(parsed) * time.Millisecond
		}
	}
	if v, ok := cfg["view"]; ok {
		if mode, err := ParseViewMode(v); err == nil {
			c.ViewMode = mode
		}
	}
	if v, ok := cfg["tiers"]; ok {
		if table, ok := lod.Lookup(v); ok {
			c.Tiers = table
		}
	}
	if v, ok := cfg["tps"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.TPS = parsed
		}
	}
	return c
}
