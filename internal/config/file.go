package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"jello-lod/internal/lod"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("config.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

type fileConfig struct {
	Res        *int          `yaml:"res"`
	CellSize   *float64      `yaml:"cell_size"`
	Damping    *float64      `yaml:"damping"`
	WaveSpeed  *float64      `yaml:"wave_speed"`
	Stimulus   *fileStimulus `yaml:"stimulus"`
	ThrottleMs *int          `yaml:"throttle_ms"`
	View       *string       `yaml:"view"`
	TPS        *int          `yaml:"tps"`
	Preset     string        `yaml:"preset"`
	Tiers      []fileTier    `yaml:"tiers"`
}

type fileStimulus struct {
	Magnitude *float64 `yaml:"magnitude"`
	Enabled   *bool    `yaml:"enabled"`
}

type fileTier struct {
	MinDistance float64  `yaml:"min_distance"`
	MaxDistance *float64 `yaml:"max_distance"`
	Unbounded   bool     `yaml:"unbounded"`
	Step        int      `yaml:"step"`
	Detail      *float64 `yaml:"detail"`
	Animate     *bool    `yaml:"animate"`
}

func (t fileTier) tier() lod.Tier {
	out := lod.Tier{MinDistance: t.MinDistance, MaxDistance: lod.Unbounded, Step: t.Step, Detail: 1, Animate: true}
	if t.MaxDistance != nil && !t.Unbounded {
		out.MaxDistance = *t.MaxDistance
	}
	if t.Detail != nil {
		out.Detail = *t.Detail
	}
	if t.Animate != nil {
		out.Animate = *t.Animate
	}
	return out
}

// Load reads a YAML config file, checks it against the embedded schema and
// applies it over Default. Omitting max_distance makes a tier unbounded.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	c, err := Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML document the same way Load does.
func Parse(raw []byte) (Config, error) {
	if err := validateDocument(raw); err != nil {
		return Config{}, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	c := Default()
	if err := f.apply(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// validateDocument re-encodes the YAML tree as JSON so the schema sees JSON
// types.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	buf, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (f fileConfig) apply(c *Config) error {
	if f.Res != nil {
		c.Res = *f.Res
	}
	if f.CellSize != nil {
		c.CellSize = *f.CellSize
	}
	if f.Damping != nil {
		c.Damping = *f.Damping
	}
	if f.WaveSpeed != nil {
		c.WaveSpeed = *f.WaveSpeed
	}
	if f.Stimulus != nil {
		if f.Stimulus.Magnitude != nil {
			c.StimulusMagnitude = *f.Stimulus.Magnitude
		}
		if f.Stimulus.Enabled != nil {
			c.StimulusEnabled = *f.Stimulus.Enabled
		}
	}
	if f.ThrottleMs != nil {
		c.ThrottleInterval = time.Duration(*f.ThrottleMs) * time.Millisecond
	}
	if f.View != nil {
		mode, err := ParseViewMode(*f.View)
		if err != nil {
			return err
		}
		c.ViewMode = mode
	}
	if f.TPS != nil {
		c.TPS = *f.TPS
	}
	if f.Preset != "" {
		table, ok := lod.Lookup(f.Preset)
		if !ok {
			return fmt.Errorf("%w: unknown tier preset %q", ErrInvalid, f.Preset)
		}
		c.Tiers = table
	}
	if len(f.Tiers) > 0 {
		c.Tiers = make(lod.Table, len(f.Tiers))
		for i, t := range f.Tiers {
			c.Tiers[i] = t.tier()
		}
	}
	return nil
}
