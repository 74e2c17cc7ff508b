package config

import (
	"flag"
	"fmt"
	"strings"

	"jello-lod/internal/lod"
)

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Res, "res", c.Res, "grid resolution (cells per side)")
	fs.Float64Var(&c.CellSize, "size", c.CellSize, "world size of one cell")
	fs.Float64Var(&c.Damping, "damping", c.Damping, "wave damping in (0,1)")
	fs.Float64Var(&c.WaveSpeed, "wave-speed", c.WaveSpeed, "wave propagation speed")
	fs.Float64Var(&c.StimulusMagnitude, "stimulus", c.StimulusMagnitude, "stimulus magnitude")
	fs.BoolVar(&c.StimulusEnabled, "stimulus-on", c.StimulusEnabled, "inject stimulus at the focus every tick")
	fs.DurationVar(&c.ThrottleInterval, "throttle", c.ThrottleInterval, "minimum interval between LOD passes")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Var(&viewFlag{c: c}, "view", "view mode: "+strings.Join(viewNames[:], "|"))
	fs.Var(&tiersFlag{c: c}, "tiers", "tier preset: "+strings.Join(lod.Presets(), "|"))
}

// ParseFlags binds a Config to fs together with a -config flag and parses
// args. When -config names a file it is loaded first and every flag given
// explicitly on the command line is applied on top of it.
func ParseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	path := fs.String("config", "", "YAML config file; explicit flags override its values")
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *path == "" {
		return cfg, cfg.Validate()
	}
	loaded, err := Load(*path)
	if err != nil {
		return Config{}, err
	}
	over := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	loaded.Bind(over)
	var setErr error
	fs.Visit(func(f *flag.Flag) {
		if setErr != nil || over.Lookup(f.Name) == nil {
			return
		}
		setErr = over.Set(f.Name, f.Value.String())
	})
	if setErr != nil {
		return Config{}, setErr
	}
	return loaded, loaded.Validate()
}

type viewFlag struct{ c *Config }

func (f *viewFlag) String() string {
	if f == nil || f.c == nil {
		return ""
	}
	return f.c.ViewMode.String()
}

func (f *viewFlag) Set(s string) error {
	mode, err := ParseViewMode(s)
	if err != nil {
		return err
	}
	f.c.ViewMode = mode
	return nil
}

type tiersFlag struct {
	c    *Config
	name string
}

func (f *tiersFlag) String() string {
	if f == nil {
		return ""
	}
	return f.name
}

func (f *tiersFlag) Set(s string) error {
	table, ok := lod.Lookup(s)
	if !ok {
		return fmt.Errorf("unknown tier preset %q", s)
	}
	f.c.Tiers = table
	f.name = s
	return nil
}
