package lod

import "sort"

// Preset builds a fresh tier table.
type Preset func() Table

var presets = map[string]Preset{}

// Register adds a tier table preset under the provided name.
func Register(name string, p Preset) {
	if name == "" || p == nil {
		return
	}
	presets[name] = p
}

// Lookup returns a fresh copy of the named preset.
func Lookup(name string) (Table, bool) {
	p, ok := presets[name]
	if !ok {
		return nil, false
	}
	return p(), true
}

// Presets lists the registered preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("default", DefaultTable)
	Register("flat", func() Table {
		return Table{{MinDistance: 0, MaxDistance: Unbounded, Step: 1, Detail: 1, Animate: true}}
	})
	Register("bounded", func() Table {
		return Table{
			{MinDistance: 0, MaxDistance: 12, Step: 1, Detail: 1, Animate: true},
			{MinDistance: 10, MaxDistance: 30, Step: 2, Detail: 0.8, Animate: true},
		}
	})
	Register("coarse", func() Table {
		return Table{
			{MinDistance: 0, MaxDistance: 16, Step: 2, Detail: 1, Animate: true},
			{MinDistance: 14, MaxDistance: 40, Step: 4, Detail: 0.75, Animate: true},
			{MinDistance: 36, MaxDistance: Unbounded, Step: 8, Detail: 0.5, Animate: false},
		}
	})
}
