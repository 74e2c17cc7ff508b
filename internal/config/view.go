package config

import "fmt"

// ViewMode selects how cells are coloured. It never affects the simulation.
type ViewMode int

const (
	ViewDefault ViewMode = iota
	ViewVelocity
	ViewDebug
	ViewAltitude
)

var viewNames = [...]string{
	ViewDefault:  "default",
	ViewVelocity: "velocity",
	ViewDebug:    "debug",
	ViewAltitude: "altitude",
}

func (v ViewMode) valid() bool { return v >= 0 && int(v) < len(viewNames) }

func (v ViewMode) String() string {
	if !v.valid() {
		return fmt.Sprintf("ViewMode(%d)", int(v))
	}
	return viewNames[v]
}

// ParseViewMode maps a name to its mode.
func ParseViewMode(s string) (ViewMode, error) {
	for i, name := range viewNames {
		if name == s {
			return ViewMode(i), nil
		}
	}
	return ViewDefault, fmt.Errorf("%w: unknown view mode %q", ErrInvalid, s)
}

// ViewModes lists every mode in cycle order.
func ViewModes() []ViewMode {
	out := make([]ViewMode, len(viewNames))
	for i := range out {
		out[i] = ViewMode(i)
	}
	return out
}

// Next returns the mode after v, wrapping around.
func (v ViewMode) Next() ViewMode { return ViewMode((int(v) + 1) % len(viewNames)) }
