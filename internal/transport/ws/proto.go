package ws

import (
	"jello-lod/internal/config"
	"jello-lod/internal/lod"
	"jello-lod/internal/sim"
)

// ProtocolVersion is reported in the bootstrap document and every frame.
const ProtocolVersion = "1.0"

// Message types.
const (
	TypeFrame    = "FRAME"
	TypeFocus    = "FOCUS"
	TypeStimulus = "STIMULUS"
	TypeView     = "VIEW"
	TypeRes      = "RES"
)

// Input is a control message sent by a presenter.
type Input struct {
	Type    string `json:"type"`
	X       int    `json:"x,omitempty"`
	Z       int    `json:"z,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	View    string `json:"view,omitempty"`
	Res     int    `json:"res,omitempty"`
}

func (in Input) valid() bool {
	switch in.Type {
	case TypeFocus, TypeStimulus:
		return true
	case TypeView:
		_, err := config.ParseViewMode(in.View)
		return err == nil
	case TypeRes:
		return in.Res > 0
	}
	return false
}

// Controller is the part of a simulation that inputs drive.
type Controller interface {
	SetFocus(x, z int)
	SetStimulus(enabled bool)
	SetViewMode(mode config.ViewMode)
	SetResolution(res int) error
}

// Apply forwards the input to c. It must run on the simulation's goroutine.
func (in Input) Apply(c Controller) error {
	switch in.Type {
	case TypeFocus:
		c.SetFocus(in.X, in.Z)
	case TypeStimulus:
		c.SetStimulus(in.Enabled)
	case TypeView:
		mode, err := config.ParseViewMode(in.View)
		if err != nil {
			return err
		}
		c.SetViewMode(mode)
	case TypeRes:
		return c.SetResolution(in.Res)
	}
	return nil
}

// TierInfo describes one tier. MaxDistance is omitted for unbounded tiers.
type TierInfo struct {
	MinDistance float64  `json:"min_distance"`
	MaxDistance *float64 `json:"max_distance,omitempty"`
	Step        int      `json:"step"`
	Detail      float64  `json:"detail"`
	Animate     bool     `json:"animate"`
}

// Bootstrap is the static description a presenter fetches before
// subscribing.
type Bootstrap struct {
	ProtocolVersion string     `json:"protocol_version"`
	Res             int        `json:"res"`
	CellSize        float64    `json:"cell_size"`
	View            string     `json:"view"`
	Tiers           []TierInfo `json:"tiers"`
	Perimeter       []sim.Wall `json:"perimeter"`
}

// BootstrapOf describes the simulation's current grid.
func BootstrapOf(s *sim.Simulation) Bootstrap {
	cfg := s.Config()
	b := Bootstrap{
		ProtocolVersion: ProtocolVersion,
		Res:             cfg.Res,
		CellSize:        cfg.CellSize,
		View:            cfg.ViewMode.String(),
		Tiers:           tierInfo(cfg.Tiers),
		Perimeter:       s.Perimeter(),
	}
	return b
}

func tierInfo(t lod.Table) []TierInfo {
	out := make([]TierInfo, len(t))
	for i, tier := range t {
		out[i] = TierInfo{MinDistance: tier.MinDistance, Step: tier.Step, Detail: tier.Detail, Animate: tier.Animate}
		if tier.Bounded() {
			limit := tier.MaxDistance
			out[i].MaxDistance = &limit
		}
	}
	return out
}

type frameMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	sim.Frame
}
