package sim

import (
	"math"

	"jello-lod/internal/core"
	"jello-lod/internal/geometry"
	"jello-lod/internal/topology"
	"jello-lod/internal/wave"
)

const (
	primaryLift     = 5.0
	seamLift        = 3.0
	primaryGlow     = 1.5
	seamGlow        = 2.0
	tiltMaxStep     = 2
	stimulusQuiet   = 2.0
	seamTiltDamping = 0.5
)

// CellState is the per-tick pose of one primary cell.
type CellState struct {
	ID        uint64       `json:"id"`
	X         int          `json:"x"`
	Z         int          `json:"z"`
	Step      int          `json:"step"`
	Material  int          `json:"material"`
	Animate   bool         `json:"animate"`
	Position  [3]float64   `json:"pos"`
	Height    float64      `json:"h"`
	Velocity  float64      `json:"v"`
	Pitch     float64      `json:"pitch"`
	Roll      float64      `json:"roll"`
	Highlight bool         `json:"highlight,omitempty"`
	Geometry  geometry.Key `json:"-"`
}

// Elevation is the vertical offset of the cell.
func (c CellState) Elevation() float64 { return c.Position[1] }

// SeamState is the per-tick pose of one seam cell.
type SeamState struct {
	X         int          `json:"x"`
	Z         int          `json:"z"`
	From      int          `json:"from"`
	To        int          `json:"to"`
	Material  int          `json:"material"`
	Position  [3]float64   `json:"pos"`
	Height    float64      `json:"h"`
	Velocity  float64      `json:"v"`
	Pitch     float64      `json:"pitch"`
	Roll      float64      `json:"roll"`
	Highlight bool         `json:"highlight,omitempty"`
	Geometry  geometry.Key `json:"-"`
}

// Elevation is the vertical offset of the seam cell.
func (c SeamState) Elevation() float64 { return c.Position[1] }

// AvgStep is the midpoint of the bridged steps.
func (c SeamState) AvgStep() float64 { return float64(c.From+c.To) / 2 }

// Changes lists cell IDs touched since the previous frame.
type Changes struct {
	Removed []uint64 `json:"removed,omitempty"`
	Updated []uint64 `json:"updated,omitempty"`
	Created []uint64 `json:"created,omitempty"`
}

// changesOf flattens a delta into cell IDs.
func changesOf(d topology.Delta) Changes {
	var c Changes
	for _, cell := range d.Removed {
		c.Removed = append(c.Removed, cell.ID)
	}
	for _, u := range d.Updated {
		c.Updated = append(c.Updated, u.Cell.ID)
	}
	for _, cell := range d.Created {
		c.Created = append(c.Created, cell.ID)
	}
	return c
}

// Frame is everything a presenter needs to mirror one tick. Reset means the
// previous topology is gone and Cells replaces it wholesale.
type Frame struct {
	Tick     uint64      `json:"tick"`
	Res      int         `json:"res"`
	Focus    core.Coord  `json:"focus"`
	Stimulus bool        `json:"stimulus"`
	View     string      `json:"view"`
	Reset    bool        `json:"reset,omitempty"`
	Changes  Changes     `json:"changes"`
	Cells    []CellState `json:"cells"`
	Seams    []SeamState `json:"seams"`
	Field    wave.Stats  `json:"field"`
}

func (s *Simulation) sample() Frame {
	f := Frame{
		Tick:     s.stats.Ticks,
		Res:      s.cfg.Res,
		Focus:    s.focus,
		Stimulus: s.stimulus,
		View:     s.cfg.ViewMode.String(),
		Reset:    s.reset,
		Changes:  changesOf(s.pending),
		Field:    s.field.Stats(),
	}
	cells := s.grid.Cells()
	f.Cells = make([]CellState, 0, len(cells))
	for _, c := range cells {
		step := c.Step()
		st := CellState{
			ID:       c.ID,
			X:        c.X,
			Z:        c.Z,
			Step:     step,
			Material: c.Material,
			Animate:  c.Tier.Animate,
			Geometry: c.Geometry,
		}
		elev := c.BaseY
		if c.Tier.Animate {
			st.Height = s.cellHeight(c.X, c.Z, step)
			st.Velocity = s.velocity(c.X, c.Z)
			lift := primaryLift * c.Tier.Detail
			elev = st.Height * lift
			if step <= tiltMaxStep {
				st.Pitch, st.Roll = s.tilt(c.X, c.Z, lift)
			}
		}
		st.Position = s.world(c.X, c.Z, elev)
		st.Highlight = s.near(c.X, c.Z, float64(step)*primaryGlow)
		f.Cells = append(f.Cells, st)
	}

	f.Seams = make([]SeamState, 0, len(s.seams))
	for _, c := range s.seams {
		st := SeamState{
			X:        c.X,
			Z:        c.Z,
			From:     c.From,
			To:       c.To,
			Material: c.Material,
			Geometry: c.Geometry,
		}
		st.Height, _ = s.field.At(c.X, c.Z)
		st.Velocity = s.velocity(c.X, c.Z)
		if c.AvgStep() <= tiltMaxStep {
			pitch, roll := s.tilt(c.X, c.Z, seamLift)
			st.Pitch, st.Roll = pitch*seamTiltDamping, roll*seamTiltDamping
		}
		st.Position = s.world(c.X, c.Z, st.Height*seamLift)
		st.Highlight = s.near(c.X, c.Z, c.AvgStep()*seamGlow)
		f.Seams = append(f.Seams, st)
	}
	return f
}

// cellHeight samples the field for a cell. Fine tiers read one value; coarse
// tiers average the in-bounds corners of their block.
func (s *Simulation) cellHeight(x, z, step int) float64 {
	if step <= tiltMaxStep {
		h, _ := s.field.At(x, z)
		return h
	}
	far := step - 1
	corners := [4][2]int{{x, z}, {x + far, z}, {x, z + far}, {x + far, z + far}}
	var sum float64
	n := 0
	for _, p := range corners {
		if h, ok := s.field.At(p[0], p[1]); ok {
			sum += h
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// velocity reads current − previous, forced to zero around an active
// stimulus.
func (s *Simulation) velocity(x, z int) float64 {
	if s.stimulus && math.Hypot(float64(x-s.focus.X), float64(z-s.focus.Z)) <= stimulusQuiet {
		return 0
	}
	v, _ := s.field.Velocity(x, z)
	return v
}

// tilt converts the local slope into pitch (about x) and roll (about z).
func (s *Simulation) tilt(x, z int, lift float64) (pitch, roll float64) {
	gx, gz, ok := s.field.Gradient(x, z)
	if !ok {
		return 0, 0
	}
	scale := lift / s.cfg.CellSize
	return math.Atan(gz * scale), -math.Atan(gx * scale)
}

func (s *Simulation) world(x, z int, y float64) [3]float64 {
	half := float64(s.cfg.Res) / 2
	return [3]float64{(float64(x) - half) * s.cfg.CellSize, y, (float64(z) - half) * s.cfg.CellSize}
}

func (s *Simulation) near(x, z int, radius float64) bool {
	dx, dz := float64(x-s.focus.X), float64(z-s.focus.Z)
	return dx*dx+dz*dz < radius*radius
}
