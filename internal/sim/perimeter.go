package sim

import "jello-lod/internal/geometry"

// Wall is one static perimeter box framing the grid.
type Wall struct {
	Box      *geometry.Box `json:"box"`
	Position [3]float64    `json:"pos"`
}

// Perimeter returns the four walls around the current grid.
func (s *Simulation) Perimeter() []Wall { return s.walls }

// perimeter frames the res×res cell footprint with walls three cells thick
// and three cells tall. The north and south walls cover the corners.
func perimeter(res int, size float64) []Wall {
	span := float64(res) * size
	thick := size * 3
	height := size * 3
	// Cells are centred on (i − res/2)·size, so the footprint is shifted
	// half a cell towards negative coordinates.
	centre := -size / 2
	lo, hi := centre-span/2, centre+span/2
	y := height / 2

	ns := geometry.NewBox(span+thick*2, height, thick)
	ew := geometry.NewBox(thick, height, span)
	return []Wall{
		{Box: ns, Position: [3]float64{centre, y, hi + thick/2}},
		{Box: ns, Position: [3]float64{centre, y, lo - thick/2}},
		{Box: ew, Position: [3]float64{lo - thick/2, y, centre}},
		{Box: ew, Position: [3]float64{hi + thick/2, y, centre}},
	}
}
