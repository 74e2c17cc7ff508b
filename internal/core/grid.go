package core

// Coord addresses a cell on the finest grid. Z is the second horizontal axis.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Square describes a res×res grid stored in flat slices with index x + z·res.
type Square struct {
	Res int
}

// NewSquare returns a Square with at least one cell per side.
func NewSquare(res int) Square {
	if res <= 0 {
		res = 1
	}
	return Square{Res: res}
}

// Len returns the number of cells in the grid.
func (s Square) Len() int { return s.Res * s.Res }

// Index returns the linear slice index for coordinates (x, z).
func (s Square) Index(x, z int) int { return x + z*s.Res }

// Coord converts a linear index back to grid coordinates.
func (s Square) Coord(i int) Coord { return Coord{X: i % s.Res, Z: i / s.Res} }

// InBounds reports whether (x, z) lies inside the grid.
func (s Square) InBounds(x, z int) bool {
	return x >= 0 && x < s.Res && z >= 0 && z < s.Res
}

// Clamp pins a coordinate to [0, res).
func (s Square) Clamp(c Coord) Coord {
	c.X = clampInt(c.X, 0, s.Res-1)
	c.Z = clampInt(c.Z, 0, s.Res-1)
	return c
}

// Center returns the focus position used after a reset.
func (s Square) Center() Coord {
	return Coord{X: s.Res / 2, Z: s.Res / 2}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
