package geometry

// Box is an immutable axis-aligned box centred on the origin.
type Box struct {
	Width    float64       `json:"w"`
	Height   float64       `json:"h"`
	Depth    float64       `json:"d"`
	Vertices [8][3]float32 `json:"-"`
}

// boxIndices triangulates the 8 corners; shared by every Box.
var boxIndices = [36]uint16{
	0, 1, 2, 0, 2, 3, // bottom
	4, 6, 5, 4, 7, 6, // top
	0, 4, 5, 0, 5, 1, // -z
	1, 5, 6, 1, 6, 2, // +x
	2, 6, 7, 2, 7, 3, // +z
	3, 7, 4, 3, 4, 0, // -x
}

// NewBox returns a box of the given extents. Callers must not mutate it once
// shared.
func NewBox(w, h, d float64) *Box {
	hw, hh, hd := float32(w/2), float32(h/2), float32(d/2)
	return &Box{
		Width: w, Height: h, Depth: d,
		Vertices: [8][3]float32{
			{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd},
			{-hw, hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}, {-hw, hh, hd},
		},
	}
}

// Indices returns the shared triangle index list.
func (b *Box) Indices() []uint16 { return boxIndices[:] }
