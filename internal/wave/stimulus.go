package wave

type kernelTap struct {
	dx, dz int
	weight float64
}

// stimulusKernel spreads an injected impulse over a diamond of radius two.
var stimulusKernel = []kernelTap{
	{dx: 0, dz: 0, weight: 1.0},
	{dx: -1, dz: 0, weight: 0.67}, {dx: 1, dz: 0, weight: 0.67},
	{dx: 0, dz: -1, weight: 0.67}, {dx: 0, dz: 1, weight: 0.67},
	{dx: -1, dz: -1, weight: 0.53}, {dx: 1, dz: -1, weight: 0.53},
	{dx: -1, dz: 1, weight: 0.53}, {dx: 1, dz: 1, weight: 0.53},
	{dx: -2, dz: 0, weight: 0.33}, {dx: 2, dz: 0, weight: 0.33},
	{dx: 0, dz: -2, weight: 0.33}, {dx: 0, dz: 2, weight: 0.33},
}

// Inject adds magnitude·weight to the current buffer around (x, z). Taps that
// fall outside the grid are clipped. A focus outside the grid injects nothing.
func (f *Field) Inject(x, z int, magnitude float64) {
	if !f.grid.InBounds(x, z) {
		return
	}
	for _, tap := range stimulusKernel {
		nx, nz := x+tap.dx, z+tap.dz
		if !f.grid.InBounds(nx, nz) {
			continue
		}
		f.curr[f.grid.Index(nx, nz)] += magnitude * tap.weight
	}
}
