package render

import (
	"image/color"
	"sort"

	"jello-lod/internal/config"
	"jello-lod/internal/sim"
)

// FillFrameRGBA rasterises a top-down view of f into buf, one pixel per
// finest-grid cell. Coarse blocks are painted first so finer overlapping
// cells win; seams are drawn last. buf must hold 4·res² bytes.
func FillFrameRGBA(buf []byte, f sim.Frame, mode config.ViewMode, background color.RGBA) {
	res := f.Res
	if len(buf) < 4*res*res {
		return
	}
	for i := 0; i < res*res; i++ {
		put(buf, i, background)
	}

	order := make([]int, len(f.Cells))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return f.Cells[order[a]].Step > f.Cells[order[b]].Step })

	for _, i := range order {
		c := f.Cells[i]
		col := CellColor(mode, c)
		for dz := 0; dz < c.Step; dz++ {
			z := c.Z + dz
			if z >= res {
				break
			}
			for dx := 0; dx < c.Step; dx++ {
				x := c.X + dx
				if x >= res {
					break
				}
				put(buf, x+z*res, col)
			}
		}
	}
	for _, s := range f.Seams {
		if s.X < 0 || s.X >= res || s.Z < 0 || s.Z >= res {
			continue
		}
		put(buf, s.X+s.Z*res, SeamColor(mode, s))
	}
}

func put(buf []byte, i int, c color.RGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}
