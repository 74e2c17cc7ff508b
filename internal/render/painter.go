//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"jello-lod/internal/config"
	"jello-lod/internal/sim"
)

// FramePainter uploads top-down frames into a res×res image.
type FramePainter struct {
	res int
	img *ebiten.Image
	buf []byte

	Background color.RGBA
}

// NewFramePainter allocates a painter for a res×res grid.
func NewFramePainter(res int) *FramePainter {
	fp := &FramePainter{Background: color.RGBA{A: 0xff}}
	fp.resize(res)
	return fp
}

func (fp *FramePainter) resize(res int) {
	fp.res = res
	fp.buf = make([]byte, 4*res*res)
	fp.img = ebiten.NewImage(res, res)
}

// Blit rasterises f and draws it scaled onto dst. The image is reallocated
// when the frame resolution changes.
func (fp *FramePainter) Blit(dst *ebiten.Image, f sim.Frame, mode config.ViewMode, scale int) {
	if f.Res <= 0 {
		return
	}
	if f.Res != fp.res {
		fp.img.Deallocate()
		fp.resize(f.Res)
	}
	FillFrameRGBA(fp.buf, f, mode, fp.Background)
	fp.img.WritePixels(fp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(fp.img, op)
}

// Size returns the dimensions of the underlying image.
func (fp *FramePainter) Size() (int, int) { return fp.res, fp.res }
