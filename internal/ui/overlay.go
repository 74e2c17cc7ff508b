//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/lod"
	"jello-lod/internal/seam"
	"jello-lod/internal/wave"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// LODSource is the simulation state the overlay draws from.
type LODSource interface {
	Size() core.Size
	Focus() core.Coord
	Config() config.Config
	Seams() []seam.Cell
	Field() *wave.Field
}

// Overlay draws optional debugging visuals on top of the cell view.
type Overlay struct {
	sim       LODSource
	scale     int
	showRings bool
	showSeams bool
	showField bool

	fieldImg *ebiten.Image
	fieldBuf []byte

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim LODSource, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: scale, showRings: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles layers: T tier rings, G seam markers, H height field.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.showRings = !o.showRings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		o.showSeams = !o.showSeams
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.showField = !o.showField
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	if o.showField {
		o.drawField(screen, o.sim.Field(), size, scale)
	}
	if o.showSeams {
		o.drawSeams(screen, o.sim.Seams(), scale)
	}
	focus := o.sim.Focus()
	fx := (float64(focus.X) + 0.5) * float64(scale)
	fz := (float64(focus.Z) + 0.5) * float64(scale)
	if o.showRings {
		o.drawRings(screen, o.sim.Config().Tiers, fx, fz, scale)
	}
	arm := float64(scale) * 2
	cross := color.RGBA{R: 255, G: 255, B: 255, A: 200}
	o.drawLine(screen, fx-arm, fz, fx+arm, fz, 1, cross)
	o.drawLine(screen, fx, fz-arm, fx, fz+arm, 1, cross)
}

// drawRings outlines each bounded tier's outer edge around the focus.
func (o *Overlay) drawRings(screen *ebiten.Image, tiers lod.Table, fx, fz float64, scale int) {
	for i, t := range tiers {
		if !t.Bounded() {
			continue
		}
		col := ringColor(i, len(tiers))
		radius := t.MaxDistance * float64(scale)
		segments := int(math.Max(24, radius/3))
		prevX, prevZ := fx+radius, fz
		for s := 1; s <= segments; s++ {
			a := 2 * math.Pi * float64(s) / float64(segments)
			x := fx + radius*math.Cos(a)
			z := fz + radius*math.Sin(a)
			o.drawLine(screen, prevX, prevZ, x, z, 1, col)
			prevX, prevZ = x, z
		}
	}
}

func (o *Overlay) drawSeams(screen *ebiten.Image, seams []seam.Cell, scale int) {
	dot := math.Max(1, float64(scale)*0.5)
	for _, c := range seams {
		x := (float64(c.X) + 0.5) * float64(scale)
		z := (float64(c.Z) + 0.5) * float64(scale)
		col := color.RGBA{R: 255, G: 0, B: 255, A: 180}
		if c.Diagonal() {
			col = color.RGBA{R: 255, G: 200, B: 0, A: 180}
		}
		o.drawPoint(screen, x, z, dot, col)
	}
}

// drawField tints positive heights warm and negative heights cool, with
// alpha following magnitude.
func (o *Overlay) drawField(screen *ebiten.Image, field *wave.Field, size core.Size, scale int) {
	if field == nil {
		return
	}
	heights := field.Heights()
	total := size.W * size.H
	if len(heights) != total || total == 0 {
		return
	}
	if o.fieldImg == nil || o.fieldImg.Bounds().Dx() != size.W || o.fieldImg.Bounds().Dy() != size.H {
		if o.fieldImg != nil {
			o.fieldImg.Deallocate()
		}
		o.fieldImg = ebiten.NewImage(size.W, size.H)
		o.fieldBuf = make([]byte, 4*total)
	}
	peak := 0.0
	for _, h := range heights {
		peak = math.Max(peak, math.Abs(h))
	}
	if peak == 0 {
		peak = 1
	}
	const maxAlpha = 150.0
	warm := color.RGBA{R: 255, G: 120, B: 40}
	cool := color.RGBA{R: 64, G: 164, B: 223}
	for i, h := range heights {
		base := i * 4
		tint := warm
		if h < 0 {
			tint = cool
		}
		intensity := clamp01(math.Abs(h) / peak)
		o.fieldBuf[base+0] = tint.R
		o.fieldBuf[base+1] = tint.G
		o.fieldBuf[base+2] = tint.B
		o.fieldBuf[base+3] = uint8(math.Round(maxAlpha * math.Sqrt(intensity)))
	}
	o.fieldImg.WritePixels(o.fieldBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.fieldImg, op)
}

func (o *Overlay) drawPoint(screen *ebiten.Image, x, y, size float64, col color.RGBA) {
	if o.pixel == nil || size <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x-size*0.5, y-size*0.5)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

// ringColor fades from green for the finest tier to blue for the coarsest.
func ringColor(i, n int) color.RGBA {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	return lerpRGBA(color.RGBA{R: 80, G: 230, B: 120, A: 220}, color.RGBA{R: 90, G: 120, B: 255, A: 220}, t)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	t = clamp01(t)
	return color.RGBA{
		R: lerpComponent(a.R, b.R, t),
		G: lerpComponent(a.G, b.G, t),
		B: lerpComponent(a.B, b.B, t),
		A: lerpComponent(a.A, b.A, t),
	}
}

func lerpComponent(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
