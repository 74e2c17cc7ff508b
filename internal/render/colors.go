// Package render turns simulation frames into colours and pixels.
package render

import (
	"image/color"
	"math"

	"jello-lod/internal/config"
	"jello-lod/internal/sim"
)

// Palette holds the per-cell material colours indexed by Material.
var Palette = [6]color.RGBA{
	hexRGBA(0xff6b6b), hexRGBA(0x4ecdc4), hexRGBA(0x45b7d1),
	hexRGBA(0x96ceb4), hexRGBA(0xfeca57), hexRGBA(0xff9ff3),
}

var (
	seamDebug   = hexRGBA(0xff00ff)
	cellGlow    = hexRGBA(0x222222)
	seamGlowCol = hexRGBA(0x111111)
)

func hexRGBA(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func unitRGBA(r, g, b float64) color.RGBA {
	return color.RGBA{R: unit8(r), G: unit8(g), B: unit8(b), A: 0xff}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// VelocityColor maps ±0.5 to blue→green→red.
func VelocityColor(v float64) color.RGBA {
	n := math.Max(-1, math.Min(v/0.5, 1))
	if n < 0 {
		r := -n
		return unitRGBA(0, 1-r, r)
	}
	return unitRGBA(n, 1-n, 0)
}

// AltitudeColor maps an elevation of −5..5 to blue→green→red.
func AltitudeColor(elevation float64) color.RGBA {
	n := math.Max(0, math.Min((elevation+5)/10, 1))
	if n < 0.5 {
		r := n * 2
		return unitRGBA(0, r, 1-r)
	}
	r := (n - 0.5) * 2
	return unitRGBA(r, 1-r, 0)
}

// DebugColor returns a checkerboard per block tinted by step.
func DebugColor(x, z, step int) color.RGBA {
	base := uint32(0xcccccc)
	if (x/step+z/step)%2 == 1 {
		base = 0x333333
	}
	switch step {
	case 1:
	case 2:
		base |= 0x001100
	case 3:
		base |= 0x110000
	case 4:
		base |= 0x000011
	default:
		base |= 0x111100
	}
	return hexRGBA(base)
}

// CellColor colours a primary cell for mode, including the focus glow.
func CellColor(mode config.ViewMode, c sim.CellState) color.RGBA {
	var col color.RGBA
	switch mode {
	case config.ViewVelocity:
		col = VelocityColor(c.Velocity)
	case config.ViewDebug:
		col = DebugColor(c.X, c.Z, c.Step)
	case config.ViewAltitude:
		col = AltitudeColor(c.Elevation())
	default:
		col = Palette[0]
	}
	if c.Highlight {
		col = glow(col, cellGlow)
	}
	return col
}

// SeamColor colours a seam cell for mode.
func SeamColor(mode config.ViewMode, c sim.SeamState) color.RGBA {
	var col color.RGBA
	switch mode {
	case config.ViewVelocity:
		col = VelocityColor(c.Velocity)
	case config.ViewDebug:
		col = seamDebug
	case config.ViewAltitude:
		col = AltitudeColor(c.Elevation())
	default:
		col = Palette[0]
	}
	if c.Highlight {
		col = glow(col, seamGlowCol)
	}
	return col
}

// MaterialColor returns the colour slot a cell owns.
func MaterialColor(material int) color.RGBA {
	return Palette[((material%len(Palette))+len(Palette))%len(Palette)]
}

func glow(c, add color.RGBA) color.RGBA {
	sat := func(a, b uint8) uint8 {
		if s := int(a) + int(b); s < 0xff {
			return uint8(s)
		}
		return 0xff
	}
	return color.RGBA{R: sat(c.R, add.R), G: sat(c.G, add.G), B: sat(c.B, add.B), A: c.A}
}
