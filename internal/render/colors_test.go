package render

import (
	"image/color"
	"testing"

	"jello-lod/internal/config"
	"jello-lod/internal/sim"
)

func TestVelocityColorRamp(t *testing.T) {
	cases := []struct {
		v    float64
		want color.RGBA
	}{
		{0, color.RGBA{0, 255, 0, 255}},
		{0.5, color.RGBA{255, 0, 0, 255}},
		{9, color.RGBA{255, 0, 0, 255}},
		{-0.5, color.RGBA{0, 0, 255, 255}},
		{0.25, color.RGBA{128, 128, 0, 255}},
	}
	for _, tc := range cases {
		if got := VelocityColor(tc.v); got != tc.want {
			t.Fatalf("VelocityColor(%v) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestAltitudeColorRamp(t *testing.T) {
	if got := AltitudeColor(-5); got != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("bottom should be blue, got %v", got)
	}
	if got := AltitudeColor(0); got != (color.RGBA{0, 255, 0, 255}) {
		t.Fatalf("midpoint should be green, got %v", got)
	}
	if got := AltitudeColor(50); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("top should clamp to red, got %v", got)
	}
}

func TestDebugCheckerboard(t *testing.T) {
	if got := DebugColor(0, 0, 1); got != hexRGBA(0xcccccc) {
		t.Fatalf("step 1 even block = %v", got)
	}
	if got := DebugColor(2, 0, 2); got != hexRGBA(0x333333|0x001100) {
		t.Fatalf("step 2 odd block = %v", got)
	}
	if got := DebugColor(0, 0, 8); got != hexRGBA(0xcccccc|0x111100) {
		t.Fatalf("step 8 even block = %v", got)
	}
}

func TestModesIgnoreSimulationState(t *testing.T) {
	c := sim.CellState{X: 1, Z: 2, Step: 1, Velocity: 0.4, Position: [3]float64{0, 3, 0}}
	if CellColor(config.ViewDefault, c) != Palette[0] {
		t.Fatal("default view paints every cell with the first palette colour")
	}
	if CellColor(config.ViewDebug, c) != DebugColor(1, 2, 1) {
		t.Fatal("debug view should use the checkerboard")
	}
	if SeamColor(config.ViewDebug, sim.SeamState{From: 1, To: 2}) != seamDebug {
		t.Fatal("debug seams should be magenta")
	}
	lit := c
	lit.Highlight = true
	if got, base := CellColor(config.ViewDefault, lit), Palette[0]; got.G != base.G+0x22 {
		t.Fatalf("highlight should brighten the cell, got %v", got)
	}
}

func TestFillFrameFinestWins(t *testing.T) {
	f := sim.Frame{
		Res: 4,
		Cells: []sim.CellState{
			{X: 0, Z: 0, Step: 1},
			{X: 0, Z: 0, Step: 2},
			{X: 2, Z: 2, Step: 4},
		},
		Seams: []sim.SeamState{{X: 3, Z: 0, From: 1, To: 2}},
	}
	bg := color.RGBA{1, 2, 3, 255}
	buf := make([]byte, 4*16)
	FillFrameRGBA(buf, f, config.ViewDebug, bg)

	at := func(x, z int) color.RGBA {
		i := 4 * (x + z*4)
		return color.RGBA{buf[i], buf[i+1], buf[i+2], buf[i+3]}
	}
	if at(0, 0) != DebugColor(0, 0, 1) {
		t.Fatalf("finer cell should overwrite the coarse block, got %v", at(0, 0))
	}
	if at(1, 1) != DebugColor(0, 0, 2) {
		t.Fatalf("coarse block should fill its footprint, got %v", at(1, 1))
	}
	if at(3, 3) != DebugColor(2, 2, 4) {
		t.Fatalf("clipped block should still paint in-bounds pixels, got %v", at(3, 3))
	}
	if at(3, 0) != seamDebug {
		t.Fatalf("seam should be drawn on top, got %v", at(3, 0))
	}
	if at(2, 0) != bg {
		t.Fatalf("uncovered pixel should keep the background, got %v", at(2, 0))
	}
}
