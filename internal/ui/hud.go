//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"jello-lod/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Source is what the HUD reads from. Controls are discovered through the
// optional core provider and setter interfaces.
type Source interface {
	Name() string
	Size() core.Size
	Parameters() core.ParameterSnapshot
}

var (
	hudBackground = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	hudHeading    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	hudText       = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	hudDim        = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

// HUD renders the parameter panel to the right of the grid view: +/- buttons
// for every control the simulation offers, then the remaining snapshot values
// as read-only readouts.
type HUD struct {
	sim      Source
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	title    string
	snapshot core.ParameterSnapshot

	controls    []control
	ints        core.IntParameterSetter
	floats      core.FloatParameterSetter
	panelOffset int
}

type control struct {
	core.ParameterControl
	value float64
	known bool
	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a HUD for sim with a panel of the given width. A zero
// width disables drawing.
func NewHUD(sim Source, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: "Controls"}
	if name := sim.Name(); name != "" {
		h.title = strings.ToUpper(name[:1]) + name[1:] + " Controls"
	}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if p, ok := sim.(core.ParameterControlsProvider); ok {
		for i, ctrl := range p.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(h.width-panelPadding-buttonSize, y, h.width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
			h.controls = append(h.controls, control{ParameterControl: ctrl, top: top, minus: minus, plus: plus})
		}
	}
	h.ints, _ = sim.(core.IntParameterSetter)
	h.floats, _ = sim.(core.FloatParameterSetter)
	return h
}

// Update refreshes the snapshot and applies button clicks inside the panel.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffset = panelOffsetX
	h.snapshot = h.sim.Parameters()
	for i := range h.controls {
		c := &h.controls[i]
		p, ok := h.snapshot.Lookup(c.Key)
		if !ok {
			c.known = false
			continue
		}
		v, err := strconv.ParseFloat(p.Value, 64)
		c.value, c.known = v, err == nil
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	at := image.Pt(mx-h.panelOffset, my)
	for i := range h.controls {
		c := &h.controls[i]
		switch {
		case at.In(c.minus):
			h.adjust(c, -1)
			return
		case at.In(c.plus):
			h.adjust(c, 1)
			return
		}
	}
}

// target is the value one step in direction dir, clamped to the control's
// range. ok is false when the step would change nothing or no setter accepts
// the control's type.
func (h *HUD) target(c *control, dir int) (v float64, ok bool) {
	if !c.known {
		return 0, false
	}
	step := c.Step
	switch c.Type {
	case core.ParamTypeInt:
		if h.ints == nil {
			return 0, false
		}
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if h.floats == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	v = c.value + float64(dir)*step
	if c.HasMin {
		v = math.Max(v, c.Min)
	}
	if c.HasMax {
		v = math.Min(v, c.Max)
	}
	return v, math.Abs(v-c.value) > 1e-9
}

func (h *HUD) adjust(c *control, dir int) {
	v, ok := h.target(c, dir)
	if !ok {
		return
	}
	var applied bool
	if c.Type == core.ParamTypeInt {
		v = math.Round(v)
		applied = h.ints.SetIntParameter(c.Key, int(v))
	} else {
		applied = h.floats.SetFloatParameter(c.Key, v)
	}
	if applied {
		c.value = v
	}
}

// Draw paints the panel at offsetX, matching the scaled grid height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		if h.panel != nil {
			h.panel.Deallocate()
		}
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(hudBackground)

	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, hudHeading)
	for i := range h.controls {
		c := &h.controls[i]
		y := c.top + labelBaseline
		text.Draw(h.panel, c.Label, face, panelPadding, y, hudText)
		value, col := "--", hudDim
		if c.known {
			value, col = h.format(c), hudText
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, c.minus.Min.X-buttonGap-w, y, col)
		_, canDown := h.target(c, -1)
		_, canUp := h.target(c, 1)
		h.drawButton(c.minus, "-", canDown)
		h.drawButton(c.plus, "+", canUp)
	}
	h.drawReadouts(controlsTop + len(h.controls)*lineHeight + readoutSpacing)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// drawReadouts lists the snapshot values that have no control, one group at
// a time with its summary beside the group name.
func (h *HUD) drawReadouts(y int) {
	face := basicfont.Face7x13
	controlled := make(map[string]bool, len(h.controls))
	for _, c := range h.controls {
		controlled[c.Key] = true
	}
	limit := h.panel.Bounds().Dy() - panelPadding
	for _, group := range h.snapshot.Groups {
		title := group.Name
		if group.Summary != "" {
			title += "  " + group.Summary
		}
		if y > limit {
			return
		}
		text.Draw(h.panel, title, face, panelPadding, y, hudHeading)
		y += readoutSpacing
		for _, p := range group.Params {
			if controlled[p.Key] {
				continue
			}
			if y > limit {
				return
			}
			text.Draw(h.panel, p.Label, face, panelPadding, y, hudDim)
			w := text.BoundString(face, p.Value).Dx()
			text.Draw(h.panel, p.Value, face, h.width-panelPadding-w, y, hudDim)
			y += readoutSpacing
		}
		y += readoutSpacing / 2
	}
}

func (h *HUD) drawButton(r image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := r.Min.X + (r.Dx()-b.Dx())/2
	y := r.Min.Y + (r.Dy()+b.Dy())/2
	text.Draw(h.panel, label, face, x, y, fg)
}

// format prints ints plainly and floats to the precision of their step.
func (h *HUD) format(c *control) string {
	if c.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(c.value)))
	}
	precision := 1
	if c.Step > 0 {
		precision = max(1, int(math.Ceil(-math.Log10(c.Step))))
	}
	return strconv.FormatFloat(c.value, 'f', precision, 64)
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	readoutSpacing = 16
	controlsTop    = panelPadding + headerBaseline + 14
)
