//go:build ebiten

package app

import (
	"jello-lod/internal/config"
	"jello-lod/internal/core"
	"jello-lod/internal/render"
	"jello-lod/internal/sim"
	"jello-lod/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var viewKeys = [...]ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}

// Game adapts a jello simulation to the ebiten.Game interface.
type Game struct {
	sim     *sim.Simulation
	painter *render.FramePainter
	hud     *ui.HUD
	overlay *ui.Overlay
	frame   sim.Frame

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool

	cursor  core.Coord
	tracked bool
	size    core.Size
}

// New constructs a Game for the provided simulation. hudWidth of zero hides
// the parameter panel.
func New(s *sim.Simulation, scale, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		sim:      s,
		painter:  render.NewFramePainter(s.Size().W),
		hud:      ui.NewHUD(s, hudWidth),
		overlay:  ui.NewOverlay(s, scale),
		scale:    scale,
		hudWidth: hudWidth,
		size:     s.Size(),
	}
}

// Reset rebuilds the simulation at its current resolution.
func (g *Game) Reset() {
	g.sim.Reset()
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation by one tick.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset()
	}
	mode := g.sim.Config().ViewMode
	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		g.sim.SetViewMode(mode.Next())
	}
	for i, key := range viewKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.sim.SetViewMode(config.ViewMode(i))
		}
	}

	g.handleMouse()
	if g.overlay != nil {
		g.overlay.Update()
	}
	if g.hud != nil {
		g.hud.Update(g.viewWidth())
	}

	if !g.paused || g.tickOnce {
		g.frame = g.sim.Tick()
		g.tickOnce = false
	}
	if size := g.sim.Size(); size != g.size {
		g.size = size
		ebiten.SetWindowSize(g.Layout(0, 0))
	}
	return nil
}

// handleMouse moves the focus with the cursor and toggles stimulus on click.
// Events over the HUD panel are left to the HUD.
func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.viewWidth() || my >= g.size.H*g.scale {
		return
	}
	at := core.Coord{X: mx / g.scale, Z: my / g.scale}
	if !g.tracked || at != g.cursor {
		g.cursor = at
		g.tracked = true
		g.sim.SetFocus(at.X, at.Z)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.sim.SetStimulus(!g.sim.StimulusEnabled())
	}
}

// Draw renders the most recent frame with overlay and HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.frame, g.sim.Config().ViewMode, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.viewWidth(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.viewWidth() + g.hudWidth, g.size.H * g.scale
}

func (g *Game) viewWidth() int { return g.size.W * g.scale }
