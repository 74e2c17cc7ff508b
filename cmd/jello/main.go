//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"jello-lod/internal/app"
	"jello-lod/internal/config"
	"jello-lod/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	scale := flag.Int("scale", 12, "screen pixels per cell")
	hud := flag.Int("hud", 240, "HUD panel width in pixels (0 hides it)")
	cfg, err := config.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	s, err := sim.New(cfg)
	if err != nil {
		log.Fatalf("sim: %v", err)
	}

	game := app.New(s, *scale, *hud)

	ebiten.SetWindowTitle(fmt.Sprintf("jello-lod %dx%d", cfg.Res, cfg.Res))
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(game.Layout(0, 0))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
