package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/entity"
	"github.com/milk9111/side2d0/ecs/system"
	"github.com/milk9111/side2d0/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	appName    = "side2d0"
)

var backgroundColor = color.NRGBA{R: 0x14, G: 0x16, B: 0x1c, A: 0xff}

type Game struct {
	frames int
	debug  bool

	levelName string
	script    string

	world    *ecs.World
	pipeline *system.Pipeline
	watcher  *prefabs.Watcher
}

func NewGame(levelName, script string, debug bool) (*Game, error) {
	g := &Game{
		debug:     debug,
		levelName: levelName,
		script:    script,
	}

	cfg := system.PipelineConfig{
		Debug: debug,
		ViewW: baseWidth,
		ViewH: baseHeight,
	}

	if watcher, err := prefabs.NewWatcher(prefabs.Dir); err != nil {
		log.Printf("game: prefab hot reload disabled: %v", err)
	} else {
		g.watcher = watcher
		cfg.Changes = watcher.Events
		go logWatchErrors(watcher)
	}

	if store, err := system.OpenTuningStore(appName); err != nil {
		log.Printf("game: tuning persistence disabled: %v", err)
	} else {
		cfg.Store = store
	}

	g.pipeline = system.NewPipeline(cfg)
	if err := g.load(); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func logWatchErrors(w *prefabs.Watcher) {
	for err := range w.Errors {
		log.Printf("game: watch: %v", err)
	}
}

// load swaps in a freshly spawned level. A failed load keeps the current
// world and pipeline state running.
func (g *Game) load() error {
	w, _, err := entity.NewLevelWorld(g.levelName, entity.LevelOptions{Script: g.script})
	if err != nil {
		return fmt.Errorf("game: %w", err)
	}
	g.pipeline.Reset()
	g.world = w
	g.pipeline.Physics.Sync(g.world)
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.debug = !g.debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.load(); err != nil {
			log.Printf("game: reload: %v", err)
		}
	}

	g.pipeline.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	system.DrawPhysicsDebug(g.pipeline.Physics.Space(), g.world, screen)
	system.DrawTraversalDebug(g.world, screen)

	if g.debug {
		system.DrawPlayerStateDebug(g.world, screen)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()), 10, baseHeight-20)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
