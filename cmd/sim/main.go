// Command sim runs a level headless at the fixed frame rate with the player
// driven by a tengo script, logging every traversal impulse.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/ecs/entity"
	"github.com/milk9111/side2d0/ecs/system"
	"github.com/milk9111/side2d0/traversal"
)

func main() {
	levelName := flag.String("level", "wallrun", "level name in levels/ (basename, .json optional)")
	script := flag.String("script", "", "tengo script driving the player (defaults to the level name)")
	frames := flag.Int("frames", 600, "maximum frames to simulate")
	debug := flag.Bool("debug", false, "log probes and motion changes")
	flag.Parse()

	if err := run(*levelName, *script, *frames, *debug); err != nil {
		log.Printf("sim: %v", err)
		os.Exit(1)
	}
}

func run(levelName, script string, frames int, debug bool) error {
	if script == "" {
		script = levelName
	}

	pipeline := system.NewPipeline(system.PipelineConfig{
		Headless:  true,
		Debug:     debug,
		LogEvents: true,
	})

	w, _, err := entity.NewLevelWorld(levelName, entity.LevelOptions{Script: script})
	if err != nil {
		return err
	}
	pipeline.Physics.Sync(w)

	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return fmt.Errorf("level %s has no player", levelName)
	}

	for i := 0; i < frames; i++ {
		pipeline.Update(w)
		if si, ok := ecs.Get(w, player, component.ScriptInputComponent.Kind()); ok && si.Done {
			break
		}
	}

	summary := fmt.Sprintf("sim: %s/%s ran %d frames, wallrun=%d retour=%d",
		levelName, script, pipeline.Events.Frame(),
		pipeline.Events.Impulses[traversal.AbilityWallrun],
		pipeline.Events.Impulses[traversal.AbilityRetour])
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		pos := body.Body.Position()
		summary += fmt.Sprintf(" final=(%.0f, %.0f)", pos.X, pos.Y)
	}
	log.Print(summary)
	return nil
}
