package entity

import (
	"fmt"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
)

const PlayerPrefab = "player.yaml"

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, PlayerPrefab)
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, PlayerPrefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// AttachScript hands a character's input over to a tengo script.
func AttachScript(w *ecs.World, e ecs.Entity, path string) error {
	if path == "" {
		return nil
	}
	if err := ecs.Add(w, e, component.ScriptInputComponent.Kind(), &component.ScriptInput{Path: path}); err != nil {
		return fmt.Errorf("player: attach script %s: %w", path, err)
	}
	return nil
}
