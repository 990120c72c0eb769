package entity

import (
	"fmt"

	"github.com/milk9111/side2d0/ecs"
)

const CratePrefab = "crate.yaml"

// NewPropAt builds a loose physics prop from prefab centered on x, y.
func NewPropAt(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	if prefab == "" {
		prefab = CratePrefab
	}
	e, err := BuildEntity(w, prefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, e, x, y, 0); err != nil {
		return 0, fmt.Errorf("prop: override transform: %w", err)
	}
	return e, nil
}
