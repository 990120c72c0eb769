package entity

import (
	"fmt"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
)

const CameraPrefab = "camera.yaml"

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, CameraPrefab)
}

func NewCameraAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	camera, err := NewCamera(w)
	if err != nil {
		return 0, err
	}
	cam, ok := ecs.Get(w, camera, component.CameraComponent.Kind())
	if !ok {
		return 0, fmt.Errorf("camera: prefab %s has no camera component", CameraPrefab)
	}
	cam.X = x
	cam.Y = y
	return camera, nil
}
