package system

import (
	"testing"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
)

func TestCameraFollowsPlayer(t *testing.T) {
	tests := []struct {
		name       string
		bounds     *component.LevelBounds
		smoothness float64
		wantX      float64
		wantY      float64
	}{
		{name: "unbounded", smoothness: 1, wantX: 600, wantY: 200},
		{name: "clamped", bounds: &component.LevelBounds{Width: 1200, Height: 700}, smoothness: 1, wantX: 400, wantY: 100},
		{name: "small_level_centers", bounds: &component.LevelBounds{Width: 400, Height: 300}, smoothness: 1, wantX: -200, wantY: -150},
		{name: "smoothed", smoothness: 0.5, wantX: 300, wantY: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			player := ecs.CreateEntity(w)
			mustAdd(t, w, player, component.PlayerTagComponent, &component.PlayerTag{})
			mustAdd(t, w, player, component.TransformComponent, &component.Transform{X: 1000, Y: 500})
			cam := ecs.CreateEntity(w)
			camera := &component.Camera{Zoom: 1, Smoothness: tc.smoothness}
			mustAdd(t, w, cam, component.CameraComponent, camera)
			if tc.bounds != nil {
				mustAdd(t, w, ecs.CreateEntity(w), component.LevelBoundsComponent, tc.bounds)
			}

			NewCameraSystem(800, 600).Update(w)
			camera, _ = ecs.Get(w, cam, component.CameraComponent.Kind())
			if !almostEqual(camera.X, tc.wantX) || !almostEqual(camera.Y, tc.wantY) {
				t.Fatalf("expected camera at (%v, %v), got (%v, %v)", tc.wantX, tc.wantY, camera.X, camera.Y)
			}
		})
	}
}

func TestCameraZoomWidensView(t *testing.T) {
	w := ecs.NewWorld()
	player := ecs.CreateEntity(w)
	mustAdd(t, w, player, component.PlayerTagComponent, &component.PlayerTag{})
	mustAdd(t, w, player, component.TransformComponent, &component.Transform{X: 1000, Y: 500})
	cam := ecs.CreateEntity(w)
	mustAdd(t, w, cam, component.CameraComponent, &component.Camera{Zoom: 0.5, Smoothness: 1})

	NewCameraSystem(800, 600).Update(w)
	camera, _ := ecs.Get(w, cam, component.CameraComponent.Kind())
	if !almostEqual(camera.X, 200) || !almostEqual(camera.Y, -100) {
		t.Fatalf("expected camera at (200, -100), got (%v, %v)", camera.X, camera.Y)
	}
}
