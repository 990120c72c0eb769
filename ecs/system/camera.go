package system

import (
	"github.com/milk9111/side2d0/common"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
)

// CameraSystem eases the camera toward the player and keeps the view inside
// the level bounds.
type CameraSystem struct {
	viewW float64
	viewH float64
}

func NewCameraSystem(viewW, viewH float64) *CameraSystem {
	return &CameraSystem{viewW: viewW, viewH: viewH}
}

func (cs *CameraSystem) SetViewport(viewW, viewH float64) {
	cs.viewW = viewW
	cs.viewH = viewH
}

func (cs *CameraSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}
	camEntity, ok := w.First(component.CameraComponent.Kind())
	if !ok {
		return
	}
	cam, ok := ecs.Get(w, camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}
	target, ok := w.First(component.PlayerTagComponent.Kind(), component.TransformComponent.Kind())
	if !ok {
		return
	}
	targetTransform, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return
	}

	zoom := cam.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	viewW := cs.viewW / zoom
	viewH := cs.viewH / zoom

	goalX := targetTransform.X - viewW/2
	goalY := targetTransform.Y - viewH/2

	if boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind()); ok {
		if bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind()); ok {
			goalX = clampView(goalX, viewW, bounds.Width)
			goalY = clampView(goalY, viewH, bounds.Height)
		}
	}

	t := cam.Smoothness
	if t <= 0 || t > 1 {
		t = 1
	}
	cam.X = float64(common.Lerp(float32(cam.X), float32(goalX), float32(t)))
	cam.Y = float64(common.Lerp(float32(cam.Y), float32(goalY), float32(t)))
}

// clampView keeps [pos, pos+view] inside [0, extent], centering when the
// level is smaller than the view.
func clampView(pos, view, extent float64) float64 {
	if extent <= view {
		return (extent - view) / 2
	}
	return common.Clamp(pos, 0, extent-view)
}
