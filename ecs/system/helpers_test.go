package system

import (
	"testing"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

const (
	testFloorY    = 500.0
	testCharW     = 84.0
	testCharH     = 192.0
	testCharMass  = 80.0
	testWallLeftX = 600.0
)

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, h component.ComponentHandle[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, h.Kind(), v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

// addBox adds a top-left aligned box. Static unless mass is positive.
func addBox(t *testing.T, w *ecs.World, x, y, width, height, mass float64, layer uint32) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Width:        width,
		Height:       height,
		Mass:         mass,
		Friction:     0.9,
		Static:       mass <= 0,
		AlignTopLeft: true,
	})
	mustAdd(t, w, e, component.CollisionLayerComponent, &component.CollisionLayer{Category: layer})
	return e
}

func addFloor(t *testing.T, w *ecs.World) ecs.Entity {
	return addBox(t, w, -1000, testFloorY, 4000, 64, 0, component.LayerWorld)
}

// addWall adds a tall static wall whose left face is at testWallLeftX.
func addWall(t *testing.T, w *ecs.World) ecs.Entity {
	return addBox(t, w, testWallLeftX, testFloorY-600, 64, 600, 0, component.LayerWorld)
}

// addCharacter adds a player standing on the test floor with its center at x.
func addCharacter(t *testing.T, w *ecs.World, x float64, state traversal.MotionState) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PlayerTagComponent, &component.PlayerTag{})
	mustAdd(t, w, e, component.TransformComponent, &component.Transform{X: x, Y: testFloorY - testCharH/2, ScaleX: 1, ScaleY: 1})
	mustAdd(t, w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
		Width:         testCharW,
		Height:        testCharH,
		Mass:          testCharMass,
		FixedRotation: true,
	})
	mustAdd(t, w, e, component.CollisionLayerComponent, &component.CollisionLayer{
		Category: component.LayerCharacter,
		Mask:     component.LayerWorld | component.LayerProp,
	})
	mustAdd(t, w, e, component.PlayerComponent, &component.Player{
		MoveSpeed:     600,
		JumpSpeed:     1000,
		GravityScale:  2,
		AirControl:    0.1,
		MaxFallSpeed:  2400,
		CoyoteFrames:  6,
		JumpCutFactor: 0.5,
	})
	mustAdd(t, w, e, component.GravityScaleComponent, &component.GravityScale{Scale: 2})
	mustAdd(t, w, e, component.InputComponent, &component.Input{})
	mustAdd(t, w, e, component.MotionComponent, &component.Motion{State: state})
	mustAdd(t, w, e, component.PlayerCollisionComponent, &component.PlayerCollision{})
	mustAdd(t, w, e, component.TraversalComponent, &component.Traversal{Params: traversal.DefaultParams(), Source: "player.yaml"})
	mustAdd(t, w, e, component.TraversalTraceComponent, &component.TraversalTrace{})
	return e
}

func bodyOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.PhysicsBody {
	t.Helper()
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		t.Fatalf("entity %v has no synced body", e)
	}
	return body
}

func motionOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Motion {
	t.Helper()
	motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no motion", e)
	}
	return motion
}

func inputOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Input {
	t.Helper()
	input, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no input", e)
	}
	return input
}

func eventsOfType(w *ecs.World, typ string) []ecs.Event {
	var out []ecs.Event
	for _, evt := range w.Events().Peek() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func almostEqual(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
