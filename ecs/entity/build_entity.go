package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/prefabs"
	"github.com/milk9111/side2d0/traversal"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":       addPlayerTag,
	"prop_tag":         addPropTag,
	"wall_tag":         addWallTag,
	"camera_tag":       addCameraTag,
	"player":           addPlayer,
	"input":            addInput,
	"motion":           addMotion,
	"player_collision": addPlayerCollision,
	"transform":        addTransform,
	"camera":           addCamera,
	"collision_layer":  addCollisionLayer,
	"physics_body":     addPhysicsBody,
	"gravity_scale":    addGravityScale,
	"traversal":        addTraversal,
	"traversal_trace":  addTraversalTrace,
	"script_input":     addScriptInput,
}

var componentBuildOrder = []string{
	"player_tag",
	"prop_tag",
	"wall_tag",
	"camera_tag",
	"player",
	"input",
	"motion",
	"player_collision",
	"transform",
	"camera",
	"collision_layer",
	"physics_body",
	"gravity_scale",
	"traversal",
	"traversal_trace",
	"script_input",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec creates an entity from an already decoded prefab.
// Components are added in a fixed order; unknown component names fail the
// whole build and nothing is left behind.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	names := make([]string, 0, len(spec.Components))
	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return buildRank(names[i]) < buildRank(names[j]) })

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}
	for _, name := range names {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func buildRank(name string) int {
	for i, n := range componentBuildOrder {
		if n == name {
			return i
		}
	}
	return len(componentBuildOrder)
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addPropTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PropTagComponent.Kind(), &component.PropTag{})
}

func addWallTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.WallTagComponent.Kind(), &component.WallTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return err
	}
	gravity := spec.GravityScale
	if gravity == 0 {
		gravity = 1
	}
	cut := spec.JumpCutFactor
	if cut <= 0 || cut > 1 {
		cut = 1
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{
		MoveSpeed:     spec.MoveSpeed,
		JumpSpeed:     spec.JumpSpeed,
		GravityScale:  gravity,
		AirControl:    spec.AirControl,
		GroundAccel:   spec.GroundAccel,
		MaxFallSpeed:  spec.MaxFallSpeed,
		CoyoteFrames:  spec.CoyoteFrames,
		JumpCutFactor: cut,
	})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addMotion(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MotionComponentSpec](raw)
	if err != nil {
		return err
	}
	state := traversal.MotionAirborne
	if spec.State != "" {
		state = traversal.ParseMotionState(spec.State)
	}
	return ecs.Add(w, e, component.MotionComponent.Kind(), &component.Motion{State: state})
}

func addPlayerCollision(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerCollisionComponent.Kind(), &component.PlayerCollision{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return err
	}
	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	smooth := spec.Smoothness
	if smooth == 0 {
		smooth = 0.15
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{Zoom: zoom, Smoothness: smooth})
}

func addCollisionLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CollisionLayerComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.CollisionLayerComponent.Kind(), &component.CollisionLayer{
		Category: spec.Category,
		Mask:     spec.Mask,
	})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 && (spec.Width <= 0 || spec.Height <= 0) {
		return fmt.Errorf("physics body needs a radius or a width and height")
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         spec.Width,
		Height:        spec.Height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		Sensor:        spec.Sensor,
		FixedRotation: spec.FixedRotation,
		AlignTopLeft:  spec.AlignTopLeft,
		OffsetX:       spec.OffsetX,
		OffsetY:       spec.OffsetY,
	})
}

func addGravityScale(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.GravityScaleComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: spec.Scale})
}

func addTraversal(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	params, err := prefabs.DecodeTraversalParams(raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TraversalComponent.Kind(), &component.Traversal{
		Params: params,
		Source: ctx.PrefabPath,
	})
}

func addTraversalTrace(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.TraversalTraceComponent.Kind(), &component.TraversalTrace{
		Fired: make(map[traversal.Ability]int),
	})
}

func addScriptInput(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptInputComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Path == "" {
		return fmt.Errorf("script input needs a path")
	}
	return ecs.Add(w, e, component.ScriptInputComponent.Kind(), &component.ScriptInput{Path: spec.Path})
}
