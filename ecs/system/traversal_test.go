package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

func traversalEvents(w *ecs.World) []TraversalEvent {
	var out []TraversalEvent
	for _, evt := range eventsOfType(w, ecs.EventTraversal) {
		if data, ok := evt.Data.(TraversalEvent); ok {
			out = append(out, data)
		}
	}
	return out
}

func traceOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.TraversalTrace {
	t.Helper()
	trace, ok := ecs.Get(w, e, component.TraversalTraceComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no trace", e)
	}
	return trace
}

func TestTraversalWallrun(t *testing.T) {
	tests := []struct {
		name      string
		wall      bool
		sensor    bool
		state     traversal.MotionState
		vx        float64
		wantBoost float64
	}{
		{name: "running_into_wall", wall: true, state: traversal.MotionGrounded, vx: 600, wantBoost: 400},
		{name: "standing_still", wall: true, state: traversal.MotionGrounded, vx: 0},
		{name: "running_away_from_wall", wall: true, state: traversal.MotionGrounded, vx: -600},
		{name: "airborne", wall: true, state: traversal.MotionAirborne, vx: 600},
		{name: "open_floor", state: traversal.MotionGrounded, vx: 600},
		{name: "sensor_only", sensor: true, state: traversal.MotionGrounded, vx: 600},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			addFloor(t, w)
			if tc.wall {
				addWall(t, w)
			}
			if tc.sensor {
				e := addBox(t, w, testWallLeftX, testFloorY-300, 64, 300, 0, component.LayerWorld)
				body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
				body.Sensor = true
			}
			e := addCharacter(t, w, 540, tc.state)
			ps := NewPhysicsSystem()
			ps.Sync(w)
			bodyOf(t, w, e).Body.SetVelocityVector(cp.Vector{X: tc.vx})

			inputOf(t, w, e).JumpPressed = true
			NewTraversalSystem(ps).Update(w)

			motion := motionOf(t, w, e)
			if !motion.JumpRequested {
				t.Fatalf("expected the base jump to be requested")
			}
			if !almostEqual(motion.PendingVelocity.X, 0) || !almostEqual(motion.PendingVelocity.Y, -tc.wantBoost) {
				t.Fatalf("expected boost %v, got %v", tc.wantBoost, motion.PendingVelocity)
			}

			trace := traceOf(t, w, e)
			events := traversalEvents(w)
			if tc.wantBoost == 0 {
				if len(events) != 0 || trace.Fired[traversal.AbilityWallrun] != 0 {
					t.Fatalf("expected no wallrun, got %d events", len(events))
				}
				return
			}
			if len(events) != 1 || events[0].Ability != traversal.AbilityWallrun || events[0].Reaction {
				t.Fatalf("expected one wallrun event, got %+v", events)
			}
			if trace.Fired[traversal.AbilityWallrun] != 1 {
				t.Fatalf("expected wallrun count 1, got %d", trace.Fired[traversal.AbilityWallrun])
			}
			if len(trace.Probes) != 1 || !trace.Probes[0].Blocking || len(trace.Impulses) != 1 {
				t.Fatalf("expected one blocking probe and one impulse mark, got %d/%d", len(trace.Probes), len(trace.Impulses))
			}
		})
	}
}

func TestTraversalRetourOffWall(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	addWall(t, w)
	e := addCharacter(t, w, 540, traversal.MotionAirborne)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	ts := NewTraversalSystem(ps)

	input := inputOf(t, w, e)
	input.MoveX = -1
	input.JumpPressed = true
	ts.Update(w)

	motion := motionOf(t, w, e)
	if motion.PendingVelocity.X >= 0 || motion.PendingVelocity.Y >= 0 {
		t.Fatalf("expected a push up and away from the wall, got %v", motion.PendingVelocity)
	}
	// Linear falloff: the character is well inside the radius so the push
	// is weaker than the launch speed but not negligible.
	if got := motion.PendingVelocity.Length(); got <= 500 || got >= 1000 {
		t.Fatalf("expected push between 500 and 1000, got %v", got)
	}
	if d := ts.Dispatcher(e); d == nil || d.LastInputDirection() != -1 {
		t.Fatalf("expected the dispatcher to remember the last input direction")
	}
	if got := traceOf(t, w, e).Fired[traversal.AbilityRetour]; got != 1 {
		t.Fatalf("expected retour count 1, got %d", got)
	}

	// Holding toward the wall looks away from it.
	w.Events().Drain()
	motion.PendingVelocity = cp.Vector{}
	input.MoveX = 1
	ts.Update(w)
	if motion.PendingVelocity != (cp.Vector{}) || len(traversalEvents(w)) != 0 {
		t.Fatalf("expected no retour when facing the wall, got %v", motion.PendingVelocity)
	}
}

func TestTraversalRetourPushesProp(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	crate := addBox(t, w, testWallLeftX, testFloorY-64, 64, 64, 20, component.LayerProp)
	e := addCharacter(t, w, 540, traversal.MotionAirborne)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	body := bodyOf(t, w, e).Body
	body.SetPosition(cp.Vector{X: 540, Y: 440})

	input := inputOf(t, w, e)
	input.MoveX = -1
	input.JumpPressed = true
	NewTraversalSystem(ps).Update(w)

	events := traversalEvents(w)
	if len(events) != 2 {
		t.Fatalf("expected primary and reaction events, got %+v", events)
	}
	if events[0].Reaction || !events[1].Reaction {
		t.Fatalf("expected the reaction to follow the primary impulse, got %+v", events)
	}
	// Reaction is the launch speed scaled down and multiplied by the
	// character mass: 1000 / 100 * 80.
	if !almostEqual(events[1].Spec.Magnitude, 800) {
		t.Fatalf("expected reaction magnitude 800, got %v", events[1].Spec.Magnitude)
	}

	v := bodyOf(t, w, crate).Body.Velocity()
	if v.X <= 0 {
		t.Fatalf("expected the crate to be pushed away, got %v", v)
	}
	if speed := v.Length(); math.Abs(speed-40) > 1e-6 {
		t.Fatalf("expected crate speed 40, got %v", speed)
	}
	if got := traceOf(t, w, e).Fired[traversal.AbilityRetour]; got != 1 {
		t.Fatalf("expected reactions not to be counted, got %d", got)
	}
}

func TestTraversalGrabToggle(t *testing.T) {
	w := ecs.NewWorld()
	e := addCharacter(t, w, 0, traversal.MotionAirborne)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	ts := NewTraversalSystem(ps)

	input := inputOf(t, w, e)
	input.GrabPressed = true
	ts.Update(w)
	if got := motionOf(t, w, e).State; got != traversal.MotionCustomGrab {
		t.Fatalf("expected custom grab, got %s", got)
	}

	input.GrabPressed = false
	input.GrabReleased = true
	ts.Update(w)
	if got := motionOf(t, w, e).State; got != traversal.MotionAirborne {
		t.Fatalf("expected airborne after release, got %s", got)
	}
	if got := len(eventsOfType(w, ecs.EventMotionChanged)); got != 2 {
		t.Fatalf("expected two motion events, got %d", got)
	}
}

func TestTraversalTracesFade(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	e := addCharacter(t, w, 0, traversal.MotionGrounded)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	ts := NewTraversalSystem(ps)
	bodyOf(t, w, e).Body.SetVelocityVector(cp.Vector{X: 300})

	input := inputOf(t, w, e)
	input.JumpPressed = true
	ts.Update(w)
	trace := traceOf(t, w, e)
	if len(trace.Probes) != 1 || trace.Probes[0].Hit {
		t.Fatalf("expected one missed probe, got %+v", trace.Probes)
	}

	input.JumpPressed = false
	for i := 0; i < 60; i++ {
		ts.Update(w)
	}
	if len(trace.Probes) != 0 {
		t.Fatalf("expected probes to fade out, got %d", len(trace.Probes))
	}
}

func TestTraversalDropsRemovedCharacters(t *testing.T) {
	w := ecs.NewWorld()
	e := addCharacter(t, w, 0, traversal.MotionGrounded)
	ps := NewPhysicsSystem()
	ps.Sync(w)
	ts := NewTraversalSystem(ps)
	ts.Update(w)
	if ts.Dispatcher(e) == nil {
		t.Fatalf("expected a dispatcher for the character")
	}

	ecs.DestroyEntity(w, e)
	ts.Update(w)
	if ts.Dispatcher(e) != nil {
		t.Fatalf("expected the dispatcher to be dropped")
	}
}
