package system

import (
	"log"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

// MotionStateChange is the payload of ecs.EventMotionChanged.
type MotionStateChange struct {
	Entity ecs.Entity
	From   traversal.MotionState
	To     traversal.MotionState
}

// MotionStateSystem classifies characters as grounded or airborne from the
// contacts the physics step reported. Custom grab is left alone; only the
// grab release or a jump leaves it.
type MotionStateSystem struct {
	debug bool
}

func NewMotionStateSystem() *MotionStateSystem {
	return &MotionStateSystem{}
}

func (s *MotionStateSystem) SetDebug(debug bool) {
	if s != nil {
		s.debug = debug
	}
}

func (s *MotionStateSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for _, e := range w.Query(component.MotionComponent.Kind(), component.PlayerCollisionComponent.Kind()) {
		motion, ok := ecs.Get(w, e, component.MotionComponent.Kind())
		if !ok {
			continue
		}
		pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
		if !ok {
			continue
		}

		coyote := 0
		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
			coyote = p.CoyoteFrames
		}

		if motion.State == traversal.MotionCustomGrab {
			continue
		}

		next := traversal.MotionAirborne
		if pc.Grounded && !rising(w, e) {
			next = traversal.MotionGrounded
			motion.Jumping = false
			motion.CoyoteTimer = coyote
		} else if motion.CoyoteTimer > 0 {
			motion.CoyoteTimer--
		}

		s.transition(w, e, motion, next)
	}
}

// rising is true while a jump is still leaving the floor, so the ground
// sensor overlap on the launch frame does not re-ground the character.
func rising(w *ecs.World, e ecs.Entity) bool {
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return false
	}
	return body.Body.Velocity().Y < -1
}

func (s *MotionStateSystem) transition(w *ecs.World, e ecs.Entity, motion *component.Motion, next traversal.MotionState) {
	if motion.State == next {
		return
	}
	prev := motion.State
	motion.State = next
	w.Events().Push(ecs.Event{
		Type: ecs.EventMotionChanged,
		Data: MotionStateChange{Entity: e, From: prev, To: next},
	})
	if s.debug {
		log.Printf("motion: %v %s -> %s", e, prev, next)
	}
}
