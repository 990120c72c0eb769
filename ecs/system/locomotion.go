package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/common"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

// LocomotionSystem turns the movement, jump and assist requests queued on
// Motion into body velocity. It runs before the physics step.
type LocomotionSystem struct{}

func NewLocomotionSystem() *LocomotionSystem {
	return &LocomotionSystem{}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w, component.PlayerComponent.Kind(), component.MotionComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, p *component.Player, motion *component.Motion, bodyComp *component.PhysicsBody) {
		body := bodyComp.Body
		if body == nil {
			return
		}

		vel := body.Velocity()
		move := common.Clamp(motion.PendingMove, -1, 1)
		if move < 0 {
			motion.FacingLeft = true
		} else if move > 0 {
			motion.FacingLeft = false
		}

		if motion.State == traversal.MotionCustomGrab && !motion.JumpRequested {
			// Hanging: no gravity, no drift, assists still apply.
			vel = motion.PendingVelocity
			s.setGravity(w, e, 0)
			s.finish(body, motion, vel)
			return
		}
		s.setGravity(w, e, p.GravityScale)

		accel := p.GroundAccel
		if motion.State != traversal.MotionGrounded {
			accel *= p.AirControl
		}
		target := move * p.MoveSpeed
		if accel <= 0 {
			vel.X = target
		} else {
			vel.X = common.Approach(vel.X, target, accel*common.FrameDT)
		}

		if motion.JumpRequested && canJump(motion) {
			vel.Y = math.Min(vel.Y, -p.JumpSpeed)
			motion.Jumping = true
			motion.CoyoteTimer = 0
			if motion.State != traversal.MotionAirborne {
				prev := motion.State
				motion.State = traversal.MotionAirborne
				w.Events().Push(ecs.Event{
					Type: ecs.EventMotionChanged,
					Data: MotionStateChange{Entity: e, From: prev, To: traversal.MotionAirborne},
				})
			}
			s.setGravity(w, e, p.GravityScale)
		}

		if motion.JumpCut && motion.Jumping && vel.Y < 0 {
			vel.Y *= p.JumpCutFactor
			motion.Jumping = false
		}

		vel = vel.Add(motion.PendingVelocity)

		if p.MaxFallSpeed > 0 && vel.Y > p.MaxFallSpeed {
			vel.Y = p.MaxFallSpeed
		}

		s.finish(body, motion, vel)
	})
}

// canJump allows the base jump from the floor, inside the coyote window after
// walking off a ledge, and out of a grab.
func canJump(motion *component.Motion) bool {
	switch motion.State {
	case traversal.MotionGrounded, traversal.MotionCustomGrab:
		return true
	}
	return motion.CoyoteTimer > 0 && !motion.Jumping
}

func (s *LocomotionSystem) setGravity(w *ecs.World, e ecs.Entity, scale float64) {
	if g, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
		g.Scale = scale
		return
	}
	_ = ecs.Add(w, e, component.GravityScaleComponent.Kind(), &component.GravityScale{Scale: scale})
}

func (s *LocomotionSystem) finish(body *cp.Body, motion *component.Motion, vel cp.Vector) {
	body.SetVelocityVector(vel)
	body.SetAngle(0)
	body.SetAngularVelocity(0)
	if vel.LengthSq() > 0 {
		body.Activate()
	}

	motion.PendingMove = 0
	motion.PendingVelocity = cp.Vector{}
	motion.JumpRequested = false
	motion.JumpCut = false
}
