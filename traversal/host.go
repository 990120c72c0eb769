package traversal

import "github.com/jakecoffman/cp"

// Locomotion is the slice of the character movement layer the dispatcher
// drives. Implementations read live state; nothing here is cached.
type Locomotion interface {
	Body() *cp.Body
	Position() cp.Vector
	Velocity() cp.Vector
	MotionState() MotionState
	SetMotionState(state MotionState)
	AddMovementInput(scale float64)
	JumpStart()
	JumpStop()
	JumpLaunchVelocity() float64
}

// SweepQuery describes a circle swept from Origin to Target.
type SweepQuery struct {
	Origin cp.Vector
	Target cp.Vector
	Radius float64
	Filter cp.ShapeFilter
	// Ignore is skipped by the sweep, normally the character's own body.
	Ignore *cp.Body
}

// Querier runs shape sweeps against the physics world.
type Querier interface {
	Sweep(q SweepQuery) ProbeResult
}

// ImpulseApplier pushes a body with a radial impulse.
type ImpulseApplier interface {
	ApplyRadialImpulse(spec ImpulseSpec, target *cp.Body)
}

// Host is everything the dispatcher needs from the engine side.
type Host interface {
	Locomotion
	Querier
	ImpulseApplier
}
