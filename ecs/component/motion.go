package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/traversal"
)

// Motion is the authoritative motion classification of a character. The
// motion state system writes it from contacts, the grab toggle overrides it.
type Motion struct {
	State       traversal.MotionState
	Jumping     bool
	CoyoteTimer int
	FacingLeft  bool
	// PendingMove accumulates lateral input for the next locomotion step.
	PendingMove float64
	// JumpRequested and JumpCut are consumed by the next locomotion step.
	JumpRequested bool
	JumpCut       bool
	// PendingVelocity is velocity change from assists, added after the jump
	// launch so boosts stack on top of it.
	PendingVelocity cp.Vector
}

var MotionComponent = NewComponent[Motion]()
