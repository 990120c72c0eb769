package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
type PhysicsBody struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Width  float64
	Height float64
	// Radius switches the collider to a circle when positive.
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
	// Sensor shapes report overlaps but never block.
	Sensor bool
	// FixedRotation keeps the body upright, as characters need.
	FixedRotation bool
	AlignTopLeft  bool
	OffsetX       float64
	OffsetY       float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
