package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/traversal"
	"github.com/tanema/gween"
)

// ProbeMark is a recorded probe sweep for debug drawing.
type ProbeMark struct {
	Ability  traversal.Ability
	From     cp.Vector
	To       cp.Vector
	Radius   float64
	Hit      bool
	Blocking bool
	Location cp.Vector
	Fade     *gween.Tween
	Alpha    float32
}

// ImpulseMark is a recorded impulse for debug drawing.
type ImpulseMark struct {
	Ability  traversal.Ability
	Spec     traversal.ImpulseSpec
	Reaction bool
	Fade     *gween.Tween
	Alpha    float32
}

// TraversalTrace keeps the recent probes and impulses of a character.
type TraversalTrace struct {
	Probes   []ProbeMark
	Impulses []ImpulseMark
	// Fired counts impulses per ability since spawn.
	Fired map[traversal.Ability]int
}

var TraversalTraceComponent = NewComponent[TraversalTrace]()
