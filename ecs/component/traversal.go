package component

import "github.com/milk9111/side2d0/traversal"

// Traversal carries a character's traversal tuning.
type Traversal struct {
	Params traversal.Params
	// Source is the prefab file the params came from; hot reload matches on it.
	Source string
}

var TraversalComponent = NewComponent[Traversal]()
