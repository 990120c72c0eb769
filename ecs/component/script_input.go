package component

import "github.com/d5/tengo/v2"

// ScriptInput drives an entity's Input from a tengo script instead of the
// keyboard. Frame counts script ticks.
type ScriptInput struct {
	Path     string
	Frame    int
	Compiled *tengo.Compiled
	Done     bool
}

var ScriptInputComponent = NewComponent[ScriptInput]()
