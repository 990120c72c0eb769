package component

// Input stores per-frame input state for an entity. The *Pressed and
// *Released fields are edges and are true for a single frame.
type Input struct {
	MoveX        float64
	Jump         bool
	JumpPressed  bool
	JumpReleased bool
	Grab         bool
	GrabPressed  bool
	GrabReleased bool
}

var InputComponent = NewComponent[Input]()
