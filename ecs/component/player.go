package component

// Player is the base locomotion tuning of a character. It is plain
// configuration; the traversal assists live in Traversal.
type Player struct {
	MoveSpeed float64
	// JumpSpeed is the launch velocity of the base jump. The retour assist
	// reuses it as its push strength.
	JumpSpeed    float64
	GravityScale float64
	// AirControl is the share of ground acceleration available in the air.
	AirControl   float64
	GroundAccel  float64
	MaxFallSpeed float64
	CoyoteFrames int
	// JumpCutFactor scales the remaining upward speed when jump is released.
	JumpCutFactor float64
}

var PlayerComponent = NewComponent[Player]()
