package component

const (
	WallNone  = 0
	WallLeft  = 1
	WallRight = 2
)

// PlayerCollision stores per-character collision state derived from physics contacts.
type PlayerCollision struct {
	Grounded bool
	Wall     int
}

var PlayerCollisionComponent = NewComponent[PlayerCollision]()
