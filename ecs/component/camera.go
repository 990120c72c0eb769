package component

// Camera follows a target entity for debug viewing.
type Camera struct {
	X          float64
	Y          float64
	Zoom       float64
	Smoothness float64
}

var CameraComponent = NewComponent[Camera]()
