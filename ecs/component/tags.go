package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// PropTag marks loose dynamic objects the player can push off.
type PropTag struct{}

var PropTagComponent = NewComponent[PropTag]()

type WallTag struct{}

var WallTagComponent = NewComponent[WallTag]()
