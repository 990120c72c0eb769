package component

// Collision categories. Probes look for world and prop shapes only.
const (
	LayerWorld uint32 = 1 << iota
	LayerProp
	LayerCharacter
	LayerSensor
)

// CollisionLayer declares a collision category and mask for a physics body.
type CollisionLayer struct {
	// Category is a bitmask of this entity's collision category. If zero,
	// the physics system will treat it as LayerWorld.
	Category uint32 `yaml:"category,omitempty"`
	// Mask is a bitmask of categories this entity should collide with. If
	// zero, the physics system will treat it as all-bits set (collide with all).
	Mask uint32 `yaml:"mask,omitempty"`
}

var CollisionLayerComponent = NewComponent[CollisionLayer]()
