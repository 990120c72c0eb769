package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name and a map of component name to its
// YAML body.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes a raw component body into T.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	return DecodeComponentSpecInto(raw, zero)
}

// DecodeComponentSpecInto decodes raw over base, so keys missing from the
// prefab keep base's values.
func DecodeComponentSpecInto[T any](raw any, base T) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}

type PlayerComponentSpec struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	GravityScale  float64 `yaml:"gravity_scale"`
	AirControl    float64 `yaml:"air_control"`
	GroundAccel   float64 `yaml:"ground_accel"`
	MaxFallSpeed  float64 `yaml:"max_fall_speed"`
	CoyoteFrames  int     `yaml:"coyote_frames"`
	JumpCutFactor float64 `yaml:"jump_cut_factor"`
}

type MotionComponentSpec struct {
	State string `yaml:"state"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Radius        float64 `yaml:"radius"`
	Mass          float64 `yaml:"mass"`
	Friction      float64 `yaml:"friction"`
	Elasticity    float64 `yaml:"elasticity"`
	Static        bool    `yaml:"static"`
	Sensor        bool    `yaml:"sensor"`
	FixedRotation bool    `yaml:"fixed_rotation"`
	AlignTopLeft  bool    `yaml:"align_top_left"`
	OffsetX       float64 `yaml:"offset_x"`
	OffsetY       float64 `yaml:"offset_y"`
}

type GravityScaleComponentSpec struct {
	Scale float64 `yaml:"scale"`
}

type CollisionLayerComponentSpec struct {
	Category uint32 `yaml:"category"`
	Mask     uint32 `yaml:"mask"`
}

type CameraComponentSpec struct {
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}

type ScriptInputComponentSpec struct {
	Path string `yaml:"path"`
}
