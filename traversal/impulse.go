package traversal

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Falloff is how an impulse weakens with distance from its origin.
type Falloff int

const (
	// FalloffConstant applies the full magnitude anywhere inside the radius.
	FalloffConstant Falloff = iota
	// FalloffLinear scales the magnitude from 1 at the origin to 0 at the radius.
	FalloffLinear
)

func (f Falloff) String() string {
	if f == FalloffLinear {
		return "linear"
	}
	return "constant"
}

// Scale returns the falloff factor for a body dist away from the origin.
func (f Falloff) Scale(dist, radius float64) float64 {
	if radius <= 0 || dist > radius {
		return 0
	}
	if f == FalloffLinear {
		return 1 - dist/radius
	}
	return 1
}

// ImpulseSpec is a radial impulse computed, applied once, and dropped.
type ImpulseSpec struct {
	Origin    cp.Vector
	Radius    float64
	Magnitude float64
	Falloff   Falloff
	// VelocityChange treats Magnitude as a change in velocity, ignoring the
	// target's mass. Impulses on the character set it; reactions on props
	// are real impulses already scaled by the character's mass.
	VelocityChange bool
}

// Impulses is what one ability wants applied: the push on the character and,
// when the struck body is simulated, the matching reaction on that body.
type Impulses struct {
	Primary  ImpulseSpec
	Reaction *ImpulseSpec
	Struck   *cp.Body
}

// SignDirection returns a unit vector along X with the sign of x. A zero or
// NaN input has no direction.
func SignDirection(x float64) (cp.Vector, bool) {
	switch {
	case x > 0:
		return cp.Vector{X: 1}, true
	case x < 0:
		return cp.Vector{X: -1}, true
	default:
		return cp.Vector{}, false
	}
}

// ReactionMagnitude converts a character impulse into the impulse handed to
// the struck body, in proportion to the character's mass. A non-positive
// scale-down factor yields zero.
func ReactionMagnitude(primary float64, p Params) float64 {
	if p.JumpImpulseScaleDownFactor <= 0 {
		return 0
	}
	return primary / p.JumpImpulseScaleDownFactor * p.CharacterMassKg
}

// up is screen-up: the vertical axis points down.
func up(d float64) cp.Vector {
	return cp.Vector{Y: -d}
}

// WallrunImpulse turns lateral speed into lift. It returns false when the
// probe found nothing solid to run along.
func WallrunImpulse(p Params, pos, vel cp.Vector, hit ProbeResult) (Impulses, bool) {
	if !hit.Blocked() {
		return Impulses{}, false
	}
	magnitude := p.BaseWallForce + p.WallrunSpeedToForceRatio*math.Abs(vel.X)
	out := Impulses{
		Primary: ImpulseSpec{
			Origin:         pos.Sub(up(p.VerticalOffset)),
			Radius:         p.ForceRadius,
			Magnitude:      magnitude,
			Falloff:        FalloffConstant,
			VelocityChange: true,
		},
	}
	if body := hit.DynamicBody(); body != nil && p.JumpImpulseScaleDownFactor > 0 {
		out.Reaction = &ImpulseSpec{
			Origin:    pos.Add(up(p.VerticalOffset)),
			Radius:    p.ForceRadius,
			Magnitude: ReactionMagnitude(magnitude, p),
			Falloff:   FalloffConstant,
		}
		out.Struck = body
	}
	return out, true
}

// RetourImpulse pushes an airborne character off whatever the probe found
// behind it. The push always has the configured jump launch speed.
func RetourImpulse(p Params, pos cp.Vector, jumpLaunchVelocity float64, hit ProbeResult) (Impulses, bool) {
	if !hit.Blocked() {
		return Impulses{}, false
	}
	out := Impulses{
		Primary: ImpulseSpec{
			Origin:         hit.Location.Sub(up(p.RetourUpwardBoost)),
			Radius:         p.ForceRadius,
			Magnitude:      jumpLaunchVelocity,
			Falloff:        FalloffLinear,
			VelocityChange: true,
		},
	}
	if body := hit.DynamicBody(); body != nil && p.JumpImpulseScaleDownFactor > 0 {
		out.Reaction = &ImpulseSpec{
			Origin:    pos.Add(up(p.RetourUpwardBoost)),
			Radius:    p.ForceRadius,
			Magnitude: ReactionMagnitude(jumpLaunchVelocity, p),
			Falloff:   FalloffConstant,
		}
		out.Struck = body
	}
	return out, true
}

// RadialImpulse resolves spec against a body at target with the given mass.
// It returns the impulse vector to apply at the body's center, or false when
// the body lies outside the radius or sits exactly on the origin.
func RadialImpulse(spec ImpulseSpec, target cp.Vector, mass float64) (cp.Vector, bool) {
	delta := target.Sub(spec.Origin)
	dist := delta.Length()
	if dist == 0 {
		return cp.Vector{}, false
	}
	scale := spec.Falloff.Scale(dist, spec.Radius)
	if scale == 0 {
		return cp.Vector{}, false
	}
	strength := spec.Magnitude * scale
	if spec.VelocityChange {
		strength *= mass
	}
	return delta.Mult(strength / dist), true
}
