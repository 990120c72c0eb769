package traversal

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidParams = errors.New("traversal: invalid params")

const MaxLegReach = 500.0

// Params holds the per-character traversal tuning. The abilities only read it.
type Params struct {
	// WallrunSpeedToForceRatio is the share of running speed turned into lift
	// when jumping next to a wall. Must be in [0,1].
	WallrunSpeedToForceRatio float64 `yaml:"wallrun_speed_to_force_ratio"`
	// LegReach is how far the probes search for something to push off.
	LegReach                   float64 `yaml:"leg_reach"`
	CharacterMassKg            float64 `yaml:"character_mass_kg"`
	FootProbeRadius            float64 `yaml:"foot_probe_radius"`
	RetourUpwardBoost          float64 `yaml:"retour_upward_boost"`
	JumpImpulseScaleDownFactor float64 `yaml:"jump_impulse_scale_down_factor"`

	BaseWallForce       float64 `yaml:"base_wall_force"`
	VerticalOffset      float64 `yaml:"vertical_offset"`
	ForceRadius         float64 `yaml:"force_radius"`
	DebugSphereSegments int     `yaml:"debug_sphere_segments"`
}

func DefaultParams() Params {
	return Params{
		WallrunSpeedToForceRatio:   0.5,
		LegReach:                   100,
		CharacterMassKg:            80,
		FootProbeRadius:            25,
		RetourUpwardBoost:          10,
		JumpImpulseScaleDownFactor: 100,
		BaseWallForce:              100,
		VerticalOffset:             80,
		ForceRadius:                200,
		DebugSphereSegments:        16,
	}
}

// Validate reports every field that breaks the parameter invariants.
func (p Params) Validate() error {
	var errs []error
	check := func(name string, v float64) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidParams, name, v))
		}
	}
	check("wallrun_speed_to_force_ratio", p.WallrunSpeedToForceRatio)
	check("leg_reach", p.LegReach)
	check("character_mass_kg", p.CharacterMassKg)
	check("foot_probe_radius", p.FootProbeRadius)
	check("retour_upward_boost", p.RetourUpwardBoost)
	check("jump_impulse_scale_down_factor", p.JumpImpulseScaleDownFactor)
	check("base_wall_force", p.BaseWallForce)
	check("vertical_offset", p.VerticalOffset)
	check("force_radius", p.ForceRadius)

	if p.WallrunSpeedToForceRatio > 1 {
		errs = append(errs, fmt.Errorf("%w: wallrun_speed_to_force_ratio must be <= 1, got %v", ErrInvalidParams, p.WallrunSpeedToForceRatio))
	}
	if p.LegReach > MaxLegReach {
		errs = append(errs, fmt.Errorf("%w: leg_reach must be <= %v, got %v", ErrInvalidParams, MaxLegReach, p.LegReach))
	}
	if p.JumpImpulseScaleDownFactor == 0 {
		errs = append(errs, fmt.Errorf("%w: jump_impulse_scale_down_factor must be > 0", ErrInvalidParams))
	}
	if p.ForceRadius == 0 {
		errs = append(errs, fmt.Errorf("%w: force_radius must be > 0", ErrInvalidParams))
	}
	// The wallrun origin sits VerticalOffset below the character and must
	// leave the character strictly inside the force sphere.
	if p.VerticalOffset == 0 || (p.ForceRadius > 0 && p.VerticalOffset >= p.ForceRadius) {
		errs = append(errs, fmt.Errorf("%w: vertical_offset must be in (0, force_radius), got %v", ErrInvalidParams, p.VerticalOffset))
	}
	if p.DebugSphereSegments < 0 {
		errs = append(errs, fmt.Errorf("%w: debug_sphere_segments must be >= 0, got %d", ErrInvalidParams, p.DebugSphereSegments))
	}
	return errors.Join(errs...)
}

// Clamp pulls every field back into its allowed range. Editors use it so a
// slider can never produce a config that Validate rejects, except for a zero
// scale-down factor or force radius which have no sensible clamp. An offset
// outside (0, force_radius) is moved to the middle of the sphere.
func (p Params) Clamp() Params {
	nonNeg := func(v float64) float64 {
		if v < 0 || math.IsNaN(v) {
			return 0
		}
		return v
	}
	p.WallrunSpeedToForceRatio = math.Min(nonNeg(p.WallrunSpeedToForceRatio), 1)
	p.LegReach = math.Min(nonNeg(p.LegReach), MaxLegReach)
	p.CharacterMassKg = nonNeg(p.CharacterMassKg)
	p.FootProbeRadius = nonNeg(p.FootProbeRadius)
	p.RetourUpwardBoost = nonNeg(p.RetourUpwardBoost)
	p.JumpImpulseScaleDownFactor = nonNeg(p.JumpImpulseScaleDownFactor)
	p.BaseWallForce = nonNeg(p.BaseWallForce)
	p.VerticalOffset = nonNeg(p.VerticalOffset)
	p.ForceRadius = nonNeg(p.ForceRadius)
	if p.ForceRadius > 0 && (p.VerticalOffset == 0 || p.VerticalOffset >= p.ForceRadius) {
		p.VerticalOffset = p.ForceRadius / 2
	}
	if p.DebugSphereSegments < 0 {
		p.DebugSphereSegments = 0
	}
	return p
}
