package traversal

import (
	"errors"
	"math"
	"testing"
	"weak"

	"github.com/jakecoffman/cp"
)

func TestSignDirection(t *testing.T) {
	tests := []struct {
		in     float64
		want   cp.Vector
		wantOK bool
	}{
		{3, cp.Vector{X: 1}, true},
		{-0.001, cp.Vector{X: -1}, true},
		{0, cp.Vector{}, false},
		{math.Copysign(0, -1), cp.Vector{}, false},
		{math.NaN(), cp.Vector{}, false},
	}
	for _, tc := range tests {
		got, ok := SignDirection(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("SignDirection(%v) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFalloffScale(t *testing.T) {
	tests := []struct {
		name    string
		falloff Falloff
		dist    float64
		radius  float64
		want    float64
	}{
		{"constant_inside", FalloffConstant, 150, 200, 1},
		{"constant_outside", FalloffConstant, 201, 200, 0},
		{"linear_origin", FalloffLinear, 0, 200, 1},
		{"linear_half", FalloffLinear, 100, 200, 0.5},
		{"linear_edge", FalloffLinear, 200, 200, 0},
		{"zero_radius", FalloffConstant, 0, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.falloff.Scale(tc.dist, tc.radius); !almostEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestRadialImpulse(t *testing.T) {
	t.Run("velocity_change_scales_with_mass", func(t *testing.T) {
		spec := ImpulseSpec{Origin: cp.Vector{Y: 80}, Radius: 200, Magnitude: 250, VelocityChange: true}
		got, ok := RadialImpulse(spec, cp.Vector{}, 2)
		if !ok {
			t.Fatalf("expected impulse")
		}
		if !almostEqual(got.X, 0) || !almostEqual(got.Y, -500) {
			t.Fatalf("expected straight up impulse of 500, got %v", got)
		}
	})

	t.Run("plain_impulse_ignores_mass", func(t *testing.T) {
		spec := ImpulseSpec{Origin: cp.Vector{}, Radius: 200, Magnitude: 800}
		got, ok := RadialImpulse(spec, cp.Vector{X: 100}, 50)
		if !ok || !almostEqual(got.X, 800) {
			t.Fatalf("expected 800 along X, got %v ok=%v", got, ok)
		}
	})

	t.Run("linear_falloff", func(t *testing.T) {
		spec := ImpulseSpec{Origin: cp.Vector{}, Radius: 200, Magnitude: 1000, Falloff: FalloffLinear}
		got, ok := RadialImpulse(spec, cp.Vector{X: -50}, 1)
		if !ok || !almostEqual(got.X, -750) {
			t.Fatalf("expected -750 along X, got %v ok=%v", got, ok)
		}
	})

	t.Run("out_of_range", func(t *testing.T) {
		spec := ImpulseSpec{Origin: cp.Vector{}, Radius: 200, Magnitude: 1000}
		if _, ok := RadialImpulse(spec, cp.Vector{X: 250}, 1); ok {
			t.Fatalf("expected no impulse outside the radius")
		}
	})

	t.Run("on_origin", func(t *testing.T) {
		spec := ImpulseSpec{Origin: cp.Vector{X: 5}, Radius: 200, Magnitude: 1000}
		if _, ok := RadialImpulse(spec, cp.Vector{X: 5}, 1); ok {
			t.Fatalf("expected no impulse without a direction")
		}
	})
}

func TestImpulsesRequireBlockingHit(t *testing.T) {
	p := DefaultParams()
	for _, hit := range []ProbeResult{{}, {Hit: true}} {
		if _, ok := WallrunImpulse(p, cp.Vector{}, cp.Vector{X: 10}, hit); ok {
			t.Fatalf("wallrun fired on %+v", hit)
		}
		if _, ok := RetourImpulse(p, cp.Vector{}, 1000, hit); ok {
			t.Fatalf("retour fired on %+v", hit)
		}
	}
}

func TestReactionSkippedForStaticAndKinematicBodies(t *testing.T) {
	p := DefaultParams()
	static := cp.NewStaticBody()
	kinematic := cp.NewKinematicBody()
	for name, body := range map[string]*cp.Body{"static": static, "kinematic": kinematic} {
		hit := ProbeResult{Hit: true, Blocking: true, Body: weak.Make(body)}
		imp, ok := WallrunImpulse(p, cp.Vector{}, cp.Vector{X: 10}, hit)
		if !ok {
			t.Fatalf("%s: expected primary impulse", name)
		}
		if imp.Reaction != nil || imp.Struck != nil {
			t.Fatalf("%s: expected no reaction", name)
		}
	}
}

func TestReactionMagnitudeZeroScaleDown(t *testing.T) {
	p := DefaultParams()
	p.JumpImpulseScaleDownFactor = 0
	if got := ReactionMagnitude(1000, p); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}

	body := cp.NewBody(5, 1)
	hit := ProbeResult{Hit: true, Blocking: true, Body: weak.Make(body)}
	imp, ok := RetourImpulse(p, cp.Vector{}, 1000, hit)
	if !ok || imp.Reaction != nil {
		t.Fatalf("expected primary without reaction, got %+v ok=%v", imp, ok)
	}
}

func TestProbeSkipsDegenerateDirection(t *testing.T) {
	h := newFakeHost()
	if _, ok := Probe(h, h.body, cp.Vector{}, cp.Vector{}, 100, 25, cp.SHAPE_FILTER_ALL); ok {
		t.Fatalf("expected no probe for a zero direction")
	}
	if len(h.sweeps) != 0 {
		t.Fatalf("expected no sweep, got %d", len(h.sweeps))
	}

	if _, ok := Probe(h, h.body, cp.Vector{X: 5, Y: 5}, cp.Vector{X: -3}, 100, 25, cp.SHAPE_FILTER_ALL); !ok {
		t.Fatalf("expected probe to run")
	}
	q := h.sweeps[0]
	if q.Target != (cp.Vector{X: -95, Y: 5}) {
		t.Fatalf("expected normalized target, got %v", q.Target)
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"ratio_above_one", func(p *Params) { p.WallrunSpeedToForceRatio = 1.5 }, true},
		{"negative_mass", func(p *Params) { p.CharacterMassKg = -1 }, true},
		{"reach_too_long", func(p *Params) { p.LegReach = 501 }, true},
		{"zero_scale_down", func(p *Params) { p.JumpImpulseScaleDownFactor = 0 }, true},
		{"nan_radius", func(p *Params) { p.FootProbeRadius = math.NaN() }, true},
		{"ratio_edges", func(p *Params) { p.WallrunSpeedToForceRatio = 1; p.LegReach = 500 }, false},
		{"zero_force_radius", func(p *Params) { p.ForceRadius = 0 }, true},
		{"zero_vertical_offset", func(p *Params) { p.VerticalOffset = 0 }, true},
		{"offset_outside_sphere", func(p *Params) { p.VerticalOffset = 250 }, true},
		{"offset_on_sphere_edge", func(p *Params) { p.VerticalOffset = p.ForceRadius }, true},
		{"offset_just_inside", func(p *Params) { p.VerticalOffset = p.ForceRadius - 1 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			err := p.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v, got %v", tc.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidParams) {
				t.Fatalf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestParamsClamp(t *testing.T) {
	p := Params{
		WallrunSpeedToForceRatio:   4,
		LegReach:                   900,
		CharacterMassKg:            -3,
		JumpImpulseScaleDownFactor: 10,
		VerticalOffset:             900,
		ForceRadius:                200,
		DebugSphereSegments:        -2,
	}.Clamp()
	if p.WallrunSpeedToForceRatio != 1 || p.LegReach != MaxLegReach || p.CharacterMassKg != 0 || p.DebugSphereSegments != 0 {
		t.Fatalf("unexpected clamp result %+v", p)
	}
	if p.VerticalOffset != 100 {
		t.Fatalf("expected the offset to move inside the sphere, got %v", p.VerticalOffset)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("clamped params should validate: %v", err)
	}
}

func TestValidWallrunImpulseReachesCharacter(t *testing.T) {
	pos := cp.Vector{X: 40, Y: -30}
	hit := ProbeResult{Hit: true, Blocking: true, Location: cp.Vector{X: 90, Y: -30}}
	tests := []struct {
		name   string
		mutate func(p *Params)
		valid  bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"offset_near_edge", func(p *Params) { p.VerticalOffset = 199 }, true},
		{"offset_zero", func(p *Params) { p.VerticalOffset = 0 }, false},
		{"offset_outside", func(p *Params) { p.VerticalOffset = 250 }, false},
		{"radius_zero", func(p *Params) { p.ForceRadius = 0 }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			tc.mutate(&p)
			imp, ok := WallrunImpulse(p, pos, cp.Vector{X: 300}, hit)
			if !ok {
				t.Fatalf("expected a wallrun impulse")
			}
			_, resolved := RadialImpulse(imp.Primary, pos, p.CharacterMassKg)
			if valid := p.Validate() == nil; valid != tc.valid {
				t.Fatalf("expected valid=%v, got %v", tc.valid, valid)
			}
			if resolved != tc.valid {
				t.Fatalf("expected the impulse to reach the character only for valid params, resolved=%v", resolved)
			}
		})
	}
}

func TestMotionStateRoundTrip(t *testing.T) {
	for _, s := range []MotionState{MotionOther, MotionGrounded, MotionAirborne, MotionCustomGrab} {
		if got := ParseMotionState(s.String()); got != s {
			t.Fatalf("expected %v, got %v", s, got)
		}
	}
}
