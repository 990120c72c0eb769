package traversal

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Dispatcher turns the character's input actions into traversal assists and
// base jumps. It is driven from the update thread only.
type Dispatcher struct {
	host     Host
	params   Params
	filter   cp.ShapeFilter
	observer Observer

	// lastInputDir is the sign of the most recent non-zero lateral input.
	lastInputDir float64
}

type DispatcherOption func(*Dispatcher)

// WithFilter restricts which collision categories the probes can hit.
func WithFilter(filter cp.ShapeFilter) DispatcherOption {
	return func(d *Dispatcher) {
		d.filter = filter
	}
}

func WithObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

func NewDispatcher(host Host, params Params, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		host:   host,
		params: params,
		filter: cp.SHAPE_FILTER_ALL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Params() Params {
	return d.params
}

// SetParams swaps the tuning between input events.
func (d *Dispatcher) SetParams(p Params) {
	d.params = p
}

// LastInputDirection is -1, 0 or 1.
func (d *Dispatcher) LastInputDirection() float64 {
	return d.lastInputDir
}

// LateralMove forwards the movement axis and remembers its direction for the
// retour probe. Values are clamped to [-1,1].
func (d *Dispatcher) LateralMove(value float64) {
	if d == nil || d.host == nil || math.IsNaN(value) {
		return
	}
	value = math.Max(-1, math.Min(1, value))
	if value > 0 {
		d.lastInputDir = 1
	} else if value < 0 {
		d.lastInputDir = -1
	}
	d.host.AddMovementInput(value)
}

// JumpPressed evaluates both assists against the motion state read once at
// the start, then always starts the base jump.
func (d *Dispatcher) JumpPressed() {
	if d == nil || d.host == nil {
		return
	}
	state := d.host.MotionState()
	d.tryWallrun(state)
	d.tryRetour(state)
	d.host.JumpStart()
}

func (d *Dispatcher) JumpReleased() {
	if d == nil || d.host == nil {
		return
	}
	d.host.JumpStop()
}

// SecondaryActionPressed forces the custom grab mode. This bypasses the
// locomotion transitions on purpose: it is the climb escape hatch.
func (d *Dispatcher) SecondaryActionPressed() {
	if d == nil || d.host == nil {
		return
	}
	d.host.SetMotionState(MotionCustomGrab)
}

// SecondaryActionReleased drops the character back into falling.
func (d *Dispatcher) SecondaryActionReleased() {
	if d == nil || d.host == nil {
		return
	}
	d.host.SetMotionState(MotionAirborne)
}

func (d *Dispatcher) tryWallrun(state MotionState) {
	if state != MotionGrounded {
		return
	}
	vel := d.host.Velocity()
	dir, ok := SignDirection(vel.X)
	if !ok {
		return
	}
	pos := d.host.Position()
	hit, ok := d.probe(AbilityWallrun, pos, dir)
	if !ok {
		return
	}
	imp, ok := WallrunImpulse(d.params, pos, vel, hit)
	if !ok {
		return
	}
	d.apply(AbilityWallrun, imp)
}

func (d *Dispatcher) tryRetour(state MotionState) {
	if state != MotionAirborne {
		return
	}
	dir, ok := SignDirection(-d.lastInputDir)
	if !ok {
		return
	}
	pos := d.host.Position()
	hit, ok := d.probe(AbilityRetour, pos, dir)
	if !ok {
		return
	}
	imp, ok := RetourImpulse(d.params, pos, d.host.JumpLaunchVelocity(), hit)
	if !ok {
		return
	}
	d.apply(AbilityRetour, imp)
}

func (d *Dispatcher) probe(ability Ability, origin, dir cp.Vector) (ProbeResult, bool) {
	hit, ok := Probe(d.host, d.host.Body(), origin, dir, d.params.LegReach, d.params.FootProbeRadius, d.filter)
	if ok && d.observer != nil {
		d.observer.OnProbe(ProbeEvent{
			Ability:   ability,
			Origin:    origin,
			Direction: dir,
			Reach:     d.params.LegReach,
			Radius:    d.params.FootProbeRadius,
			Result:    hit,
		})
	}
	return hit, ok
}

func (d *Dispatcher) apply(ability Ability, imp Impulses) {
	self := d.host.Body()
	d.host.ApplyRadialImpulse(imp.Primary, self)
	if d.observer != nil {
		d.observer.OnImpulse(ImpulseEvent{Ability: ability, Spec: imp.Primary, Target: self})
	}
	if imp.Reaction == nil || imp.Struck == nil {
		return
	}
	d.host.ApplyRadialImpulse(*imp.Reaction, imp.Struck)
	if d.observer != nil {
		d.observer.OnImpulse(ImpulseEvent{Ability: ability, Spec: *imp.Reaction, Target: imp.Struck, Reaction: true})
	}
}
