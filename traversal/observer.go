package traversal

import "github.com/jakecoffman/cp"

// ProbeEvent describes a sweep the dispatcher issued.
type ProbeEvent struct {
	Ability   Ability
	Origin    cp.Vector
	Direction cp.Vector
	Reach     float64
	Radius    float64
	Result    ProbeResult
}

// ImpulseEvent describes an impulse the dispatcher applied.
type ImpulseEvent struct {
	Ability  Ability
	Spec     ImpulseSpec
	Target   *cp.Body
	Reaction bool
}

// Observer sees probes and impulses after they happen. It cannot change the
// outcome; debug drawing and logging hang off it.
type Observer interface {
	OnProbe(evt ProbeEvent)
	OnImpulse(evt ImpulseEvent)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Probe   func(ProbeEvent)
	Impulse func(ImpulseEvent)
}

func (o ObserverFuncs) OnProbe(evt ProbeEvent) {
	if o.Probe != nil {
		o.Probe(evt)
	}
}

func (o ObserverFuncs) OnImpulse(evt ImpulseEvent) {
	if o.Impulse != nil {
		o.Impulse(evt)
	}
}

// MultiObserver fans events out in order.
type MultiObserver []Observer

func (m MultiObserver) OnProbe(evt ProbeEvent) {
	for _, o := range m {
		if o != nil {
			o.OnProbe(evt)
		}
	}
}

func (m MultiObserver) OnImpulse(evt ImpulseEvent) {
	for _, o := range m {
		if o != nil {
			o.OnImpulse(evt)
		}
	}
}
