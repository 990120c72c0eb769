package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/common"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	traceFadeSeconds = 0.75
	traceMaxMarks    = 16
)

// TraversalEvent is the payload of ecs.EventTraversal, one per applied impulse.
type TraversalEvent struct {
	Entity   ecs.Entity
	Ability  traversal.Ability
	Spec     traversal.ImpulseSpec
	Reaction bool
}

// TraversalSystem feeds each character's input edges into its traversal
// dispatcher. It runs after input and before locomotion, so the assists see
// the motion state the previous physics step settled on.
type TraversalSystem struct {
	physics     *PhysicsSystem
	dispatchers map[ecs.Entity]*traversalEntry
	debug       bool
}

type traversalEntry struct {
	host       *characterHost
	dispatcher *traversal.Dispatcher
}

func NewTraversalSystem(physics *PhysicsSystem) *TraversalSystem {
	return &TraversalSystem{
		physics:     physics,
		dispatchers: make(map[ecs.Entity]*traversalEntry),
	}
}

func (s *TraversalSystem) SetDebug(debug bool) {
	if s != nil {
		s.debug = debug
	}
}

// Dispatcher returns the dispatcher driving e, if one has been created.
func (s *TraversalSystem) Dispatcher(e ecs.Entity) *traversal.Dispatcher {
	if s == nil {
		return nil
	}
	if entry := s.dispatchers[e]; entry != nil {
		return entry.dispatcher
	}
	return nil
}

func (s *TraversalSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	s.cleanup(w)

	for _, e := range w.Query(
		component.InputComponent.Kind(),
		component.MotionComponent.Kind(),
		component.TraversalComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	) {
		input, ok := ecs.Get(w, e, component.InputComponent.Kind())
		if !ok {
			continue
		}
		tr, ok := ecs.Get(w, e, component.TraversalComponent.Kind())
		if !ok {
			continue
		}

		entry := s.entry(w, e, tr.Params)
		entry.host.w = w
		entry.dispatcher.SetParams(tr.Params)

		d := entry.dispatcher
		if input.GrabReleased {
			d.SecondaryActionReleased()
		}
		if input.GrabPressed {
			d.SecondaryActionPressed()
		}
		d.LateralMove(input.MoveX)
		if input.JumpPressed {
			d.JumpPressed()
		}
		if input.JumpReleased {
			d.JumpReleased()
		}
	}

	s.fadeTraces(w)
}

func (s *TraversalSystem) entry(w *ecs.World, e ecs.Entity, params traversal.Params) *traversalEntry {
	if entry := s.dispatchers[e]; entry != nil {
		return entry
	}
	host := &characterHost{w: w, e: e, physics: s.physics}
	entry := &traversalEntry{host: host}
	entry.dispatcher = traversal.NewDispatcher(host, params,
		traversal.WithFilter(ProbeFilter()),
		traversal.WithObserver(s.observer(host)),
	)
	s.dispatchers[e] = entry
	return entry
}

func (s *TraversalSystem) cleanup(w *ecs.World) {
	for e := range s.dispatchers {
		if !w.IsAlive(e) || !ecs.Has(w, e, component.TraversalComponent.Kind()) {
			delete(s.dispatchers, e)
		}
	}
}

func (s *TraversalSystem) observer(host *characterHost) traversal.Observer {
	return traversal.ObserverFuncs{
		Probe: func(evt traversal.ProbeEvent) {
			w, e := host.w, host.e
			if s.debug {
				log.Printf("traversal: %v %s probe hit=%v blocking=%v at %v", e, evt.Ability, evt.Result.Hit, evt.Result.Blocking, evt.Result.Location)
			}
			trace, ok := ecs.Get(w, e, component.TraversalTraceComponent.Kind())
			if !ok {
				return
			}
			trace.Probes = appendMark(trace.Probes, component.ProbeMark{
				Ability:  evt.Ability,
				From:     evt.Origin,
				To:       evt.Origin.Add(evt.Direction.Mult(evt.Reach)),
				Radius:   evt.Radius,
				Hit:      evt.Result.Hit,
				Blocking: evt.Result.Blocking,
				Location: evt.Result.Location,
				Fade:     newFade(),
				Alpha:    1,
			})
		},
		Impulse: func(evt traversal.ImpulseEvent) {
			w, e := host.w, host.e
			w.Events().Push(ecs.Event{
				Type: ecs.EventTraversal,
				Data: TraversalEvent{Entity: e, Ability: evt.Ability, Spec: evt.Spec, Reaction: evt.Reaction},
			})
			trace, ok := ecs.Get(w, e, component.TraversalTraceComponent.Kind())
			if !ok {
				return
			}
			if trace.Fired == nil {
				trace.Fired = make(map[traversal.Ability]int)
			}
			if !evt.Reaction {
				trace.Fired[evt.Ability]++
			}
			trace.Impulses = appendMark(trace.Impulses, component.ImpulseMark{
				Ability:  evt.Ability,
				Spec:     evt.Spec,
				Reaction: evt.Reaction,
				Fade:     newFade(),
				Alpha:    1,
			})
		},
	}
}

func newFade() *gween.Tween {
	return gween.New(1, 0, traceFadeSeconds, ease.OutQuad)
}

func appendMark[T any](marks []T, mark T) []T {
	marks = append(marks, mark)
	if len(marks) > traceMaxMarks {
		marks = marks[len(marks)-traceMaxMarks:]
	}
	return marks
}

func (s *TraversalSystem) fadeTraces(w *ecs.World) {
	ecs.ForEach(w, component.TraversalTraceComponent.Kind(), func(_ ecs.Entity, trace *component.TraversalTrace) {
		probes := trace.Probes[:0]
		for _, m := range trace.Probes {
			if m.Fade == nil {
				continue
			}
			alpha, done := m.Fade.Update(float32(common.FrameDT))
			if done {
				continue
			}
			m.Alpha = alpha
			probes = append(probes, m)
		}
		trace.Probes = probes

		impulses := trace.Impulses[:0]
		for _, m := range trace.Impulses {
			if m.Fade == nil {
				continue
			}
			alpha, done := m.Fade.Update(float32(common.FrameDT))
			if done {
				continue
			}
			m.Alpha = alpha
			impulses = append(impulses, m)
		}
		trace.Impulses = impulses
	})
}

// characterHost exposes one ECS character to its dispatcher. Everything is
// read from components on demand.
type characterHost struct {
	w       *ecs.World
	e       ecs.Entity
	physics *PhysicsSystem
}

func (h *characterHost) Body() *cp.Body {
	if body, ok := ecs.Get(h.w, h.e, component.PhysicsBodyComponent.Kind()); ok {
		return body.Body
	}
	return nil
}

func (h *characterHost) Position() cp.Vector {
	if body := h.Body(); body != nil {
		return body.Position()
	}
	return cp.Vector{}
}

func (h *characterHost) Velocity() cp.Vector {
	if body := h.Body(); body != nil {
		return body.Velocity()
	}
	return cp.Vector{}
}

func (h *characterHost) MotionState() traversal.MotionState {
	if motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind()); ok {
		return motion.State
	}
	return traversal.MotionOther
}

func (h *characterHost) SetMotionState(state traversal.MotionState) {
	motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind())
	if !ok || motion.State == state {
		return
	}
	prev := motion.State
	motion.State = state
	h.w.Events().Push(ecs.Event{
		Type: ecs.EventMotionChanged,
		Data: MotionStateChange{Entity: h.e, From: prev, To: state},
	})
}

func (h *characterHost) AddMovementInput(scale float64) {
	if motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind()); ok {
		motion.PendingMove += scale
	}
}

func (h *characterHost) JumpStart() {
	if motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind()); ok {
		motion.JumpRequested = true
	}
}

func (h *characterHost) JumpStop() {
	if motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind()); ok {
		motion.JumpCut = true
	}
}

func (h *characterHost) JumpLaunchVelocity() float64 {
	if p, ok := ecs.Get(h.w, h.e, component.PlayerComponent.Kind()); ok {
		return p.JumpSpeed
	}
	return 0
}

func (h *characterHost) Sweep(q traversal.SweepQuery) traversal.ProbeResult {
	return h.physics.Sweep(q)
}

// ApplyRadialImpulse queues velocity changes on the character itself for the
// locomotion step and hands everything else to the physics space.
func (h *characterHost) ApplyRadialImpulse(spec traversal.ImpulseSpec, target *cp.Body) {
	self := h.Body()
	if target == nil || target != self {
		h.physics.ApplyRadialImpulse(spec, target)
		return
	}
	mass := target.Mass()
	if mass <= 0 {
		return
	}
	imp, ok := traversal.RadialImpulse(spec, target.Position(), mass)
	if !ok {
		return
	}
	if motion, ok := ecs.Get(h.w, h.e, component.MotionComponent.Kind()); ok {
		motion.PendingVelocity = motion.PendingVelocity.Add(imp.Mult(1 / mass))
	}
}
