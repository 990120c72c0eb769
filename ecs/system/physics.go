package system

import (
	"log"
	"math"
	"weak"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/common"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
	collisionTypeTrigger
)

const allCategories = ^uint(0)

type PhysicsSystem struct {
	space         *cp.Space
	dt            float64
	handlersReady bool
	debug         bool

	entities     map[ecs.Entity]*bodyInfo
	bodies       map[*cp.Body]ecs.Entity
	playerShapes map[*cp.Shape]ecs.Entity
	groundShapes map[*cp.Shape]ecs.Entity
	playerStates map[ecs.Entity]*playerContactState
}

type bodyInfo struct {
	body         *cp.Body
	mainShape    *cp.Shape
	groundShape  *cp.Shape
	shapes       []*cp.Shape
	static       bool
	gravityScale float64
}

type playerContactState struct {
	grounded bool
	wall     int
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:        newSpace(),
		dt:           common.FrameDT,
		entities:     make(map[ecs.Entity]*bodyInfo),
		bodies:       make(map[*cp.Body]ecs.Entity),
		playerShapes: make(map[*cp.Shape]ecs.Entity),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		playerStates: make(map[ecs.Entity]*playerContactState),
	}
}

// SetDebug turns on body lifecycle logging.
func (ps *PhysicsSystem) SetDebug(debug bool) {
	if ps != nil {
		ps.debug = debug
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Reset drops the Chipmunk space and all body bookkeeping, for level reloads.
func (ps *PhysicsSystem) Reset() {
	if ps == nil {
		return
	}
	ps.space = newSpace()
	ps.handlersReady = false
	ps.entities = make(map[ecs.Entity]*bodyInfo)
	ps.bodies = make(map[*cp.Body]ecs.Entity)
	ps.playerShapes = make(map[*cp.Shape]ecs.Entity)
	ps.groundShapes = make(map[*cp.Shape]ecs.Entity)
	ps.playerStates = make(map[ecs.Entity]*playerContactState)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.Reset()
	}

	ps.ensureHandlers()
	ps.Sync(w)
	ps.resetPlayerContacts(w)

	ps.space.Step(ps.dt)

	ps.syncTransforms(w)
	ps.flushPlayerContacts(w)
}

// Sync creates Chipmunk bodies for new PhysicsBody components, drops bodies
// of removed entities, and refreshes per-body gravity scale. Update calls it;
// spawners call it directly so bodies exist before the first step.
func (ps *PhysicsSystem) Sync(w *ecs.World) {
	if ps == nil || ps.space == nil || w == nil {
		return
	}
	ps.syncEntities(w)
	ps.syncWorldBounds(w)
	ps.syncGravity(w)
}

// EntityForBody maps a Chipmunk body back to its entity.
func (ps *PhysicsSystem) EntityForBody(body *cp.Body) (ecs.Entity, bool) {
	if ps == nil || body == nil {
		return 0, false
	}
	e, ok := ps.bodies[body]
	return e, ok
}

// Sweep moves a circle along a segment and reports the first solid shape it
// touches. Sensors along the way count as non-blocking hits and are reported
// only when nothing solid is found.
func (ps *PhysicsSystem) Sweep(q traversal.SweepQuery) traversal.ProbeResult {
	if ps == nil || ps.space == nil {
		return traversal.ProbeResult{}
	}

	type candidate struct {
		shape *cp.Shape
		point cp.Vector
		alpha float64
	}
	var blocking, overlap *candidate

	ps.space.SegmentQuery(q.Origin, q.Target, q.Radius, q.Filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		if shape == nil || (q.Ignore != nil && shape.Body() == q.Ignore) {
			return
		}
		c := &candidate{shape: shape, point: point, alpha: alpha}
		if shape.Sensor() {
			if overlap == nil || alpha < overlap.alpha {
				overlap = c
			}
			return
		}
		if blocking == nil || alpha < blocking.alpha {
			blocking = c
		}
	}, nil)

	hit := blocking
	if hit == nil {
		hit = overlap
	}
	if hit == nil {
		return traversal.ProbeResult{}
	}
	res := traversal.ProbeResult{
		Hit:      true,
		Blocking: hit == blocking,
		Location: hit.point,
	}
	if body := hit.shape.Body(); body != nil && body.GetType() != cp.BODY_STATIC {
		res.Body = weak.Make(body)
	}
	return res
}

// ApplyRadialImpulse pushes target away from spec.Origin. Static, kinematic
// and out-of-range bodies are left alone.
func (ps *PhysicsSystem) ApplyRadialImpulse(spec traversal.ImpulseSpec, target *cp.Body) {
	if target == nil || target.GetType() != cp.BODY_DYNAMIC {
		return
	}
	pos := target.Position()
	imp, ok := traversal.RadialImpulse(spec, pos, target.Mass())
	if !ok {
		return
	}
	target.Activate()
	target.ApplyImpulseAtWorldPoint(imp, pos)
}

// ProbeFilter is the query filter that sees world geometry and props.
func ProbeFilter() cp.ShapeFilter {
	return cp.ShapeFilter{
		Categories: uint(component.LayerCharacter),
		Mask:       uint(component.LayerWorld | component.LayerProp),
	}
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady || ps.space == nil {
		return
	}

	wallHandler := ps.space.NewCollisionHandler(collisionTypePlayer, collisionTypeSolid)
	wallHandler.UserData = ps
	wallHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerEntity, playerIsA := sys.playerShapes[shapeA]
		if !playerIsA {
			var okB bool
			playerEntity, okB = sys.playerShapes[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !playerIsA {
			n = n.Neg()
		}
		st := sys.contactState(playerEntity)
		if n.X < -0.5 {
			st.wall = component.WallLeft
		} else if n.X > 0.5 {
			st.wall = component.WallRight
		}
		return true
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		playerEntity, okA := sys.groundShapes[shapeA]
		if !okA {
			var okB bool
			playerEntity, okB = sys.groundShapes[shapeB]
			if !okB {
				return true
			}
		}
		sys.contactState(playerEntity).grounded = true
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) contactState(e ecs.Entity) *playerContactState {
	st := ps.playerStates[e]
	if st == nil {
		st = &playerContactState{}
		ps.playerStates[e] = st
	}
	return st
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.mainShape
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		isPlayer := ecs.Has(w, e, component.PlayerTagComponent.Kind())
		layer := component.CollisionLayer{}
		if l, ok := ecs.Get(w, e, component.CollisionLayerComponent.Kind()); ok {
			layer = *l
		}

		info := ps.createBodyInfo(*transform, *bodyComp, layer, isPlayer)
		if info == nil || info.mainShape == nil {
			continue
		}
		ps.entities[e] = info
		if !info.static {
			ps.bodies[info.body] = e
		}
		if isPlayer {
			ps.playerShapes[info.mainShape] = e
			if info.groundShape != nil {
				ps.groundShapes[info.groundShape] = e
			}
		}
		bodyComp.Body = info.body
		bodyComp.Shape = info.mainShape
		if ps.debug {
			log.Printf("PhysicsSystem: created body for entity %v static=%v player=%v", e, info.static, isPlayer)
		}
	}
}

func shapeFilter(layer component.CollisionLayer, isPlayer bool) cp.ShapeFilter {
	category := layer.Category
	if category == 0 {
		category = component.LayerWorld
		if isPlayer {
			category = component.LayerCharacter
		}
	}
	mask := uint(layer.Mask)
	if layer.Mask == 0 {
		mask = allCategories
	}
	return cp.ShapeFilter{Categories: uint(category), Mask: mask}
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody, layer component.CollisionLayer, isPlayer bool) *bodyInfo {
	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius

	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 32
		height = 32
	}

	sizeW, sizeH := width, height
	if radius > 0 {
		sizeW = radius * 2
		sizeH = radius * 2
	}

	topLeftX := transform.X + bodyComp.OffsetX
	topLeftY := transform.Y + bodyComp.OffsetY
	if !bodyComp.AlignTopLeft {
		topLeftX -= sizeW / 2
		topLeftY -= sizeH / 2
	}

	centerX := topLeftX + sizeW/2
	centerY := topLeftY + sizeH/2
	filter := shapeFilter(layer, isPlayer)

	info := &bodyInfo{static: bodyComp.Static, gravityScale: 1}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(ps.space.StaticBody, radius, cp.Vector{X: centerX, Y: centerY})
		} else {
			bb := cp.BB{L: topLeftX, B: topLeftY, R: topLeftX + sizeW, T: topLeftY + sizeH}
			shape = cp.NewBox2(ps.space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		shape.SetCollisionType(collisionTypeSolid)
		if bodyComp.Sensor {
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeTrigger)
		}
		shape.SetFilter(filter)
		ps.space.AddShape(shape)

		info.body = ps.space.StaticBody
		info.mainShape = shape
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	switch {
	case bodyComp.FixedRotation || isPlayer:
		moment = math.Inf(1)
	case radius > 0:
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	default:
		moment = cp.MomentForBox(mass, width, height)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(cp.Vector{X: centerX, Y: centerY})
	body.SetAngle(transform.Rotation)
	body.SetAngularVelocity(0)
	body.SetVelocityUpdateFunc(func(b *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(b, gravity.Mult(info.gravityScale), damping, dt)
	})

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)
	shape.SetCollisionType(collisionTypeSolid)
	if isPlayer {
		shape.SetCollisionType(collisionTypePlayer)
	} else if bodyComp.Sensor {
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeTrigger)
	}
	shape.SetFilter(filter)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)

	info.body = body
	info.mainShape = shape
	info.shapes = []*cp.Shape{shape}

	if isPlayer {
		if groundShape := createGroundSensor(width, height, body, filter); groundShape != nil {
			ps.space.AddShape(groundShape)
			info.groundShape = groundShape
			info.shapes = append(info.shapes, groundShape)
		}
	}

	return info
}

func createGroundSensor(width, height float64, body *cp.Body, filter cp.ShapeFilter) *cp.Shape {
	if body == nil || width <= 0 || height <= 0 {
		return nil
	}
	groundBB := cp.BB{
		L: -width * 0.45,
		B: height / 2.0,
		R: width * 0.45,
		T: height/2.0 + 2,
	}
	groundShape := cp.NewBox2(body, groundBB, 0)
	groundShape.SetSensor(true)
	groundShape.SetCollisionType(collisionTypePlayerGround)
	groundShape.SetFilter(cp.ShapeFilter{Categories: uint(component.LayerSensor), Mask: filter.Mask})
	return groundShape
}

func (ps *PhysicsSystem) syncWorldBounds(w *ecs.World) {
	boundsEntity, ok := w.First(component.LevelBoundsComponent.Kind())
	if !ok {
		return
	}
	if _, exists := ps.entities[boundsEntity]; exists {
		return
	}
	bounds, ok := ecs.Get(w, boundsEntity, component.LevelBoundsComponent.Kind())
	if !ok || bounds.Width <= 0 || bounds.Height <= 0 {
		return
	}

	worldW := bounds.Width
	worldH := bounds.Height
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: worldW, Y: 0}},           // top
		{a: cp.Vector{X: 0, Y: worldH}, b: cp.Vector{X: worldW, Y: worldH}}, // bottom
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: worldH}},           // left
		{a: cp.Vector{X: worldW, Y: 0}, b: cp.Vector{X: worldW, Y: worldH}}, // right
	}

	info := &bodyInfo{static: true, body: ps.space.StaticBody}
	for _, seg := range segments {
		shape := cp.NewSegment(ps.space.StaticBody, seg.a, seg.b, 1)
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.ShapeFilter{Categories: uint(component.LayerWorld), Mask: allCategories})
		ps.space.AddShape(shape)
		info.shapes = append(info.shapes, shape)
	}
	info.mainShape = info.shapes[0]
	ps.entities[boundsEntity] = info
}

func (ps *PhysicsSystem) syncGravity(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		scale := 1.0
		if g, ok := ecs.Get(w, e, component.GravityScaleComponent.Kind()); ok {
			scale = g.Scale
		}
		info.gravityScale = scale
	}
}

func (ps *PhysicsSystem) resetPlayerContacts(w *ecs.World) {
	players := w.Query(component.PlayerCollisionComponent.Kind())
	seen := make(map[ecs.Entity]struct{}, len(players))
	for _, e := range players {
		seen[e] = struct{}{}
		st := ps.contactState(e)
		st.grounded = false
		st.wall = component.WallNone
	}
	for e := range ps.playerStates {
		if _, ok := seen[e]; !ok {
			delete(ps.playerStates, e)
		}
	}
}

func (ps *PhysicsSystem) flushPlayerContacts(w *ecs.World) {
	for e, st := range ps.playerStates {
		pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind())
		if !ok {
			continue
		}
		pc.Grounded = st.grounded
		pc.Wall = st.wall
	}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		if bodyComp.AlignTopLeft {
			transform.X = pos.X - bodyComp.Width/2.0 - bodyComp.OffsetX
			transform.Y = pos.Y - bodyComp.Height/2.0 - bodyComp.OffsetY
		} else {
			transform.X = pos.X - bodyComp.OffsetX
			transform.Y = pos.Y - bodyComp.OffsetY
		}
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && (ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) || ecs.Has(w, e, component.LevelBoundsComponent.Kind())) {
			continue
		}

		for _, shape := range info.shapes {
			if shape == nil {
				continue
			}
			ps.space.RemoveShape(shape)
			delete(ps.playerShapes, shape)
			delete(ps.groundShapes, shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
			delete(ps.bodies, info.body)
		}

		delete(ps.entities, e)
		delete(ps.playerStates, e)
	}
}
