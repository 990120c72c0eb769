package system

import (
	"testing"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
)

func TestPipelineWallrunJump(t *testing.T) {
	w := ecs.NewWorld()
	addFloor(t, w)
	addWall(t, w)
	e := addCharacter(t, w, 540, traversal.MotionGrounded)

	p := NewPipeline(PipelineConfig{Headless: true, LogEvents: true, ViewW: 800, ViewH: 600})
	p.Events.logf = t.Logf
	p.Physics.Sync(w)
	input := inputOf(t, w, e)

	// Start running at the wall.
	input.MoveX = 1
	p.Update(w)
	if got := motionOf(t, w, e).State; got != traversal.MotionGrounded {
		t.Fatalf("expected grounded before the jump, got %s", got)
	}

	input.JumpPressed = true
	input.Jump = true
	p.Update(w)

	trace, _ := ecs.Get(w, e, component.TraversalTraceComponent.Kind())
	if trace.Fired[traversal.AbilityWallrun] != 1 {
		t.Fatalf("expected one wallrun, got %d", trace.Fired[traversal.AbilityWallrun])
	}
	if p.Events.Impulses[traversal.AbilityWallrun] != 1 {
		t.Fatalf("expected the event log to count the wallrun")
	}
	// Jump launch plus 100 + 0.5*600 boost, minus one frame of gravity.
	if vy := bodyOf(t, w, e).Body.Velocity().Y; vy > -1300 {
		t.Fatalf("expected the boost to stack on the jump, got vy=%v", vy)
	}
	if len(w.Events().Peek()) != 0 {
		t.Fatalf("expected events to be flushed at the end of the frame")
	}

	p.Reset()
	if p.Traversal.Dispatcher(e) != nil {
		t.Fatalf("expected reset to drop dispatchers")
	}
}
