package system

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/traversal"
	"golang.org/x/image/font/basicfont"
)

var (
	probeMissColor     = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	probeBlockColor    = color.NRGBA{R: 255, G: 80, B: 80, A: 255}
	probeOverlapColor  = color.NRGBA{R: 80, G: 160, B: 255, A: 255}
	wallrunImpulseTint = color.NRGBA{R: 255, G: 220, B: 60, A: 255}
	retourImpulseTint  = color.NRGBA{R: 60, G: 255, B: 200, A: 255}

	hudFace = text.NewGoXFace(basicfont.Face7x13)
)

// DrawTraversalDebug draws the recent probe sweeps and impulse spheres of
// every traced character. Marks fade out as their tweens run.
func DrawTraversalDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	d := newDebugDrawer(w, screen)

	ecs.ForEach2(w, component.TraversalTraceComponent.Kind(), component.TraversalComponent.Kind(), func(_ ecs.Entity, trace *component.TraversalTrace, tr *component.Traversal) {
		segments := tr.Params.DebugSphereSegments

		for _, m := range trace.Probes {
			c := probeMissColor
			if m.Hit {
				c = probeOverlapColor
				if m.Blocking {
					c = probeBlockColor
				}
			}
			c = fade(c, m.Alpha)
			d.drawLine(m.From, m.To, c)
			d.drawCircle(m.To, m.Radius, segments, c)
			if m.Hit {
				d.drawCircle(m.Location, m.Radius, segments, c)
			}
		}

		for _, m := range trace.Impulses {
			c := wallrunImpulseTint
			if m.Ability == traversal.AbilityRetour {
				c = retourImpulseTint
			}
			if m.Reaction {
				c.A /= 2
			}
			c = fade(c, m.Alpha)
			d.drawCircle(m.Spec.Origin, m.Spec.Radius, segments, c)
			d.drawLine(m.Spec.Origin.Sub(cp.Vector{X: 4}), m.Spec.Origin.Add(cp.Vector{X: 4}), c)
		}
	})
}

func fade(c color.NRGBA, alpha float32) color.NRGBA {
	c.A = uint8(float32(c.A) * clamp01(alpha))
	return c
}

// DrawPlayerStateDebug prints the player's motion and traversal counters in
// the top left corner.
func DrawPlayerStateDebug(w *ecs.World, screen *ebiten.Image) {
	if w == nil || screen == nil {
		return
	}
	player, ok := w.First(component.PlayerTagComponent.Kind())
	if !ok {
		return
	}

	lines := []string{}
	if motion, ok := ecs.Get(w, player, component.MotionComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("State: %s", motion.State))
		lines = append(lines, fmt.Sprintf("Jumping: %v Coyote: %d", motion.Jumping, motion.CoyoteTimer))
	}
	if pc, ok := ecs.Get(w, player, component.PlayerCollisionComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("Grounded: %v Wall: %d", pc.Grounded, pc.Wall))
	}
	if body, ok := ecs.Get(w, player, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		v := body.Body.Velocity()
		lines = append(lines, fmt.Sprintf("Velocity: %.0f, %.0f", v.X, v.Y))
	}
	if trace, ok := ecs.Get(w, player, component.TraversalTraceComponent.Kind()); ok {
		lines = append(lines, fmt.Sprintf("Wallrun: %d Retour: %d",
			trace.Fired[traversal.AbilityWallrun], trace.Fired[traversal.AbilityRetour]))
	}
	if len(lines) == 0 {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(10, 10)
	op.LineSpacing = 16
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, strings.Join(lines, "\n"), hudFace, op)
}
