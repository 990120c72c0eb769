package system

import (
	"fmt"
	"strings"
	"testing"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/traversal"
)

func TestEventLog(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantLines int
	}{
		{name: "quiet", verbose: false, wantLines: 2},
		{name: "verbose", verbose: true, wantLines: 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ecs.NewWorld()
			var lines []string
			s := NewEventLogSystem(tc.verbose)
			s.logf = func(format string, args ...any) {
				lines = append(lines, fmt.Sprintf(format, args...))
			}

			w.Events().Push(ecs.Event{Type: ecs.EventTraversal, Data: TraversalEvent{Ability: traversal.AbilityWallrun}})
			w.Events().Push(ecs.Event{Type: ecs.EventTraversal, Data: TraversalEvent{Ability: traversal.AbilityWallrun, Reaction: true}})
			w.Events().Push(ecs.Event{Type: ecs.EventMotionChanged, Data: MotionStateChange{From: traversal.MotionGrounded, To: traversal.MotionAirborne}})
			s.Update(w)

			if len(lines) != tc.wantLines {
				t.Fatalf("expected %d lines, got %d: %q", tc.wantLines, len(lines), lines)
			}
			if !strings.Contains(lines[0], "wallrun impulse") {
				t.Fatalf("unexpected first line %q", lines[0])
			}
			if s.Impulses[traversal.AbilityWallrun] != 1 {
				t.Fatalf("expected reactions to be excluded from totals, got %d", s.Impulses[traversal.AbilityWallrun])
			}
			if s.Frame() != 1 {
				t.Fatalf("expected frame 1, got %d", s.Frame())
			}
		})
	}
}
