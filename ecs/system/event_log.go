package system

import (
	"log"

	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/traversal"
)

// EventLogSystem logs traversal impulses and, when verbose, motion state
// changes. It keeps running totals for end of run summaries.
type EventLogSystem struct {
	verbose  bool
	frame    int
	Impulses map[traversal.Ability]int
	logf     func(format string, args ...any)
}

func NewEventLogSystem(verbose bool) *EventLogSystem {
	return &EventLogSystem{
		verbose:  verbose,
		Impulses: make(map[traversal.Ability]int),
		logf:     log.Printf,
	}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.frame++
	for _, evt := range w.Events().Peek() {
		switch data := evt.Data.(type) {
		case TraversalEvent:
			if !data.Reaction {
				s.Impulses[data.Ability]++
			}
			s.logf("events: frame=%d %v %s impulse magnitude=%.1f falloff=%s radius=%.0f reaction=%v",
				s.frame, data.Entity, data.Ability, data.Spec.Magnitude, data.Spec.Falloff, data.Spec.Radius, data.Reaction)
		case MotionStateChange:
			if s.verbose {
				s.logf("events: frame=%d %v motion %s -> %s", s.frame, data.Entity, data.From, data.To)
			}
		}
	}
}

// Frame is the number of frames observed so far.
func (s *EventLogSystem) Frame() int {
	return s.frame
}
