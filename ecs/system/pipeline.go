package system

import (
	"github.com/milk9111/side2d0/ecs"
)

// PipelineConfig selects which systems run and how they are wired.
type PipelineConfig struct {
	// Headless skips device input; scripts still drive their entities.
	Headless bool
	Debug    bool
	// LogEvents adds an EventLogSystem even without Debug.
	LogEvents bool
	// Changes carries changed prefab paths from a watcher. Nil disables
	// hot reload.
	Changes <-chan string
	Store   TuningStore
	ViewW   float64
	ViewH   float64
}

// Pipeline is the fixed per-frame system order:
// input, scripts, tuning, traversal, locomotion, physics, motion state,
// camera, event log.
type Pipeline struct {
	Physics   *PhysicsSystem
	Traversal *TraversalSystem
	Tuning    *TuningSystem
	Camera    *CameraSystem
	Events    *EventLogSystem

	scheduler *ecs.Scheduler
}

func NewPipeline(cfg PipelineConfig) *Pipeline {
	p := &Pipeline{
		Physics: NewPhysicsSystem(),
		Camera:  NewCameraSystem(cfg.ViewW, cfg.ViewH),
	}
	p.Physics.SetDebug(cfg.Debug)
	p.Traversal = NewTraversalSystem(p.Physics)
	p.Traversal.SetDebug(cfg.Debug)

	var tuningOpts []TuningOption
	if cfg.Store != nil {
		tuningOpts = append(tuningOpts, WithTuningStore(cfg.Store))
	}
	p.Tuning = NewTuningSystem(cfg.Changes, tuningOpts...)
	p.Tuning.SetDebug(cfg.Debug)

	motion := NewMotionStateSystem()
	motion.SetDebug(cfg.Debug)

	p.scheduler = ecs.NewScheduler()
	if !cfg.Headless {
		p.scheduler.Add(NewInputSystem())
	}
	p.scheduler.Add(NewScriptInputSystem())
	p.scheduler.Add(p.Tuning)
	p.scheduler.Add(p.Traversal)
	p.scheduler.Add(NewLocomotionSystem())
	p.scheduler.Add(p.Physics)
	p.scheduler.Add(motion)
	p.scheduler.Add(p.Camera)
	if cfg.Debug || cfg.LogEvents {
		p.Events = NewEventLogSystem(cfg.Debug)
		p.scheduler.Add(p.Events)
	}
	return p
}

// Update advances the world by one fixed frame.
func (p *Pipeline) Update(w *ecs.World) {
	p.scheduler.Update(w)
}

// Reset drops per-world state before a level reload.
func (p *Pipeline) Reset() {
	p.Physics.Reset()
	p.Traversal.dispatchers = make(map[ecs.Entity]*traversalEntry)
	p.Tuning.Reset()
}
