package system

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
	"github.com/milk9111/side2d0/prefabs"
	"github.com/milk9111/side2d0/traversal"
)

// Script inputs are globals the system sets before every run.
var scriptInputs = []string{"frame", "state", "grounded", "x", "y", "vx", "vy"}

// ScriptInputSystem drives Input from a tengo autopilot script. The script
// runs once per frame and reports its wishes through the globals move, jump,
// grab and done. Edges are derived from the previous frame.
type ScriptInputSystem struct {
	load func(path string) ([]byte, error)
}

func NewScriptInputSystem() *ScriptInputSystem {
	return &ScriptInputSystem{load: prefabs.LoadScript}
}

// CompileInputScript compiles src with the autopilot globals declared.
func CompileInputScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	for _, name := range scriptInputs {
		var zero any
		switch name {
		case "state":
			zero = ""
		case "grounded":
			zero = false
		case "frame":
			zero = 0
		default:
			zero = 0.0
		}
		if err := script.Add(name, zero); err != nil {
			return nil, fmt.Errorf("script: declare %s: %w", name, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	return compiled, nil
}

func (s *ScriptInputSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.ScriptInputComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, si *component.ScriptInput, input *component.Input) {
		if si.Done {
			*input = component.Input{}
			return
		}
		if si.Compiled == nil {
			if err := s.compile(si); err != nil {
				log.Printf("script: entity=%v %v", e, err)
				si.Done = true
				return
			}
		}

		if err := s.bind(w, e, si); err != nil {
			log.Printf("script: entity=%v bind: %v", e, err)
			si.Done = true
			return
		}
		if err := si.Compiled.Run(); err != nil {
			log.Printf("script: entity=%v run frame %d: %v", e, si.Frame, err)
			si.Done = true
			return
		}
		si.Frame++

		applyScriptInput(input, si.Compiled)
		if si.Compiled.IsDefined("done") && si.Compiled.Get("done").Bool() {
			si.Done = true
		}
	})
}

func (s *ScriptInputSystem) compile(si *component.ScriptInput) error {
	if strings.TrimSpace(si.Path) == "" {
		return fmt.Errorf("empty script path")
	}
	src, err := s.load(si.Path)
	if err != nil {
		return fmt.Errorf("load %s: %w", si.Path, err)
	}
	compiled, err := CompileInputScript(src)
	if err != nil {
		return fmt.Errorf("%s: %w", si.Path, err)
	}
	si.Compiled = compiled
	return nil
}

func (s *ScriptInputSystem) bind(w *ecs.World, e ecs.Entity, si *component.ScriptInput) error {
	state := traversal.MotionOther
	if motion, ok := ecs.Get(w, e, component.MotionComponent.Kind()); ok {
		state = motion.State
	}
	grounded := false
	if pc, ok := ecs.Get(w, e, component.PlayerCollisionComponent.Kind()); ok {
		grounded = pc.Grounded
	}
	var x, y, vx, vy float64
	if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && body.Body != nil {
		pos, vel := body.Body.Position(), body.Body.Velocity()
		x, y, vx, vy = pos.X, pos.Y, vel.X, vel.Y
	}

	values := map[string]any{
		"frame":    si.Frame,
		"state":    state.String(),
		"grounded": grounded,
		"x":        x,
		"y":        y,
		"vx":       vx,
		"vy":       vy,
	}
	for _, name := range scriptInputs {
		if err := si.Compiled.Set(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func applyScriptInput(input *component.Input, compiled *tengo.Compiled) {
	move := 0.0
	if compiled.IsDefined("move") {
		move = compiled.Get("move").Float()
	}
	jump := compiled.IsDefined("jump") && compiled.Get("jump").Bool()
	grab := compiled.IsDefined("grab") && compiled.Get("grab").Bool()

	input.MoveX = move
	input.JumpPressed = jump && !input.Jump
	input.JumpReleased = !jump && input.Jump
	input.Jump = jump
	input.GrabPressed = grab && !input.Grab
	input.GrabReleased = !grab && input.Grab
	input.Grab = grab
}
