package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/side2d0/ecs"
	"github.com/milk9111/side2d0/ecs/component"
)

const stickDeadzone = 0.2

// InputSystem samples keyboard, gamepad, mouse and touch into every Input
// that is not driven by a script.
type InputSystem struct {
	touches []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	jump := ebiten.IsKeyPressed(ebiten.KeySpace) || ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	jumpReleased := inpututil.IsKeyJustReleased(ebiten.KeySpace) || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	// Any touch jumps.
	i.touches = inpututil.AppendJustPressedTouchIDs(i.touches[:0])
	if len(i.touches) > 0 {
		jumpPressed = true
	}
	if len(ebiten.AppendTouchIDs(nil)) > 0 {
		jump = true
	}
	i.touches = inpututil.AppendJustReleasedTouchIDs(i.touches[:0])
	if len(i.touches) > 0 {
		jumpReleased = true
	}

	grab := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyE)
	grabPressed := inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyE)
	grabReleased := inpututil.IsKeyJustReleased(ebiten.KeyShiftLeft) || inpututil.IsKeyJustReleased(ebiten.KeyE)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}

		jump = jump || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpReleased = jumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)

		grab = grab || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		grabPressed = grabPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		grabReleased = grabReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontTopRight)
	}

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		if ecs.Has(w, e, component.ScriptInputComponent.Kind()) {
			return
		}
		input.MoveX = moveX
		input.Jump = jump
		input.JumpPressed = jumpPressed
		input.JumpReleased = jumpReleased
		input.Grab = grab
		input.GrabPressed = grabPressed
		input.GrabReleased = grabReleased
	})
}
