package traversal

// MotionState classifies how the character is moving right now. It is owned by
// the locomotion layer; the dispatcher only reads it, and the grab toggle is
// the one place that overrides it directly.
type MotionState int

const (
	MotionOther MotionState = iota
	MotionGrounded
	MotionAirborne
	MotionCustomGrab
)

func (s MotionState) String() string {
	switch s {
	case MotionGrounded:
		return "grounded"
	case MotionAirborne:
		return "airborne"
	case MotionCustomGrab:
		return "custom_grab"
	default:
		return "other"
	}
}

// ParseMotionState is the inverse of String. Unknown names map to MotionOther.
func ParseMotionState(name string) MotionState {
	switch name {
	case "grounded":
		return MotionGrounded
	case "airborne":
		return MotionAirborne
	case "custom_grab":
		return MotionCustomGrab
	default:
		return MotionOther
	}
}

// Ability names one of the traversal assists.
type Ability int

const (
	AbilityWallrun Ability = iota + 1
	AbilityRetour
)

func (a Ability) String() string {
	switch a {
	case AbilityWallrun:
		return "wallrun"
	case AbilityRetour:
		return "retour"
	default:
		return "unknown"
	}
}
