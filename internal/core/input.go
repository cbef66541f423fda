package core

// Action represents a semantic table action, abstracted from physical key presses.
// Hosts map their own key events onto actions so the session never sees raw input.
type Action int

const (
	ActionNone         Action = iota
	ActionLeftFlipper         // Z, Left arrow
	ActionRightFlipper        // M, Right arrow
	ActionLaunch              // Space, Down arrow - plunger
	ActionNudge               // N - bump the table
	ActionStart               // Enter - start game / resume
	ActionPause               // P - pause/unpause (score view click)
	ActionEndGame             // E - end the game from the paused panel
	ActionSwitchTable         // T - next table
	ActionToggleUnlimited     // U - unlimited balls toggle
	ActionToggleRenderer      // V - styled/plain renderer
	ActionToggleFPS           // F - FPS readout
	ActionBack                // Esc - pause when playing, otherwise leave
	ActionQuit                // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeftFlipper:
		return "LeftFlipper"
	case ActionRightFlipper:
		return "RightFlipper"
	case ActionLaunch:
		return "Launch"
	case ActionNudge:
		return "Nudge"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionEndGame:
		return "EndGame"
	case ActionSwitchTable:
		return "SwitchTable"
	case ActionToggleUnlimited:
		return "ToggleUnlimited"
	case ActionToggleRenderer:
		return "ToggleRenderer"
	case ActionToggleFPS:
		return "ToggleFPS"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
