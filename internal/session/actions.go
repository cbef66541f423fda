package session

import (
	"github.com/vovakirdan/tui-pinball/internal/core"
	"github.com/vovakirdan/tui-pinball/internal/field"
)

// Handle performs a host action and reports whether the host should exit.
// Panel actions only work while their button is shown.
func (s *Session) Handle(a core.Action) (quit bool) {
	switch a {
	case core.ActionLeftFlipper:
		s.Flip(field.SideLeft)
	case core.ActionRightFlipper:
		s.Flip(field.SideRight)
	case core.ActionLaunch:
		s.Launch()
	case core.ActionNudge:
		s.Nudge()
	case core.ActionStart:
		s.StartGame()
	case core.ActionPause:
		s.TogglePause()
	case core.ActionEndGame:
		if p := s.Panel(); p.Visible && p.EndGame {
			s.EndGame()
		}
	case core.ActionSwitchTable:
		if p := s.Panel(); p.Visible && p.SwitchTable {
			if err := s.SwitchTable(); err != nil {
				s.log.Error("could not switch table", "error", err)
			}
		}
	case core.ActionToggleUnlimited:
		s.ToggleUnlimited()
	case core.ActionToggleRenderer:
		if err := s.CycleRenderer(); err != nil {
			s.log.Warn("could not switch renderer", "error", err)
		}
	case core.ActionToggleFPS:
		s.ToggleFPS()
	case core.ActionBack:
		return !s.Back()
	case core.ActionQuit:
		return true
	}
	return false
}
