package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-pinball/internal/core"
)

// KeyMap holds the table key bindings.
type KeyMap struct {
	LeftFlipper     key.Binding
	RightFlipper    key.Binding
	Launch          key.Binding
	Nudge           key.Binding
	Start           key.Binding
	Pause           key.Binding
	EndGame         key.Binding
	SwitchTable     key.Binding
	ToggleUnlimited key.Binding
	ToggleRenderer  key.Binding
	ToggleFPS       key.Binding
	Back            key.Binding
	Quit            key.Binding
	Help            key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.LeftFlipper, k.RightFlipper, k.Launch, k.Start, k.Pause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.LeftFlipper, k.RightFlipper, k.Launch, k.Nudge},
		{k.Start, k.Pause, k.EndGame, k.Back},
		{k.SwitchTable, k.ToggleUnlimited, k.ToggleRenderer, k.ToggleFPS},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LeftFlipper: key.NewBinding(
			key.WithKeys("z", "left"),
			key.WithHelp("z/←", "left flipper"),
		),
		RightFlipper: key.NewBinding(
			key.WithKeys("m", "right"),
			key.WithHelp("m/→", "right flipper"),
		),
		Launch: key.NewBinding(
			key.WithKeys(" ", "down"),
			key.WithHelp("space", "launch"),
		),
		Nudge: key.NewBinding(
			key.WithKeys("n", "up"),
			key.WithHelp("n", "nudge"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		EndGame: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end game"),
		),
		SwitchTable: key.NewBinding(
			key.WithKeys("t", "tab"),
			key.WithHelp("t", "next table"),
		),
		ToggleUnlimited: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unlimited balls"),
		),
		ToggleRenderer: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "renderer"),
		),
		ToggleFPS: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fps"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// Action translates a key message into a table action. Help is handled by
// the model and maps to ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	bindings := []struct {
		binding key.Binding
		action  core.Action
	}{
		{k.Quit, core.ActionQuit},
		{k.LeftFlipper, core.ActionLeftFlipper},
		{k.RightFlipper, core.ActionRightFlipper},
		{k.Launch, core.ActionLaunch},
		{k.Nudge, core.ActionNudge},
		{k.Start, core.ActionStart},
		{k.Pause, core.ActionPause},
		{k.EndGame, core.ActionEndGame},
		{k.SwitchTable, core.ActionSwitchTable},
		{k.ToggleUnlimited, core.ActionToggleUnlimited},
		{k.ToggleRenderer, core.ActionToggleRenderer},
		{k.ToggleFPS, core.ActionToggleFPS},
		{k.Back, core.ActionBack},
	}
	for _, b := range bindings {
		if key.Matches(msg, b.binding) {
			return b.action
		}
	}
	return core.ActionNone
}
