package focus

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the focus TUI.
type KeyMap struct {
	Start     key.Binding
	Pause     key.Binding
	Resume    key.Binding
	Complete  key.Binding
	Skip      key.Binding
	Confirm   key.Binding
	Chat      key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ShortHelp []key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	km := KeyMap{
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start timer"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Resume: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resume"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", "c"),
			key.WithHelp("enter", "complete step"),
		),
		Skip: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm parent"),
		),
		Chat: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "chat"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
	km.ShortHelp = []key.Binding{km.Start, km.Pause, km.Complete, km.Skip, km.Chat, km.Quit}
	return km
}
