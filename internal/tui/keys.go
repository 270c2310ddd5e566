package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	// Global
	Quit key.Binding
	Back key.Binding

	// Room list
	Up           key.Binding
	Down         key.Binding
	Join         key.Binding
	NewRoom      key.Binding
	Rename       key.Binding
	LegacyRename key.Binding
	End          key.Binding
	Delete       key.Binding
	Refresh      key.Binding

	// Forms
	Submit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/cancel"),
	),

	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Join: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "join"),
	),
	NewRoom: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	LegacyRename: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rename (no password)"),
	),
	End: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "end"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("g", "f5"),
		key.WithHelp("g", "refresh"),
	),

	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
}
