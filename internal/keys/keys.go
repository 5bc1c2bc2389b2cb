// Package keys contains keybinding definitions for the editor itself.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the shortcut editor.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Record         key.Binding
	Reset          key.Binding
	ResetAll       key.Binding
	Save           key.Binding
	Retry          key.Binding
	TogglePlatform key.Binding

	// General
	Help   key.Binding
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),

		// Actions
		Record: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", "record shortcut"),
		),
		Reset: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "reset to default"),
		),
		ResetAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "reset all"),
		),
		Save: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save shortcut"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "record again"),
		),
		TogglePlatform: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "switch platform"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle log tail"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the keybindings shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Record, k.Reset, k.TogglePlatform, k.Help, k.Quit}
}

// FullHelp returns all keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.TogglePlatform},
		{k.Record, k.Save, k.Retry},
		{k.Reset, k.ResetAll},
		{k.Help, k.Logs, k.Escape, k.Quit},
	}
}
