package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Navigation
	NextPane key.Binding
	Escape   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Actions
	Quit      key.Binding
	Save      key.Binding
	Authorize key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		NextPane: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "next pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to settings"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll logs up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll logs down"),
		),

		// Actions
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Authorize: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "authorize drive"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

// footerBindings are the hints shown in the footer, in order
func footerBindings() []key.Binding {
	return []key.Binding{Keys.Save, Keys.Authorize, Keys.NextPane, Keys.Quit}
}
