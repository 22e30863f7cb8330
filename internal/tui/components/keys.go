package components

import "github.com/charmbracelet/bubbles/key"

// FormKeyMap defines key bindings inside the settings form
type FormKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Accept key.Binding
}

// DefaultFormKeyMap returns the default settings form key bindings
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("S-tab/↑", "previous field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		Accept: key.NewBinding(
			key.WithKeys("right", "ctrl+f"),
			key.WithHelp("→", "accept suggestion"),
		),
	}
}

// AuthKeyMap defines key bindings inside the authorization panel
type AuthKeyMap struct {
	Submit key.Binding
}

// DefaultAuthKeyMap returns the default authorization panel key bindings
func DefaultAuthKeyMap() AuthKeyMap {
	return AuthKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit code"),
		),
	}
}

// Global key maps for components
var (
	FormKeys = DefaultFormKeyMap()
	AuthKeys = DefaultAuthKeyMap()
)
