package tui

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	// Border adds 1 char on each side, padding 1 more horizontally
	BorderWidth  = 2
	BorderHeight = 2
	PaddingWidth = 2

	// Header and footer lines
	ChromeHeight = 2

	MinLogHeight = 3
	MinPaneWidth = 20
)

// innerWidth is the content width of a full-width pane
func (m Model) innerWidth() int {
	return max(m.Width-BorderWidth-PaddingWidth, MinPaneWidth)
}

// updateLayout sizes the log pane to whatever the other panes leave over
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}
	used := ChromeHeight +
		lipgloss.Height(m.renderSettingsPane()) +
		lipgloss.Height(m.renderAuthPane()) +
		BorderHeight
	m.Logs.SetSize(m.innerWidth(), max(m.Height-used, MinLogHeight))
}
