package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/tui/styles"
)

// LogView is a scrollable view of the session's log lines. It sticks to the
// newest line until the user scrolls up, and resumes once they scroll back down.
type LogView struct {
	vp      viewport.Model
	lines   []string
	follow  bool
	focused bool
}

// NewLogView creates an empty log view
func NewLogView() LogView {
	return LogView{vp: viewport.New(0, 0), follow: true}
}

// SetSize resizes the view
func (l *LogView) SetSize(width, height int) {
	l.vp.Width = max(width, 0)
	l.vp.Height = max(height, 0)
	l.render()
}

// SetLines replaces the displayed lines
func (l *LogView) SetLines(lines []string) {
	if equalLines(l.lines, lines) {
		return
	}
	l.lines = lines
	l.render()
}

// SetFocused marks whether scroll keys go to this view
func (l *LogView) SetFocused(focused bool) {
	l.focused = focused
}

// Focused reports whether the view takes scroll keys
func (l LogView) Focused() bool {
	return l.focused
}

// Following reports whether the view tracks the newest line
func (l LogView) Following() bool {
	return l.follow
}

func (l *LogView) render() {
	if len(l.lines) == 0 {
		l.vp.SetContent(styles.DimStyle.Render("No log lines yet"))
		return
	}
	rendered := make([]string, len(l.lines))
	for i, line := range l.lines {
		rendered[i] = styleLine(styles.Truncate(line, l.vp.Width))
	}
	l.vp.SetContent(strings.Join(rendered, "\n"))
	if l.follow {
		l.vp.GotoBottom()
	}
}

// styleLine colors a line by the status glyph it ends with
func styleLine(line string) string {
	switch {
	case strings.HasSuffix(line, "❌"):
		return styles.ErrorStyle.Render(line)
	case strings.HasSuffix(line, "✅"):
		return styles.SuccessStyle.Render(line)
	case strings.HasSuffix(line, "⏳"):
		return styles.WarningStyle.Render(line)
	}
	return line
}

// Update handles scroll keys while focused
func (l LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	if !l.focused {
		return l, nil
	}
	return l.Scroll(msg)
}

// Scroll applies a scroll key regardless of focus
func (l LogView) Scroll(msg tea.Msg) (LogView, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "g", "home":
			l.vp.GotoTop()
			l.follow = l.vp.AtBottom()
			return l, nil
		case "G", "end":
			l.vp.GotoBottom()
			l.follow = true
			return l, nil
		}
	}
	var cmd tea.Cmd
	l.vp, cmd = l.vp.Update(msg)
	l.follow = l.vp.AtBottom()
	return l, cmd
}

// View renders the visible lines
func (l LogView) View() string {
	return l.vp.View()
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
