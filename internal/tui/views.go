package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/minevcs/minevcs/internal/tui/styles"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSettingsPane(),
		m.renderAuthPane(),
		m.renderLogsPane(),
		m.renderFooter(),
	)
}

// pane wraps content in a border that lights up when focused
func (m Model) pane(p Pane, title, content string) string {
	border := styles.InactiveBorder
	titleStyle := styles.SubtitleStyle
	if m.Focus == p {
		border = styles.ActiveBorder
		titleStyle = styles.AccentStyle.Bold(true)
	}
	body := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content)
	return border.
		Width(m.innerWidth() + PaddingWidth).
		Padding(0, 1).
		Render(body)
}

func (m Model) renderHeader() string {
	s := m.Session
	left := styles.TitleStyle.Render("⛏ minevcs")

	var badges []string
	switch {
	case s.Authenticated():
		badges = append(badges, styles.BadgeStyle.Render("drive connected"))
	case s.AuthFlowPending():
		badges = append(badges, styles.PendingBadgeStyle.Render("code pending"))
	default:
		badges = append(badges, styles.DimBadgeStyle.Render("drive not connected"))
	}
	if !s.Following() {
		badges = append(badges, styles.DimBadgeStyle.Render("logs offline"))
	}
	right := strings.Join(badges, " ")

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) renderSettingsPane() string {
	s := m.Session
	width := m.innerWidth()
	lines := []string{m.Form.View(width)}

	switch {
	case !s.Loaded():
		lines = append(lines, RenderSpinner(m.SpinnerFrame)+" "+styles.DimStyle.Render("Loading settings..."))
	case s.LoadErr() != nil:
		lines = append(lines, RenderError(s.LoadErr(), width))
	}
	if s.Saving() {
		lines = append(lines, RenderSpinner(m.SpinnerFrame)+" "+styles.DimStyle.Render("Saving..."))
	} else if err := s.StoreErr(); err != nil {
		lines = append(lines, RenderError(err, width))
	}
	if s.GuardPending() {
		lines = append(lines, RenderSpinner(m.SpinnerFrame)+" "+styles.DimStyle.Render("Checking world against Drive..."))
	} else if err := s.GuardErr(); err != nil {
		lines = append(lines, styles.WarningStyle.Render(styles.Truncate("Sync check: "+err.Error(), width)))
	}

	return m.pane(PaneSettings, "Settings", lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderAuthPane() string {
	return m.pane(PaneAuth, "Google Drive", m.Auth.View(m.innerWidth()))
}

func (m Model) renderLogsPane() string {
	title := "Logs"
	if !m.Logs.Following() {
		title += " (scrolled)"
	}
	return m.pane(PaneLogs, title, m.Logs.View())
}

// renderFooter renders a single-line footer: status on the left, key hints on the right
func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	var hints []string
	for _, b := range footerBindings() {
		h := b.Help()
		hints = append(hints, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// RenderError renders an error message
func RenderError(err error, width int) string {
	return styles.ErrorStyle.Render(styles.Truncate("Error: "+err.Error(), width))
}

