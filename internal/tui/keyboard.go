package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		m.Session.Close()
		return m, tea.Quit

	case key.Matches(msg, Keys.Save):
		cmds = append(cmds, m.save())
		cmds = append(cmds, m.sync())
		m.updateLayout()
		return m, tea.Batch(cmds...)

	case key.Matches(msg, Keys.Authorize):
		if m.Session.Authenticated() {
			return m, m.setStatus("Google Drive is already connected", false)
		}
		return m, m.Session.BeginAuthorization()

	case key.Matches(msg, Keys.NextPane):
		return m, m.focusPane(m.nextPane())

	case key.Matches(msg, Keys.Escape):
		return m, m.focusPane(PaneSettings)

	case key.Matches(msg, Keys.PageUp, Keys.PageDown):
		var cmd tea.Cmd
		m.Logs, cmd = m.Logs.Scroll(msg)
		return m, cmd
	}

	// Pane keys
	switch m.Focus {
	case PaneSettings:
		var cmd tea.Cmd
		var ev components.FormEvent
		m.Form, cmd, ev = m.Form.Update(msg)
		cmds = append(cmds, cmd, m.applyCommit(ev.Commit))
		if ev.Submit {
			cmds = append(cmds, m.save())
		}

	case PaneAuth:
		var cmd tea.Cmd
		var submitted bool
		m.Auth, cmd, submitted = m.Auth.Update(msg)
		cmds = append(cmds, cmd)
		if submitted {
			cmds = append(cmds, m.redeem())
		}

	case PaneLogs:
		var cmd tea.Cmd
		m.Logs, cmd = m.Logs.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.sync())
	m.updateLayout()
	return m, tea.Batch(cmds...)
}

// nextPane cycles focus, skipping code entry when no flow is open
func (m Model) nextPane() Pane {
	switch m.Focus {
	case PaneSettings:
		if m.Session.AuthFlowPending() {
			return PaneAuth
		}
		return PaneLogs
	case PaneAuth:
		return PaneLogs
	default:
		return PaneSettings
	}
}
