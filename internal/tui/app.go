package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/session"
	"github.com/minevcs/minevcs/internal/tui/components"
)

// Pane identifies the part of the screen that receives keys
type Pane int

const (
	PaneSettings Pane = iota
	PaneAuth
	PaneLogs
)

const (
	tickInterval  = 100 * time.Millisecond
	statusTimeout = 4 * time.Second
)

// Model is the main Bubble Tea model for the application. It renders the
// session and forwards user intent to it; the session owns all state that
// outlives a keystroke.
type Model struct {
	Session *session.Session

	// UI Components
	Form components.SettingsForm
	Auth components.AuthPanel
	Logs components.LogView

	Focus Pane
	Ready bool

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	statusSeq    int
	SpinnerFrame int

	// last session form pushed into the settings form
	shownForm domain.Settings
}

// NewModel creates a new application model around sess
func NewModel(sess *session.Session) Model {
	m := Model{
		Session: sess,
		Form:    components.NewSettingsForm(),
		Auth:    components.NewAuthPanel(),
		Logs:    components.NewLogView(),
		Focus:   PaneSettings,
	}
	m.Form.Activate()
	return m
}

// Init starts the session and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Session.Init(),
		TickCmd(tickInterval),
		textinput.Blink,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case ClearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.StatusMsg = ""
			m.StatusIsErr = false
		}
		return m, nil
	}

	// Everything else is either a session result or a component tick
	var cmds []tea.Cmd
	cmds = append(cmds, m.Session.Update(msg))

	switch msg := msg.(type) {
	case session.SettingsSavedMsg:
		if msg.Err != nil {
			cmds = append(cmds, m.setStatus("Save failed: "+msg.Err.Error(), true))
		} else {
			cmds = append(cmds, m.setStatus("Settings saved", false))
		}
	case session.CodeRedeemedMsg:
		if msg.Err == nil {
			cmds = append(cmds, m.setStatus("Google Drive connected", false))
		}
	}

	var cmd tea.Cmd
	switch m.Focus {
	case PaneSettings:
		m.Form, cmd, _ = m.Form.Update(msg)
	case PaneAuth:
		m.Auth, cmd, _ = m.Auth.Update(msg)
	}
	cmds = append(cmds, cmd)

	cmds = append(cmds, m.sync())
	m.updateLayout()
	return m, tea.Batch(cmds...)
}

// sync pulls session state into the components
func (m *Model) sync() tea.Cmd {
	s := m.Session

	if form := s.Form(); form != m.shownForm {
		m.Form.SetValues(form)
		m.shownForm = form
	}
	m.Form.SetWorlds(s.Worlds())
	m.Logs.SetLines(s.LogLines())

	wasPending := m.Auth.Pending()
	m.Auth.SetStatus(components.AuthStatus{
		Authenticated: s.Authenticated(),
		Pending:       s.AuthFlowPending(),
		Redeeming:     s.Redeeming(),
		URL:           s.AuthURL(),
		Err:           s.AuthErr(),
	})

	switch {
	case !wasPending && s.AuthFlowPending():
		return m.focusPane(PaneAuth)
	case wasPending && !s.AuthFlowPending() && m.Focus == PaneAuth:
		return m.focusPane(PaneSettings)
	}
	return nil
}

// focusPane moves keyboard focus, settling the settings form when it loses focus
func (m *Model) focusPane(p Pane) tea.Cmd {
	if p == m.Focus {
		return nil
	}
	var cmds []tea.Cmd
	switch m.Focus {
	case PaneSettings:
		cmds = append(cmds, m.applyCommit(m.Form.Deactivate()))
	case PaneAuth:
		m.Auth.Blur()
	case PaneLogs:
		m.Logs.SetFocused(false)
	}

	m.Focus = p
	switch p {
	case PaneSettings:
		cmds = append(cmds, m.Form.Activate())
	case PaneAuth:
		cmds = append(cmds, m.Auth.Focus())
	case PaneLogs:
		m.Logs.SetFocused(true)
	}
	return tea.Batch(cmds...)
}

// applyCommit hands a settled field value to the session
func (m *Model) applyCommit(c *components.FieldCommit) tea.Cmd {
	if c == nil {
		return nil
	}
	var cmd tea.Cmd
	switch c.Field {
	case components.FieldLauncher:
		m.Session.SetLauncherPath(c.Value)
	case components.FieldSaveDirectory:
		cmd = m.Session.SetSaveDirectory(c.Value)
	case components.FieldWorld:
		cmd = m.Session.SetWorldName(c.Value)
	}
	m.shownForm = m.Session.Form()
	return cmd
}

// save settles every field and submits the form
func (m *Model) save() tea.Cmd {
	var cmds []tea.Cmd
	for _, c := range m.Form.CommitAll() {
		cmds = append(cmds, m.applyCommit(&c))
	}
	cmd, err := m.Session.SaveForm()
	if err != nil {
		msg := "Cannot save: " + err.Error()
		if errors.Is(err, domain.ErrIncompleteSettings) {
			msg = "Fill in launcher path, save directory and world before saving"
		}
		return tea.Batch(append(cmds, m.setStatus(msg, true))...)
	}
	return tea.Batch(append(cmds, cmd, m.setStatus("Saving settings...", false))...)
}

// redeem submits the typed authorization code
func (m *Model) redeem() tea.Cmd {
	cmd, err := m.Session.RedeemCode(m.Auth.Value())
	if err != nil {
		if errors.Is(err, domain.ErrRedeemInFlight) {
			return nil
		}
		return m.setStatus(err.Error(), true)
	}
	return cmd
}

// setStatus shows a footer message and schedules its removal
func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.statusSeq++
	m.StatusMsg = msg
	m.StatusIsErr = isErr
	return ClearStatusCmd(m.statusSeq, statusTimeout)
}
