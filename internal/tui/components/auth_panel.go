package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minevcs/minevcs/internal/tui/styles"
	qrcode "github.com/skip2/go-qrcode"
)

// AuthStatus is what the panel needs to know about the session's auth state
type AuthStatus struct {
	Authenticated bool
	Pending       bool
	Redeeming     bool
	URL           string
	Err           error
}

// AuthPanel shows the authorization link and takes the code the user pastes back
type AuthPanel struct {
	status  AuthStatus
	input   textinput.Model
	focused bool
	qr      string
	qrFor   string
}

// NewAuthPanel creates a new auth panel
func NewAuthPanel() AuthPanel {
	ti := textinput.New()
	ti.Placeholder = "Paste authorization code..."
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "› "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return AuthPanel{input: ti}
}

// SetStatus refreshes the panel from the session
func (p *AuthPanel) SetStatus(st AuthStatus) {
	if st.URL != p.qrFor {
		p.qrFor = st.URL
		p.qr = renderQR(st.URL)
	}
	// A finished redemption consumes the code whether or not it was accepted.
	if p.status.Pending && !st.Pending || p.status.Redeeming && !st.Redeeming {
		p.Reset()
	}
	p.status = st
}

// renderQR draws url as a half-block QR code, or returns "" if it cannot
func renderQR(url string) string {
	if url == "" {
		return ""
	}
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return ""
	}
	return strings.TrimRight(q.ToSmallString(false), "\n")
}

// Focus puts the cursor in the code field
func (p *AuthPanel) Focus() tea.Cmd {
	p.focused = true
	return p.input.Focus()
}

// Blur removes the cursor from the code field
func (p *AuthPanel) Blur() {
	p.focused = false
	p.input.Blur()
}

// Focused reports whether the code field has the cursor
func (p AuthPanel) Focused() bool {
	return p.focused
}

// Pending reports whether the last status had code entry open
func (p AuthPanel) Pending() bool {
	return p.status.Pending
}

// Value returns the typed code
func (p AuthPanel) Value() string {
	return p.input.Value()
}

// Reset clears the typed code
func (p *AuthPanel) Reset() {
	p.input.SetValue("")
}

// Update handles input events, returns (panel, cmd, submitted)
func (p AuthPanel) Update(msg tea.Msg) (AuthPanel, tea.Cmd, bool) {
	if !p.focused || !p.status.Pending {
		return p, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, AuthKeys.Submit) {
		return p, nil, true
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

// View renders the panel
func (p AuthPanel) View(width int) string {
	switch {
	case p.status.Authenticated:
		return styles.SuccessStyle.Render("✓ Google Drive connected")
	case !p.status.Pending:
		lines := []string{styles.WarningStyle.Render("Google Drive not connected")}
		if p.status.Err != nil {
			lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(p.status.Err.Error(), width)))
		}
		lines = append(lines, styles.DimStyle.Render("press ctrl+o to authorize"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines := []string{
		styles.TitleStyle.Render("Authorize Google Drive"),
		styles.DimStyle.Render("Open this link, approve access, then paste the code below:"),
		styles.AccentStyle.Render(p.status.URL),
	}
	if p.qr != "" && lipgloss.Width(p.qr) <= width {
		lines = append(lines, p.qr)
	}

	in := p.input
	in.Width = max(width-4, 10)
	lines = append(lines, in.View())

	switch {
	case p.status.Redeeming:
		lines = append(lines, styles.PendingBadgeStyle.Render("verifying..."))
	case p.status.Err != nil:
		lines = append(lines, styles.ErrorStyle.Render(styles.Truncate(p.status.Err.Error(), width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
