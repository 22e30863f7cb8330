package session

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
)

// CheckAuthenticated asks the backend whether a credential is stored.
func (s *Session) CheckAuthenticated() tea.Cmd {
	backend, ctx := s.backend, s.ctx
	return func() tea.Msg {
		ok, err := backend.CheckAuthenticated(ctx)
		return AuthCheckedMsg{Authenticated: ok, Err: err}
	}
}

func (s *Session) applyAuthChecked(msg AuthCheckedMsg) {
	if msg.Err != nil {
		// Treated as unauthenticated; the user can still authorize.
		s.logger.Warn("credential check failed", "error", msg.Err)
		return
	}
	// A redemption may have completed first; a stale "false" must not undo it.
	if msg.Authenticated {
		s.authenticated = true
	}
}

// BeginAuthorization requests the authorization URL and hands it to the
// browser opener. Code entry opens once the URL arrives.
func (s *Session) BeginAuthorization() tea.Cmd {
	backend, opener, ctx := s.backend, s.opener, s.ctx
	return func() tea.Msg {
		url, err := backend.GoogleAuth(ctx)
		if err != nil {
			return AuthURLMsg{Err: err}
		}
		if strings.TrimSpace(url) == "" {
			return AuthURLMsg{Err: domain.ErrNoAuthURL}
		}
		var openErr error
		if opener != nil {
			openErr = opener.Open(url)
		}
		return AuthURLMsg{URL: url, OpenErr: openErr}
	}
}

func (s *Session) applyAuthURL(msg AuthURLMsg) {
	if msg.Err != nil {
		s.authErr = &domain.AuthError{Err: msg.Err}
		s.logger.Warn("authorization URL request failed", "error", msg.Err)
		return
	}
	s.authURL = msg.URL
	s.authFlowPending = true
	s.authErr = nil
	if msg.OpenErr != nil {
		s.logger.Warn("could not open browser", "error", msg.OpenErr)
		s.note("Could not open a browser, open the authorization link manually")
	}
}

// RedeemCode exchanges an authorization code for a credential. A blank code
// is rejected here without a backend call, as is a second redemption while
// one is outstanding. The code itself is held only by the returned command.
func (s *Session) RedeemCode(code string) (tea.Cmd, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		err := &domain.AuthError{Err: domain.ErrEmptyCode}
		s.authErr = err
		return nil, err
	}
	if s.redeeming {
		return nil, &domain.AuthError{Err: domain.ErrRedeemInFlight}
	}
	s.redeeming = true

	backend, ctx := s.backend, s.ctx
	return func() tea.Msg {
		return CodeRedeemedMsg{Err: backend.UserAuthCode(ctx, code)}
	}, nil
}

func (s *Session) applyCodeRedeemed(msg CodeRedeemedMsg) {
	s.redeeming = false
	if msg.Err != nil {
		s.authErr = &domain.AuthError{Err: msg.Err}
		s.logger.Info("authorization code rejected", "error", msg.Err)
		return
	}
	if !s.authenticated {
		s.authenticated = true
		s.logger.Info("authenticated with Google Drive")
		s.note("Authorized Google Drive access ✅")
	}
	s.authFlowPending = false
	s.authURL = ""
	s.authErr = nil
}

// Authenticated reports whether the session holds a valid credential.
func (s *Session) Authenticated() bool { return s.authenticated }

// AuthFlowPending reports whether code entry is open.
func (s *Session) AuthFlowPending() bool { return s.authFlowPending }

// AuthURL returns the authorization URL while code entry is open.
func (s *Session) AuthURL() string { return s.authURL }

// AuthErr returns the last authorization error, for inline display.
func (s *Session) AuthErr() error { return s.authErr }

// Redeeming reports whether a code redemption is awaiting the backend.
func (s *Session) Redeeming() bool { return s.redeeming }

// AuthState names the tracker's state for display and logging.
func (s *Session) AuthState() string {
	switch {
	case s.authenticated:
		return "authenticated"
	case s.authFlowPending:
		return "code pending"
	default:
		return "unauthenticated"
	}
}
