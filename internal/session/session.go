// Package session coordinates the presentation layer with a backend: it tracks
// authentication, orchestrates settings load and save, keeps the bounded log
// history, and runs the pre-sync guard.
//
// Backend calls run as Bubble Tea commands. Their results come back as
// messages and are applied by Update, so every mutation of a Session happens
// on the program's update loop and the type needs no locking.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/history"
)

// Opener hands a URL to the system's default browser.
type Opener interface {
	Open(url string) error
}

// Session is the root aggregate observed by the presentation layer.
type Session struct {
	backend domain.Backend
	opener  Opener
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	now     func() time.Time

	// Authentication
	authenticated   bool
	authFlowPending bool
	authURL         string
	authErr         error
	redeeming       bool

	// Settings
	settings *domain.Settings
	form     domain.Settings
	worlds   []string
	loaded   bool
	loadErr  error
	storeErr error
	saving   bool

	// Pre-sync guard
	guard         Guard
	guardBasis    domain.SyncTarget // persisted target the backend checked on the latest run
	guardSeq      int
	guardErr      error
	guardInFlight int

	logs *LogSubscriber
}

// New creates a Session. logCapacity bounds the log history; zero uses the default.
func New(backend domain.Backend, opener Opener, logger *slog.Logger, logCapacity int) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		backend: backend,
		opener:  opener,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		now:     time.Now,
		logs:    NewLogSubscriber(history.New(logCapacity), logger),
	}
}

// Init issues the startup calls concurrently: credential check, settings
// load and log subscription.
func (s *Session) Init() tea.Cmd {
	return tea.Batch(
		s.CheckAuthenticated(),
		s.Load(),
		s.SubscribeLogs(),
	)
}

// Update applies a command result and returns any follow-up command.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case AuthCheckedMsg:
		s.applyAuthChecked(msg)
	case AuthURLMsg:
		s.applyAuthURL(msg)
	case CodeRedeemedMsg:
		s.applyCodeRedeemed(msg)
	case SettingsLoadedMsg:
		return s.applySettingsLoaded(msg)
	case SettingsSavedMsg:
		return s.applySettingsSaved(msg)
	case WorldsListedMsg:
		s.applyWorldsListed(msg)
	case GuardCheckedMsg:
		s.applyGuardChecked(msg)
	case LogSubscribedMsg:
		return s.applyLogSubscribed(msg)
	case LogLineMsg:
		return s.logs.handle(msg)
	case LogStreamClosedMsg:
		s.logs.ended(msg)
	}
	return nil
}

// Run executes cmd and all follow-up commands on the calling goroutine,
// applying each result. It is meant for headless flows and tests; it must not
// be handed the log listener, which blocks until the backend pushes a line.
func (s *Session) Run(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg := next()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		queue = append(queue, s.Update(msg))
	}
}

// Close disposes the log subscription and cancels outstanding backend calls.
// It is safe to call more than once.
func (s *Session) Close() {
	s.logs.Unsubscribe()
	s.cancel()
}

// SubscribeLogs opens the backend log stream.
func (s *Session) SubscribeLogs() tea.Cmd {
	backend, ctx := s.backend, s.ctx
	return func() tea.Msg {
		sub, err := backend.SubscribeLogs(ctx)
		return LogSubscribedMsg{Sub: sub, Err: err}
	}
}

func (s *Session) applyLogSubscribed(msg LogSubscribedMsg) tea.Cmd {
	if msg.Err != nil {
		s.logger.Warn("log subscription failed", "error", msg.Err)
		s.note(fmt.Sprintf("Could not follow backend logs: %v ❌", msg.Err))
		return nil
	}
	if msg.Sub == nil {
		return nil
	}
	return s.logs.attach(msg.Sub)
}

// note appends a session-originated line in the backend's "[15:04:05] msg" format.
func (s *Session) note(msg string) {
	s.logs.Append(fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), msg))
}

// LogLines returns the bounded log history, oldest first.
func (s *Session) LogLines() []string { return s.logs.Lines() }

// Following reports whether the backend log stream is attached.
func (s *Session) Following() bool { return s.logs.Active() }
