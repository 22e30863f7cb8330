package session

import (
	"context"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/history"
)

// LogSubscriber owns the session's single registration on the backend log
// stream and appends every received line to the bounded history.
type LogSubscriber struct {
	history *history.History
	sub     domain.Subscription
	closed  bool
	logger  *slog.Logger
}

// NewLogSubscriber creates a subscriber that writes into h.
func NewLogSubscriber(h *history.History, logger *slog.Logger) *LogSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSubscriber{history: h, logger: logger}
}

// attach adopts sub as the session's listener and returns the command that
// waits for its first line. A second stream, or one arriving after teardown,
// is closed immediately.
func (l *LogSubscriber) attach(sub domain.Subscription) tea.Cmd {
	if l.closed || l.sub != nil {
		l.logger.Debug("discarding extra log subscription", "closed", l.closed)
		_ = sub.Close()
		return nil
	}
	l.sub = sub
	return waitForLine(sub)
}

// handle appends a received line and re-arms the listener.
func (l *LogSubscriber) handle(msg LogLineMsg) tea.Cmd {
	if msg.sub == nil || msg.sub != l.sub {
		return nil
	}
	l.history.Append(msg.Line)
	return waitForLine(l.sub)
}

func (l *LogSubscriber) ended(msg LogStreamClosedMsg) {
	if msg.sub != nil && msg.sub == l.sub {
		l.logger.Info("backend closed the log stream")
		l.sub = nil
	}
}

// Append records a line produced by the session itself.
func (l *LogSubscriber) Append(line string) {
	l.history.Append(line)
}

// Lines returns the retained history, oldest first.
func (l *LogSubscriber) Lines() []string {
	return l.history.Lines()
}

// Active reports whether a stream is attached.
func (l *LogSubscriber) Active() bool {
	return l.sub != nil
}

// Unsubscribe disposes the stream. Later calls are no-ops.
func (l *LogSubscriber) Unsubscribe() {
	if l.closed {
		return
	}
	l.closed = true
	if l.sub != nil {
		if err := l.sub.Close(); err != nil {
			l.logger.Warn("closing log subscription", "error", err)
		}
		l.sub = nil
	}
}

func waitForLine(sub domain.Subscription) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-sub.Lines()
		if !ok {
			return LogStreamClosedMsg{sub: sub}
		}
		return LogLineMsg{Line: line, sub: sub}
	}
}

// Subscribe registers onEvent on the backend's log stream outside of a
// Session, calling it from a background goroutine for every line. The returned
// function unsubscribes and waits for the goroutine to exit.
func Subscribe(ctx context.Context, backend domain.Backend, onEvent func(line string)) (func(), error) {
	sub, err := backend.SubscribeLogs(ctx)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for line := range sub.Lines() {
			onEvent(line)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = sub.Close()
			wg.Wait()
		})
	}, nil
}
