package local

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/history"
)

// subscriberBuffer bounds how far a slow subscriber may fall behind before
// lines are dropped for it. It must hold a full backlog replay.
const subscriberBuffer = 2 * history.DefaultCapacity

// Emitter timestamps status lines and fans them out to every subscriber. New
// subscribers first receive the retained backlog.
type Emitter struct {
	mu      sync.Mutex
	backlog *history.History
	subs    map[*subscription]struct{}
	now     func() time.Time
	logger  *slog.Logger
}

// NewEmitter creates an Emitter retaining the last history.DefaultCapacity lines.
func NewEmitter(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{
		backlog: history.New(history.DefaultCapacity),
		subs:    make(map[*subscription]struct{}),
		now:     time.Now,
		logger:  logger,
	}
}

// Emit publishes msg as "[15:04:05] msg".
func (e *Emitter) Emit(msg string) {
	e.logger.Info(msg)

	e.mu.Lock()
	defer e.mu.Unlock()

	line := fmt.Sprintf("[%s] %s", e.now().Format("15:04:05"), msg)
	e.backlog.Append(line)
	for sub := range e.subs {
		select {
		case sub.lines <- line:
		default:
			e.logger.Debug("dropping log line for slow subscriber")
		}
	}
}

// Emitf is Emit with formatting.
func (e *Emitter) Emitf(format string, args ...any) {
	e.Emit(fmt.Sprintf(format, args...))
}

// Subscribe registers a new listener.
func (e *Emitter) Subscribe() domain.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()

	sub := &subscription{emitter: e, lines: make(chan string, subscriberBuffer)}
	for _, line := range e.backlog.Lines() {
		sub.lines <- line
	}
	e.subs[sub] = struct{}{}
	return sub
}

// Subscribers returns the number of open subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}

type subscription struct {
	emitter *Emitter
	lines   chan string
	closed  bool // guarded by emitter.mu
}

func (s *subscription) Lines() <-chan string { return s.lines }

func (s *subscription) Close() error {
	s.emitter.mu.Lock()
	defer s.emitter.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	delete(s.emitter.subs, s)
	close(s.lines)
	return nil
}
