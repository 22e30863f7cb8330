package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/minevcs/minevcs/internal/backend/wire"
	"github.com/minevcs/minevcs/internal/domain"
)

// SubscribeLogs opens the daemon's WebSocket log stream.
func (c *Client) SubscribeLogs(ctx context.Context) (domain.Subscription, error) {
	u := c.resolve(&url.URL{Path: wire.PathEvents})
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}

	header := http.Header{}
	header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, readAPIError(resp)
		}
		return nil, fmt.Errorf("dial log stream: %w", err)
	}

	sub := &stream{
		conn:  conn,
		lines: make(chan string, 64),
		done:  make(chan struct{}),
	}
	sub.wg.Add(1)
	go sub.read()
	return sub, nil
}

// stream adapts a WebSocket connection to domain.Subscription.
type stream struct {
	conn  *websocket.Conn
	lines chan string
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

func (s *stream) Lines() <-chan string { return s.lines }

func (s *stream) read() {
	defer s.wg.Done()
	defer close(s.lines)
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		select {
		case s.lines <- string(data):
		case <-s.done:
			return
		}
	}
}

// Close ends the stream and waits for the reader to exit.
func (s *stream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err = s.conn.Close()
		s.wg.Wait()
	})
	return err
}
