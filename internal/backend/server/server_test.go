package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minevcs/minevcs/internal/backend/wire"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	settings *domain.Settings
	saved    []domain.Settings
	saveErr  error
	pushErr  error
	codes    []string
	worlds   []string
	dirs     []string
	lines    chan string
}

func (b *stubBackend) CheckAuthenticated(ctx context.Context) (bool, error) { return true, nil }

func (b *stubBackend) GoogleAuth(ctx context.Context) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth", nil
}

func (b *stubBackend) UserAuthCode(ctx context.Context, code string) error {
	b.codes = append(b.codes, code)
	if code == "" {
		return domain.ErrEmptyCode
	}
	return nil
}

func (b *stubBackend) GetUserData(ctx context.Context) (*domain.Settings, error) {
	return b.settings, nil
}

func (b *stubBackend) SaveUserData(ctx context.Context, s domain.Settings) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, s)
	return nil
}

func (b *stubBackend) GetWorlds(ctx context.Context, dir string) ([]string, error) {
	b.dirs = append(b.dirs, dir)
	return b.worlds, nil
}

func (b *stubBackend) PushIfAhead(ctx context.Context) error { return b.pushErr }

func (b *stubBackend) SubscribeLogs(ctx context.Context) (domain.Subscription, error) {
	return &chanSub{lines: b.lines}, nil
}

type chanSub struct{ lines chan string }

func (s *chanSub) Lines() <-chan string { return s.lines }
func (s *chanSub) Close() error         { return nil }

func newServer(t *testing.T, b *stubBackend, token string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(b, token, nil))
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthSkipsAuth(t *testing.T) {
	srv := newServer(t, &stubBackend{}, "secret")

	resp := request(t, http.MethodGet, srv.URL+wire.PathHealth, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decode[wire.HealthResponse](t, resp).Status)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestBearerAuth(t *testing.T) {
	srv := newServer(t, &stubBackend{}, "secret")

	resp := request(t, http.MethodGet, srv.URL+wire.PathAuthStatus, "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, http.MethodGet, srv.URL+wire.PathAuthStatus, "wrong", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = request(t, http.MethodGet, srv.URL+wire.PathAuthStatus, "secret", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decode[wire.AuthStatus](t, resp).Authenticated)
}

func TestSettingsAbsentIsNoContent(t *testing.T) {
	srv := newServer(t, &stubBackend{}, "")

	resp := request(t, http.MethodGet, srv.URL+wire.PathSettings, "", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSettingsPutAndGet(t *testing.T) {
	b := &stubBackend{}
	srv := newServer(t, b, "")

	body := `{"minecraftLauncher":"/opt/l","minecraftDirectory":"saves","worldName":"Survival"}`
	resp := request(t, http.MethodPut, srv.URL+wire.PathSettings, "", body)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, []domain.Settings{{LauncherPath: "/opt/l", SaveDirectory: "saves", WorldName: "Survival"}}, b.saved)

	b.settings = &b.saved[0]
	resp = request(t, http.MethodGet, srv.URL+wire.PathSettings, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, b.saved[0], decode[domain.Settings](t, resp))
}

func TestSettingsPutRejected(t *testing.T) {
	b := &stubBackend{saveErr: domain.ErrIncompleteSettings}
	srv := newServer(t, b, "")

	resp := request(t, http.MethodPut, srv.URL+wire.PathSettings, "", `{"worldName":"x"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "incomplete_settings", decode[wire.ErrorResponse](t, resp).Code)

	resp = request(t, http.MethodPut, srv.URL+wire.PathSettings, "", `{not json`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWorldsPassesDirectory(t *testing.T) {
	b := &stubBackend{}
	srv := newServer(t, b, "")

	resp := request(t, http.MethodGet, srv.URL+wire.PathWorlds+"?dir=.minecraft%2Fsaves", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[wire.WorldsResponse](t, resp)
	require.NotNil(t, got.Worlds)
	require.Empty(t, got.Worlds)
	require.Equal(t, []string{".minecraft/saves"}, b.dirs)
}

func TestAuthCode(t *testing.T) {
	b := &stubBackend{}
	srv := newServer(t, b, "")

	resp := request(t, http.MethodPost, srv.URL+wire.PathAuthCode, "", `{"code":"4/abc"}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = request(t, http.MethodPost, srv.URL+wire.PathAuthCode, "", `{"code":""}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, []string{"4/abc", ""}, b.codes)
}

func TestPushIfAheadStatuses(t *testing.T) {
	cases := map[error]int{
		nil:                             http.StatusNoContent,
		domain.ErrNotAuthenticated:      http.StatusForbidden,
		domain.ErrNotConfigured:         http.StatusPreconditionFailed,
		domain.ErrSyncEngineUnavailable: http.StatusNotImplemented,
		errors.New("drive is down"):     http.StatusBadGateway,
	}
	for pushErr, status := range cases {
		srv := newServer(t, &stubBackend{pushErr: pushErr}, "")

		resp := request(t, http.MethodPost, srv.URL+wire.PathPushIfAhead, "", "")
		require.Equal(t, status, resp.StatusCode, "%v", pushErr)
	}
}

func TestEventsStreamLines(t *testing.T) {
	b := &stubBackend{lines: make(chan string, 2)}
	srv := newServer(t, b, "secret")
	b.lines <- "[10:00:00] one"
	b.lines <- "[10:00:01] two"

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + wire.PathEvents
	header := http.Header{"Authorization": {"Bearer secret"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for _, want := range []string{"[10:00:00] one", "[10:00:01] two"} {
		kind, data, err := conn.ReadMessage()
		require.NoError(t, err)
		require.Equal(t, websocket.TextMessage, kind)
		require.Equal(t, want, string(data))
	}

	close(b.lines)
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestEventsRequiresToken(t *testing.T) {
	srv := newServer(t, &stubBackend{lines: make(chan string)}, "secret")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + wire.PathEvents
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
