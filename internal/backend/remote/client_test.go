package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minevcs/minevcs/internal/backend/local"
	"github.com/minevcs/minevcs/internal/backend/server"
	"github.com/minevcs/minevcs/internal/domain"
	"github.com/minevcs/minevcs/internal/store"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type memAuth struct{ token bool }

func (a *memAuth) HasToken() (bool, error) { return a.token, nil }

func (a *memAuth) AuthCodeURL() (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=state-token", nil
}

func (a *memAuth) Exchange(ctx context.Context, code string) error {
	if code != "4/abc" {
		return errors.New("oauth2: invalid_grant")
	}
	a.token = true
	return nil
}

func (a *memAuth) Client(ctx context.Context) (*http.Client, error) {
	if !a.token {
		return nil, domain.ErrNotAuthenticated
	}
	return http.DefaultClient, nil
}

type daemon struct {
	client  *Client
	backend *local.Backend
	fs      afero.Fs
}

func startDaemon(t *testing.T, token string) *daemon {
	t.Helper()
	st, err := store.NewSettingsStore("", nil)
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	backend := local.New(local.Options{
		Settings: st,
		Auth:     &memAuth{},
		Index: func(ctx context.Context, client *http.Client) (local.RemoteIndex, error) {
			return nil, errors.New("no drive in tests")
		},
		Fs:   fs,
		Home: "/home/steve",
	})

	srv := httptest.NewServer(server.NewRouter(backend, token, nil))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, token)
	require.NoError(t, err)
	return &daemon{client: client, backend: backend, fs: fs}
}

func TestClient_AuthFlow(t *testing.T) {
	d := startDaemon(t, "")
	ctx := t.Context()

	ok, err := d.client.CheckAuthenticated(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	url, err := d.client.GoogleAuth(ctx)
	require.NoError(t, err)
	require.Contains(t, url, "state=state-token")

	err = d.client.UserAuthCode(ctx, "")
	require.ErrorIs(t, err, domain.ErrEmptyCode)

	err = d.client.UserAuthCode(ctx, "4/expired")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Message, "invalid_grant")

	require.NoError(t, d.client.UserAuthCode(ctx, "4/abc"))
	ok, err = d.client.CheckAuthenticated(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestClient_Settings(t *testing.T) {
	d := startDaemon(t, "")
	ctx := t.Context()

	got, err := d.client.GetUserData(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	err = d.client.SaveUserData(ctx, domain.Settings{WorldName: "Survival"})
	require.ErrorIs(t, err, domain.ErrIncompleteSettings)

	want := domain.Settings{LauncherPath: "/opt/l", SaveDirectory: ".minecraft/saves", WorldName: "Survival"}
	require.NoError(t, d.client.SaveUserData(ctx, want))

	got, err = d.client.GetUserData(ctx)
	require.NoError(t, err)
	require.Equal(t, &want, got)
}

func TestClient_Worlds(t *testing.T) {
	d := startDaemon(t, "")
	require.NoError(t, d.fs.MkdirAll("/home/steve/.minecraft/saves/Survival", 0o755))
	require.NoError(t, d.fs.MkdirAll("/home/steve/.minecraft/saves/Creative", 0o755))

	worlds, err := d.client.GetWorlds(t.Context(), ".minecraft/saves")
	require.NoError(t, err)
	require.Equal(t, []string{"Creative", "Survival"}, worlds)

	worlds, err = d.client.GetWorlds(t.Context(), "/bad/path")
	require.NoError(t, err)
	require.NotNil(t, worlds)
	require.Empty(t, worlds)
}

func TestClient_PushIfAheadCarriesSentinel(t *testing.T) {
	d := startDaemon(t, "")

	err := d.client.PushIfAhead(t.Context())
	require.ErrorIs(t, err, domain.ErrNotConfigured)
}

func TestClient_Unauthorized(t *testing.T) {
	d := startDaemon(t, "secret")
	wrong, err := NewClient(d.client.baseURL.String(), "nope")
	require.NoError(t, err)

	_, err = wrong.CheckAuthenticated(t.Context())
	require.True(t, IsUnauthorized(err))

	_, err = wrong.SubscribeLogs(t.Context())
	require.True(t, IsUnauthorized(err))

	_, err = d.client.CheckAuthenticated(t.Context())
	require.NoError(t, err)
}

func TestClient_LogStream(t *testing.T) {
	d := startDaemon(t, "secret")
	d.backend.Emitter().Emit("backlog line")

	sub, err := d.client.SubscribeLogs(t.Context())
	require.NoError(t, err)

	require.Contains(t, receive(t, sub), "backlog line")

	require.NoError(t, d.client.SaveUserData(t.Context(), domain.Settings{
		LauncherPath: "/opt/l", SaveDirectory: "saves", WorldName: "Survival",
	}))
	require.Contains(t, receive(t, sub), "Saving user data locally...")
	require.Contains(t, receive(t, sub), "User data saved successfully")

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	for range sub.Lines() {
	}
}

func receive(t *testing.T, sub domain.Subscription) string {
	t.Helper()
	select {
	case line, ok := <-sub.Lines():
		require.True(t, ok)
		return line
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for log line")
		return ""
	}
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("127.0.0.1:7878")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:7878", u.String())

	u, err = parseBaseURL("https://sync.example.com/minevcs/")
	require.NoError(t, err)
	require.Equal(t, "/minevcs", u.Path)

	_, err = parseBaseURL("")
	require.Error(t, err)

	_, err = parseBaseURL("ftp://x")
	require.Error(t, err)
}
