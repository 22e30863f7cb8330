// Package remote implements domain.Backend against a minevcsd daemon.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minevcs/minevcs/internal/backend/wire"
	"github.com/minevcs/minevcs/internal/domain"
)

// Client talks to the minevcsd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	dialer    *websocket.Dialer
	token     string
	userAgent string
}

// Ensure Client implements domain.Backend at compile time.
var _ domain.Backend = (*Client)(nil)

const (
	defaultUserAgent = "minevcs/0.1"
	requestTimeout   = 30 * time.Second
)

// APIError is a non-2xx answer from the daemon. It unwraps to the domain
// sentinel the daemon named, if any.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.Status)
	}
	return fmt.Sprintf("api returned status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return wire.SentinelFor(e.Code)
}

// NewClient builds a Client for the daemon at baseURL. token may be empty.
func NewClient(baseURL, token string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		dialer:    websocket.DefaultDialer,
		token:     token,
		userAgent: defaultUserAgent,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("backend url is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported backend url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// CheckAuthenticated retrieves the daemon's credential state.
func (c *Client) CheckAuthenticated(ctx context.Context) (bool, error) {
	var payload wire.AuthStatus
	if err := c.do(ctx, http.MethodGet, wire.PathAuthStatus, nil, &payload); err != nil {
		return false, err
	}
	return payload.Authenticated, nil
}

// GoogleAuth requests the consent URL.
func (c *Client) GoogleAuth(ctx context.Context) (string, error) {
	var payload wire.AuthURL
	if err := c.do(ctx, http.MethodPost, wire.PathAuthURL, nil, &payload); err != nil {
		return "", err
	}
	return payload.URL, nil
}

// UserAuthCode redeems an authorization code.
func (c *Client) UserAuthCode(ctx context.Context, code string) error {
	return c.do(ctx, http.MethodPost, wire.PathAuthCode, wire.CodeRequest{Code: code}, nil)
}

// GetUserData retrieves the stored settings; nil when none exist.
func (c *Client) GetUserData(ctx context.Context) (*domain.Settings, error) {
	var payload domain.Settings
	found := false
	err := c.doURL(ctx, http.MethodGet, &url.URL{Path: wire.PathSettings}, nil, func(resp *http.Response) error {
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		found = true
		return json.NewDecoder(resp.Body).Decode(&payload)
	})
	if err != nil || !found {
		return nil, err
	}
	return &payload, nil
}

// SaveUserData stores settings.
func (c *Client) SaveUserData(ctx context.Context, settings domain.Settings) error {
	return c.do(ctx, http.MethodPut, wire.PathSettings, settings, nil)
}

// GetWorlds lists worlds under saveDirectory.
func (c *Client) GetWorlds(ctx context.Context, saveDirectory string) ([]string, error) {
	values := url.Values{}
	values.Set("dir", saveDirectory)
	rel := &url.URL{Path: wire.PathWorlds, RawQuery: values.Encode()}
	var payload wire.WorldsResponse
	if err := c.doURL(ctx, http.MethodGet, rel, nil, decodeInto(&payload)); err != nil {
		return nil, err
	}
	if payload.Worlds == nil {
		return []string{}, nil
	}
	return payload.Worlds, nil
}

// PushIfAhead runs the daemon's staleness check.
func (c *Client) PushIfAhead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, wire.PathPushIfAhead, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var handle func(*http.Response) error
	if dest != nil {
		handle = decodeInto(dest)
	}
	return c.doURL(ctx, method, &url.URL{Path: path}, body, handle)
}

func decodeInto(dest any) func(*http.Response) error {
	return func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
}

func (c *Client) resolve(rel *url.URL) *url.URL {
	u := *c.baseURL
	u.Path = c.baseURL.Path + rel.Path
	u.RawQuery = rel.RawQuery
	return &u
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body any, handle func(*http.Response) error) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(rel).String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}
	if handle == nil {
		return nil
	}
	return handle(resp)
}

func readAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var payload wire.ErrorResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &payload); err == nil {
		apiErr.Message = payload.Error
		apiErr.Code = payload.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}

// IsUnauthorized reports whether err is the daemon rejecting the bearer token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
