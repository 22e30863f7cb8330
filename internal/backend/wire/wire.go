// Package wire holds the JSON payloads shared by minevcsd and its HTTP client.
package wire

import (
	"errors"

	"github.com/minevcs/minevcs/internal/domain"
)

// Routes served by minevcsd
const (
	PathHealth      = "/health"
	PathAuthStatus  = "/api/auth/status"
	PathAuthURL     = "/api/auth/url"
	PathAuthCode    = "/api/auth/code"
	PathSettings    = "/api/settings"
	PathWorlds      = "/api/worlds"
	PathPushIfAhead = "/api/sync/push-if-ahead"
	PathEvents      = "/api/events"
)

type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}

type AuthURL struct {
	URL string `json:"url"`
}

type CodeRequest struct {
	Code string `json:"code"`
}

type WorldsResponse struct {
	Worlds []string `json:"worlds"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every 4xx/5xx answer. Code names a domain
// sentinel when one applies.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var sentinels = map[string]error{
	"empty_code":          domain.ErrEmptyCode,
	"incomplete_settings": domain.ErrIncompleteSettings,
	"not_configured":      domain.ErrNotConfigured,
	"not_authenticated":   domain.ErrNotAuthenticated,
	"no_remote_copy":      domain.ErrNoRemoteCopy,
	"sync_unavailable":    domain.ErrSyncEngineUnavailable,
}

// CodeFor returns the wire code of the sentinel err wraps, or "".
func CodeFor(err error) string {
	for code, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}

// SentinelFor returns the sentinel named by code, or nil.
func SentinelFor(code string) error {
	return sentinels[code]
}
