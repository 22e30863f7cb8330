package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minevcs/minevcs/internal/backend/wire"
	"github.com/minevcs/minevcs/internal/domain"
)

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wire.HealthResponse{Status: "ok"})
}

type AuthHandler struct {
	backend domain.Backend
}

// Status handles GET /api/auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	ok, err := h.backend.CheckAuthenticated(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.AuthStatus{Authenticated: ok})
}

// URL handles POST /api/auth/url
func (h *AuthHandler) URL(w http.ResponseWriter, r *http.Request) {
	url, err := h.backend.GoogleAuth(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.AuthURL{URL: url})
}

// Code handles POST /api/auth/code
func (h *AuthHandler) Code(w http.ResponseWriter, r *http.Request) {
	var req wire.CodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if err := h.backend.UserAuthCode(r.Context(), req.Code); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type SettingsHandler struct {
	backend domain.Backend
}

// Get handles GET /api/settings. No settings yet is 204.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.backend.GetUserData(r.Context())
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if settings == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Put handles PUT /api/settings
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var settings domain.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if err := h.backend.SaveUserData(r.Context(), settings); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Worlds handles GET /api/worlds?dir=
func (h *SettingsHandler) Worlds(w http.ResponseWriter, r *http.Request) {
	worlds, err := h.backend.GetWorlds(r.Context(), r.URL.Query().Get("dir"))
	if err != nil {
		writeBackendError(w, err)
		return
	}
	if worlds == nil {
		worlds = []string{}
	}
	writeJSON(w, http.StatusOK, wire.WorldsResponse{Worlds: worlds})
}

type SyncHandler struct {
	backend domain.Backend
}

// PushIfAhead handles POST /api/sync/push-if-ahead
func (h *SyncHandler) PushIfAhead(w http.ResponseWriter, r *http.Request) {
	if err := h.backend.PushIfAhead(r.Context()); err != nil {
		writeBackendError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, wire.ErrorResponse{Error: msg, Code: code})
}

// writeBackendError maps domain sentinels to statuses and passes their code along.
func writeBackendError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error(), wire.CodeFor(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCode), errors.Is(err, domain.ErrIncompleteSettings):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusPreconditionFailed
	case errors.Is(err, domain.ErrNoRemoteCopy):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSyncEngineUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusBadGateway
	}
}
