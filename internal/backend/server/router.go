// Package server exposes a domain.Backend over HTTP and WebSocket for minevcsd.
package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/minevcs/minevcs/internal/backend/wire"
	"github.com/minevcs/minevcs/internal/domain"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(backend domain.Backend, token string, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	authH := &AuthHandler{backend: backend}
	settingsH := &SettingsHandler{backend: backend}
	syncH := &SyncHandler{backend: backend}
	eventsH := NewEventsHandler(backend, logger)

	// Unauthenticated routes
	r.Get(wire.PathHealth, Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))

		r.Get(wire.PathAuthStatus, authH.Status)
		r.Post(wire.PathAuthURL, authH.URL)
		r.Post(wire.PathAuthCode, authH.Code)

		r.Get(wire.PathSettings, settingsH.Get)
		r.Put(wire.PathSettings, settingsH.Put)
		r.Get(wire.PathWorlds, settingsH.Worlds)

		r.Post(wire.PathPushIfAhead, syncH.PushIfAhead)

		r.Get(wire.PathEvents, eventsH.Stream)
	})

	return r
}
