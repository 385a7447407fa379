package server

import (
	"net/http"

	"github.com/agentstation/confkit/internal/metrics"
	"github.com/agentstation/confkit/internal/server/handlers"
	"github.com/agentstation/confkit/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.broker,
		s.wsHub,
		s.upgrader,
		s.logger,
		s.startTime,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Public health endpoints
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Sessions
	mux.HandleFunc("GET "+prefix+"/sessions", h.HandleListSessions)
	mux.HandleFunc("POST "+prefix+"/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET "+prefix+"/sessions/{key}", h.HandleGetSession)
	mux.HandleFunc("PATCH "+prefix+"/sessions/{id}", h.HandlePatchSession)
	mux.HandleFunc("DELETE "+prefix+"/sessions/{id}", h.HandleDeleteSession)

	// Speakers
	mux.HandleFunc("GET "+prefix+"/speakers", h.HandleListSpeakers)
	mux.HandleFunc("POST "+prefix+"/speakers", h.HandleCreateSpeaker)
	mux.HandleFunc("GET "+prefix+"/speakers/{key}", h.HandleGetSpeaker)
	mux.HandleFunc("GET "+prefix+"/speakers/{key}/sessions", h.HandleSpeakerSessions)
	mux.HandleFunc("PATCH "+prefix+"/speakers/{id}", h.HandlePatchSpeaker)
	mux.HandleFunc("DELETE "+prefix+"/speakers/{id}", h.HandleDeleteSpeaker)

	// Plain entities and site
	mux.HandleFunc("GET "+prefix+"/categories", h.HandleListCategories)
	mux.HandleFunc("GET "+prefix+"/formats", h.HandleListFormats)
	mux.HandleFunc("GET "+prefix+"/sponsors", h.HandleListSponsors)
	mux.HandleFunc("GET "+prefix+"/sponsors/{key}", h.HandleGetSponsor)
	mux.HandleFunc("GET "+prefix+"/site", h.HandleGetSite)

	// Admin
	mux.HandleFunc("POST "+prefix+"/sync", h.HandleSync)

	// Change feed
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)

	if s.config.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain. Logger must wrap the
// mux directly to see the matched route.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.Auth(s.config.Accounts, s.logger),
		middleware.Logger(s.logger),
	)(handler)
}
