// Package handlers provides HTTP request handlers for the confkit API.
//
// Every handler resolves the request user set by the auth middleware and
// asks the decider whether the user may run the operation behind the route
// before touching the catalogue.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/server/events"
	"github.com/agentstation/confkit/internal/server/middleware"
	"github.com/agentstation/confkit/internal/server/response"
	ws "github.com/agentstation/confkit/internal/server/websocket"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/logging"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       application.Application
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	startTime time.Time
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		app:       app,
		broker:    broker,
		wsHub:     wsHub,
		upgrader:  upgrader,
		logger:    logger,
		startTime: startTime,
	}
}

// client returns the confkit client, answering 503 when it cannot be created.
func (h *Handlers) client(w http.ResponseWriter) (confkit.Client, bool) {
	c, err := h.app.Client()
	if err != nil {
		h.logger.Error().Err(err).Msg("confkit client unavailable")
		response.ServiceUnavailable(w, "Catalog not available")
		return nil, false
	}
	return c, true
}

// authorize answers 403 unless the request user may perform op.
func (h *Handlers) authorize(w http.ResponseWriter, r *http.Request, c confkit.Client, op acl.Operation) bool {
	user := middleware.UserFrom(r.Context())
	if c.IsAllowed(r.Context(), user, op) {
		return true
	}
	logging.FromContext(r.Context()).Debug().
		Str("user", user.String()).
		Str("operation", op.String()).
		Msg("Operation denied")
	response.Forbidden(w, op.String())
	return false
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
