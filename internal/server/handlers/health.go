package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/errors"
)

// HandleHealth handles GET /health (liveness probe).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "confkit-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready. The store is ready when the site
// record can be read, whether or not a sync already created it.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}

	if _, err := c.Catalog().Site.Get(r.Context()); err != nil && !errors.IsNotFound(err) {
		h.logger.Warn().Err(err).Msg("Store not ready")
		response.ServiceUnavailable(w, "Store not available")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"uptime_seconds":    int64(time.Since(h.startTime).Seconds()),
		"websocket_clients": h.wsHub.ClientCount(),
	})
}
