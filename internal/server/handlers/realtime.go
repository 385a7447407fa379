package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/confkit/internal/server/events"
	"github.com/agentstation/confkit/internal/server/response"
	ws "github.com/agentstation/confkit/internal/server/websocket"
	"github.com/agentstation/confkit/pkg/acl"
)

// HandleWebSocket serves the change feed at /api/v1/updates/ws. The feed
// reveals every change, so it needs the view-site permission.
//
// Query parameters:
//   - resource: comma-separated document kinds to receive (default: all)
//   - since: replay the retained events after this seq before live ones
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	if !h.authorize(w, r, c, acl.ViewSiteOp()) {
		return
	}

	query := r.URL.Query()
	var resources []string
	if v := query.Get("resource"); v != "" {
		for _, res := range strings.Split(v, ",") {
			if res = strings.TrimSpace(res); res != "" {
				resources = append(resources, res)
			}
		}
	}
	replay := query.Has("since")
	since, err := strconv.ParseUint(query.Get("since"), 10, 64)
	if replay && err != nil {
		response.BadRequest(w, "Invalid since", "since must be a sequence number")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	id := uuid.NewString()
	client := ws.NewClient(id, h.wsHub, conn, resources...)
	h.wsHub.Register(client, func() []events.Event {
		backlog := []events.Event{{
			Type:      events.ClientConnected,
			Timestamp: time.Now().UTC(),
			Data:      map[string]any{"client_id": id, "resources": resources},
		}}
		if replay {
			backlog = append(backlog, h.broker.Since(since)...)
		}
		return backlog
	})

	go client.WritePump()
	go client.ReadPump()
}
