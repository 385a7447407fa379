package handlers

import (
	"net/http"

	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/models"
)

// HandleListSpeakers handles GET /api/v1/speakers.
func (h *Handlers) HandleListSpeakers(w http.ResponseWriter, r *http.Request) {
	speakerRoutes.list(h, w, r)
}

// HandleGetSpeaker handles GET /api/v1/speakers/{key}.
func (h *Handlers) HandleGetSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerRoutes.get(h, w, r)
}

// HandleCreateSpeaker handles POST /api/v1/speakers.
func (h *Handlers) HandleCreateSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerRoutes.create(h, w, r)
}

// HandlePatchSpeaker handles PATCH /api/v1/speakers/{id}.
func (h *Handlers) HandlePatchSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerRoutes.patch(h, w, r)
}

// HandleDeleteSpeaker handles DELETE /api/v1/speakers/{id}.
func (h *Handlers) HandleDeleteSpeaker(w http.ResponseWriter, r *http.Request) {
	speakerRoutes.delete(h, w, r)
}

// HandleSpeakerSessions handles GET /api/v1/speakers/{key}/sessions: the
// sessions whose effective speakers include the speaker.
func (h *Handlers) HandleSpeakerSessions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	key := models.Key(r.PathValue("key"))
	if !ok || !h.authorize(w, r, c, acl.ViewSpeakerOp(key)) {
		return
	}

	cat := c.Catalog()
	if _, err := cat.Speakers.Get(r.Context(), key); err != nil {
		response.ErrorFromType(w, err)
		return
	}
	views, err := cat.Sessions.FindBySpeaker(r.Context(), key)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"speaker": key,
		"items":   views,
		"count":   len(views),
	})
}
