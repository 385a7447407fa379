package handlers

import (
	"net/http"

	"github.com/agentstation/confkit/internal/server/middleware"
	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

// documentRoutes serves the CRUD routes of one overlay document kind.
type documentRoutes[T any, P overlay.Patch[T]] struct {
	docs func(*catalog.Catalog) *catalog.Documents[T, P]
	view func(models.Key) acl.Operation
	edit func(models.Key) acl.Operation
}

var (
	sessionRoutes = documentRoutes[models.Session, models.SessionPatch]{
		docs: func(c *catalog.Catalog) *catalog.Documents[models.Session, models.SessionPatch] {
			return c.Sessions.Documents
		},
		view: acl.ViewSessionOp,
		edit: acl.EditSessionOp,
	}
	speakerRoutes = documentRoutes[models.Speaker, models.SpeakerPatch]{
		docs: func(c *catalog.Catalog) *catalog.Documents[models.Speaker, models.SpeakerPatch] {
			return c.Speakers.Documents
		},
		view: acl.ViewSpeakerOp,
		edit: acl.EditSpeakerOp,
	}
)

func (d documentRoutes[T, P]) list(h *Handlers, w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.ViewSiteOp()) {
		return
	}
	views, err := d.docs(c.Catalog()).List(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"items": views,
		"count": len(views),
	})
}

func (d documentRoutes[T, P]) get(h *Handlers, w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	key := models.Key(r.PathValue("key"))
	if !ok || !h.authorize(w, r, c, d.view(key)) {
		return
	}
	view, err := d.docs(c.Catalog()).Get(r.Context(), key)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, view)
}

func (d documentRoutes[T, P]) create(h *Handlers, w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.AdministrationOp()) {
		return
	}
	var patch P
	if err := decode(r, &patch); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	view, err := d.docs(c.Catalog()).Create(r.Context(), patch)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.Created(w, view)
}

// patch looks the document up first: the edit permission depends on its key.
func (d documentRoutes[T, P]) patch(h *Handlers, w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	docs := d.docs(c.Catalog())
	id := models.ID(r.PathValue("id"))
	current, err := docs.GetByID(r.Context(), id)
	if err != nil {
		denyOrFail(w, r, d.edit(""), err)
		return
	}
	if !h.authorize(w, r, c, d.edit(current.Key)) {
		return
	}

	var patch P
	if err := decode(r, &patch); err != nil {
		response.BadRequest(w, "Invalid request body", err.Error())
		return
	}
	view, err := docs.Patch(r.Context(), id, patch)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, view)
}

func (d documentRoutes[T, P]) delete(h *Handlers, w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.AdministrationOp()) {
		return
	}
	view, err := d.docs(c.Catalog()).Delete(r.Context(), models.ID(r.PathValue("id")))
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, view)
}

// denyOrFail answers a failed lookup. Only administrators see the actual
// error; everybody else gets 403 whether or not the id exists.
func denyOrFail(w http.ResponseWriter, r *http.Request, op acl.Operation, err error) {
	if middleware.UserFrom(r.Context()).Kind != acl.Admin {
		response.Forbidden(w, op.String())
		return
	}
	response.ErrorFromType(w, err)
}
