package handlers

import "net/http"

// HandleListSessions handles GET /api/v1/sessions.
func (h *Handlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	sessionRoutes.list(h, w, r)
}

// HandleGetSession handles GET /api/v1/sessions/{key}.
func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionRoutes.get(h, w, r)
}

// HandleCreateSession handles POST /api/v1/sessions. The body is a complete
// session patch; the created document is local.
func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionRoutes.create(h, w, r)
}

// HandlePatchSession handles PATCH /api/v1/sessions/{id}.
func (h *Handlers) HandlePatchSession(w http.ResponseWriter, r *http.Request) {
	sessionRoutes.patch(h, w, r)
}

// HandleDeleteSession handles DELETE /api/v1/sessions/{id}.
func (h *Handlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionRoutes.delete(h, w, r)
}
