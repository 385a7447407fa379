package handlers

import (
	"context"
	"net/http"

	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/models"
)

// listEntities answers the list of a plain entity repository to users who
// may view the site.
func listEntities[R any](h *Handlers, w http.ResponseWriter, r *http.Request, list func(*catalog.Catalog, context.Context) ([]R, error)) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.ViewSiteOp()) {
		return
	}
	items, err := list(c.Catalog(), r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// HandleListCategories handles GET /api/v1/categories.
func (h *Handlers) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	listEntities(h, w, r, func(c *catalog.Catalog, ctx context.Context) ([]models.Category, error) {
		return c.Categories.List(ctx)
	})
}

// HandleListFormats handles GET /api/v1/formats.
func (h *Handlers) HandleListFormats(w http.ResponseWriter, r *http.Request) {
	listEntities(h, w, r, func(c *catalog.Catalog, ctx context.Context) ([]models.Format, error) {
		return c.Formats.List(ctx)
	})
}

// HandleListSponsors handles GET /api/v1/sponsors.
func (h *Handlers) HandleListSponsors(w http.ResponseWriter, r *http.Request) {
	listEntities(h, w, r, func(c *catalog.Catalog, ctx context.Context) ([]models.Sponsor, error) {
		return c.Sponsors.List(ctx)
	})
}

// HandleGetSponsor handles GET /api/v1/sponsors/{key}. Sponsors may read
// their own page.
func (h *Handlers) HandleGetSponsor(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	key := models.Key(r.PathValue("key"))
	if !ok || !h.authorize(w, r, c, acl.ViewSponsorOp(key)) {
		return
	}
	sponsor, err := c.Catalog().Sponsors.Get(r.Context(), key)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, sponsor)
}

// HandleGetSite handles GET /api/v1/site.
func (h *Handlers) HandleGetSite(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.ViewSiteOp()) {
		return
	}
	site, err := c.Catalog().Site.Get(r.Context())
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, site)
}
