package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/agentstation/confkit/internal/server/response"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/sync"
)

// HandleSync handles POST /api/v1/sync.
//
// Query parameters: dry_run (bool), workers (int) and timeout (duration).
// Subscribers of the change feed receive a sync.completed event.
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok || !h.authorize(w, r, c, acl.AdministrationOp()) {
		return
	}

	opts, err := syncOptions(r)
	if err != nil {
		response.BadRequest(w, "Invalid sync parameters", err.Error())
		return
	}

	result, err := c.Sync(r.Context(), opts...)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}

	response.OK(w, map[string]any{
		"status":      "completed",
		"dry_run":     result.DryRun,
		"counts":      result.Counts,
		"total":       result.Total(),
		"rejections":  result.Rejections,
		"stale":       result.Stale,
		"duration_ms": result.Duration.Milliseconds(),
	})
}

func syncOptions(r *http.Request) ([]sync.Option, error) {
	q := r.URL.Query()
	var opts []sync.Option
	if v := q.Get("dry_run"); v != "" {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithDryRun(dryRun))
	}
	if v := q.Get("workers"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithWorkers(workers))
	}
	if v := q.Get("timeout"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithTimeout(timeout))
	}
	return opts, nil
}
