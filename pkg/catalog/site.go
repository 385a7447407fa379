package catalog

import (
	"context"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/store"
)

// Site holds the singleton site information.
type Site struct {
	store    store.Store[models.SiteInfo]
	notifier *notifier
}

// Get returns the site information.
func (s *Site) Get(ctx context.Context) (models.SiteInfo, error) {
	info, found, err := s.store.GetByID(ctx, string(models.SiteKey))
	if err != nil {
		return info, err
	}
	if !found {
		return info, errors.NewNotFoundError(ResourceSite, string(models.SiteKey))
	}
	return info, nil
}

// Replace stores info in place of the current site information.
func (s *Site) Replace(ctx context.Context, info models.SiteInfo) error {
	created, err := store.Upsert(ctx, s.store, info)
	if err != nil {
		return err
	}
	kind := ChangeUpdated
	if created {
		kind = ChangeCreated
	}
	s.notifier.notify(ctx, Change{Resource: ResourceSite, Kind: kind, ID: models.ID(models.SiteKey), Key: models.SiteKey})
	return nil
}
