package catalog

import (
	"context"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/store"
)

// Entity is a plain record without overlay.
type Entity[R any] interface {
	store.Record
	Label() string
	WithIdentity(id models.ID, key models.Key) R
}

// Entities is the repository of a plain entity type.
type Entities[R Entity[R]] struct {
	store    store.Store[R]
	resource string
	notifier *notifier
	locks    *keyedMutex
}

func newEntities[R Entity[R]](s store.Store[R], resource string, n *notifier, locks *keyedMutex) *Entities[R] {
	return &Entities[R]{store: s, resource: resource, notifier: n, locks: locks}
}

// Lock acquires the write lock of the entity with the given id and returns
// its release function.
func (e *Entities[R]) Lock(id models.ID) func() {
	return e.locks.Lock(e.resource + "/" + string(id))
}

// Resource returns the resource name of the entities.
func (e *Entities[R]) Resource() string {
	return e.resource
}

// List returns every entity ordered by key.
func (e *Entities[R]) List(ctx context.Context) ([]R, error) {
	return e.store.ListAll(ctx)
}

// Get returns the entity with the given key.
func (e *Entities[R]) Get(ctx context.Context, key models.Key) (R, error) {
	r, found, err := e.store.GetByKey(ctx, string(key))
	if err != nil {
		return r, err
	}
	if !found {
		return r, errors.NewNotFoundError(e.resource, string(key))
	}
	return r, nil
}

// Lookup returns the entity with the given id, if any.
func (e *Entities[R]) Lookup(ctx context.Context, id models.ID) (R, bool, error) {
	return e.store.GetByID(ctx, string(id))
}

// Create stores a new entity. A missing id is generated and a missing key
// derived from the label.
func (e *Entities[R]) Create(ctx context.Context, r R) (R, error) {
	id := models.ID(r.RecordID())
	if id.IsZero() {
		id = models.NewID()
	}
	r, err := e.withKey(r, id)
	if err != nil {
		return r, err
	}

	unlock := e.Lock(id)
	err = e.insert(ctx, r)
	unlock()
	if err != nil {
		return r, err
	}
	e.notifier.notify(ctx, Change{Resource: e.resource, Kind: ChangeCreated, ID: id, Key: models.Key(r.RecordKey())})
	return r, nil
}

// withKey sets id and, when r has none, a key derived from the label.
func (e *Entities[R]) withKey(r R, id models.ID) (R, error) {
	key := models.Key(r.RecordKey())
	if key == "" {
		key = models.KeyFor(r.Label(), id)
	}
	r = r.WithIdentity(id, key)
	return r, validateStruct(r)
}

func (e *Entities[R]) insert(ctx context.Context, r R) error {
	key := r.RecordKey()
	if _, taken, err := e.store.GetByKey(ctx, key); err != nil {
		return err
	} else if taken {
		return errors.NewDuplicateKeyError(e.resource, key)
	}
	return e.store.Insert(ctx, r)
}

// Upsert inserts r or replaces the entity stored under its id. The key of an
// existing entity is kept; a new one gets a key derived from its label.
func (e *Entities[R]) Upsert(ctx context.Context, r R) (R, bool, error) {
	id := models.ID(r.RecordID())
	if id.IsZero() {
		return r, false, errors.NewValidationError("id", "", "required")
	}

	unlock := e.Lock(id)
	r, created, err := e.upsert(ctx, r, id)
	unlock()
	if err != nil {
		return r, false, err
	}

	kind := ChangeUpdated
	if created {
		kind = ChangeCreated
		logging.FromContext(ctx).Debug().
			Str("kind", e.resource).
			Str("entity_id", id.String()).
			Msg("created entity")
	}
	e.notifier.notify(ctx, Change{Resource: e.resource, Kind: kind, ID: id, Key: models.Key(r.RecordKey())})
	return r, created, nil
}

func (e *Entities[R]) upsert(ctx context.Context, r R, id models.ID) (R, bool, error) {
	existing, found, err := e.store.GetByID(ctx, string(id))
	if err != nil {
		return r, false, err
	}
	if found {
		r = r.WithIdentity(id, models.Key(existing.RecordKey()))
		if err := validateStruct(r); err != nil {
			return r, false, err
		}
		return r, false, e.store.Update(ctx, string(id), r)
	}

	r, err = e.withKey(r, id)
	if err != nil {
		return r, false, err
	}
	return r, true, e.insert(ctx, r)
}

// Delete removes the entity with the given id.
func (e *Entities[R]) Delete(ctx context.Context, id models.ID) (R, error) {
	unlock := e.Lock(id)
	r, found, err := e.store.DeleteByID(ctx, string(id))
	unlock()
	if err != nil {
		return r, err
	}
	if !found {
		return r, errors.NewNotFoundError(e.resource, string(id))
	}
	e.notifier.notify(ctx, Change{Resource: e.resource, Kind: ChangeDeleted, ID: id, Key: models.Key(r.RecordKey())})
	return r, nil
}

// KeysByID maps the id of every entity to its key.
func (e *Entities[R]) KeysByID(ctx context.Context) (map[models.ID]models.Key, error) {
	all, err := e.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	keys := make(map[models.ID]models.Key, len(all))
	for _, r := range all {
		keys[models.ID(r.RecordID())] = models.Key(r.RecordKey())
	}
	return keys, nil
}
