package catalog

import (
	"context"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
)

// Documents is the repository of one kind of overlay document.
type Documents[T any, P overlay.Patch[T]] struct {
	store    store.Store[overlay.Document[T, P]]
	resource string
	notifier *notifier
	locks    *keyedMutex
	label    func(T) string
}

func newDocuments[T any, P overlay.Patch[T]](s store.Store[overlay.Document[T, P]], resource string, n *notifier, locks *keyedMutex, label func(T) string) *Documents[T, P] {
	return &Documents[T, P]{store: s, resource: resource, notifier: n, locks: locks, label: label}
}

// Lock acquires the write lock of the document with the given id and
// returns its release function. Callers writing through Store directly
// must hold it across their read and their write.
func (d *Documents[T, P]) Lock(id models.ID) func() {
	return d.locks.Lock(d.resource + "/" + string(id))
}

// Store returns the underlying store adapter.
func (d *Documents[T, P]) Store() store.Store[overlay.Document[T, P]] {
	return d.store
}

// Resource returns the resource name of the documents.
func (d *Documents[T, P]) Resource() string {
	return d.resource
}

// Get returns the view of the document with the given key.
func (d *Documents[T, P]) Get(ctx context.Context, key models.Key) (overlay.View[T, P], error) {
	doc, found, err := d.store.GetByKey(ctx, string(key))
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	if !found {
		return overlay.View[T, P]{}, errors.NewNotFoundError(d.resource, string(key))
	}
	return doc.View()
}

// Document returns the stored document with the given key, canonical value
// and patch apart.
func (d *Documents[T, P]) Document(ctx context.Context, key models.Key) (overlay.Document[T, P], error) {
	doc, found, err := d.store.GetByKey(ctx, string(key))
	if err != nil {
		return doc, err
	}
	if !found {
		return doc, errors.NewNotFoundError(d.resource, string(key))
	}
	return doc, nil
}

// GetByID returns the view of the document with the given id.
func (d *Documents[T, P]) GetByID(ctx context.Context, id models.ID) (overlay.View[T, P], error) {
	doc, err := d.document(ctx, id)
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	return doc.View()
}

// List returns the views of every document, ordered by key.
func (d *Documents[T, P]) List(ctx context.Context) ([]overlay.View[T, P], error) {
	docs, err := d.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]overlay.View[T, P], 0, len(docs))
	for _, doc := range docs {
		view, err := doc.View()
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Effective returns the effective value of every document, ordered by key.
func (d *Documents[T, P]) Effective(ctx context.Context) ([]T, error) {
	views, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]T, len(views))
	for i, view := range views {
		values[i] = view.Effective
	}
	return values, nil
}

// Create stores a local document built from patch. The id is generated and
// the key derived from the effective label.
func (d *Documents[T, P]) Create(ctx context.Context, patch P) (overlay.View[T, P], error) {
	if err := validateStruct(patch); err != nil {
		return overlay.View[T, P]{}, err
	}

	id := models.NewID()
	doc := overlay.FromPatch[T, P](id, "", patch)
	effective, err := doc.Effective()
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	doc.Key = models.KeyFor(d.label(effective), id)

	unlock := d.Lock(id)
	err = d.insert(ctx, doc)
	unlock()
	if err != nil {
		return overlay.View[T, P]{}, err
	}

	logging.FromContext(ctx).Info().
		Str("kind", d.resource).
		Str("entity_id", id.String()).
		Str("key", doc.Key.String()).
		Msg("created local document")
	d.notifier.notify(ctx, Change{Resource: d.resource, Kind: ChangeCreated, ID: id, Key: doc.Key})
	return doc.View()
}

func (d *Documents[T, P]) insert(ctx context.Context, doc overlay.Document[T, P]) error {
	if _, taken, err := d.store.GetByKey(ctx, string(doc.Key)); err != nil {
		return err
	} else if taken {
		return errors.NewDuplicateKeyError(d.resource, string(doc.Key))
	}
	return d.store.Insert(ctx, doc)
}

// Patch replaces the patch of the document with the given id. The key is
// never recomputed.
func (d *Documents[T, P]) Patch(ctx context.Context, id models.ID, patch P) (overlay.View[T, P], error) {
	if err := validateStruct(patch); err != nil {
		return overlay.View[T, P]{}, err
	}

	unlock := d.Lock(id)
	doc, err := d.replacePatch(ctx, id, patch)
	unlock()
	if err != nil {
		return overlay.View[T, P]{}, err
	}

	logging.FromContext(ctx).Info().
		Str("kind", d.resource).
		Str("entity_id", id.String()).
		Msg("patched document")
	d.notifier.notify(ctx, Change{Resource: d.resource, Kind: ChangeUpdated, ID: id, Key: doc.Key})
	return doc.View()
}

func (d *Documents[T, P]) replacePatch(ctx context.Context, id models.ID, patch P) (overlay.Document[T, P], error) {
	doc, err := d.document(ctx, id)
	if err != nil {
		return doc, err
	}
	doc = doc.ReplacePatch(patch)
	if err := doc.Validate(); err != nil {
		return doc, err
	}
	return doc, d.store.Update(ctx, string(id), doc)
}

// Delete removes the document with the given id and returns its last view.
// A later sync recreates documents that still exist in the source.
func (d *Documents[T, P]) Delete(ctx context.Context, id models.ID) (overlay.View[T, P], error) {
	unlock := d.Lock(id)
	doc, found, err := d.store.DeleteByID(ctx, string(id))
	unlock()
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	if !found {
		return overlay.View[T, P]{}, errors.NewNotFoundError(d.resource, string(id))
	}

	logging.FromContext(ctx).Info().
		Str("kind", d.resource).
		Str("entity_id", id.String()).
		Msg("deleted document")
	d.notifier.notify(ctx, Change{Resource: d.resource, Kind: ChangeDeleted, ID: id, Key: doc.Key})

	// incomplete documents have no effective value
	view, err := doc.View()
	if err != nil {
		return overlay.View[T, P]{ID: doc.ID, Key: doc.Key, Patch: doc.Patch, Local: doc.IsLocal()}, nil
	}
	return view, nil
}

// Notify publishes a change made outside the repository, by the sync engine.
func (d *Documents[T, P]) Notify(ctx context.Context, kind ChangeKind, id models.ID, key models.Key) {
	d.notifier.notify(ctx, Change{Resource: d.resource, Kind: kind, ID: id, Key: key})
}

func (d *Documents[T, P]) document(ctx context.Context, id models.ID) (overlay.Document[T, P], error) {
	doc, found, err := d.store.GetByID(ctx, string(id))
	if err != nil {
		return doc, err
	}
	if !found {
		return doc, errors.NewNotFoundError(d.resource, string(id))
	}
	return doc, nil
}
