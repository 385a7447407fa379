// Package catalog exposes the persisted conference content: sessions and
// speakers as overlay documents, categories, formats and sponsors as plain
// entities, and the site information.
//
// Every write path enforces key uniqueness and, for overlay documents, the
// completeness of local documents before anything reaches the store. Writes
// to one record, admin edits and sync upserts alike, hold its per-id lock
// for the whole read-modify-write sequence.
package catalog

import (
	"context"
	"sync"

	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
)

// Stores groups the store adapters backing a catalogue.
type Stores struct {
	Sessions   store.Store[overlay.SessionDocument]
	Speakers   store.Store[overlay.SpeakerDocument]
	Categories store.Store[models.Category]
	Formats    store.Store[models.Format]
	Sponsors   store.Store[models.Sponsor]
	Site       store.Store[models.SiteInfo]
}

// NewMemoryStores returns in-memory stores for every collection.
func NewMemoryStores() Stores {
	return Stores{
		Sessions:   store.NewMemory[overlay.SessionDocument](ResourceSession),
		Speakers:   store.NewMemory[overlay.SpeakerDocument](ResourceSpeaker),
		Categories: store.NewMemory[models.Category](ResourceCategory),
		Formats:    store.NewMemory[models.Format](ResourceFormat),
		Sponsors:   store.NewMemory[models.Sponsor](ResourceSponsor),
		Site:       store.NewMemory[models.SiteInfo](ResourceSite),
	}
}

// Resource names used in errors, logs and change events.
const (
	ResourceSession  = "session"
	ResourceSpeaker  = "speaker"
	ResourceCategory = "category"
	ResourceFormat   = "format"
	ResourceSponsor  = "sponsor"
	ResourceSite     = "site"
)

// Catalog is the entry point to the persisted content.
type Catalog struct {
	Sessions   *Sessions
	Speakers   *Speakers
	Categories *Entities[models.Category]
	Formats    *Entities[models.Format]
	Sponsors   *Entities[models.Sponsor]
	Site       *Site

	notifier *notifier
}

// New builds a catalogue over stores.
func New(stores Stores) *Catalog {
	n := &notifier{}
	locks := newKeyedMutex()
	return &Catalog{
		Sessions: &Sessions{Documents: newDocuments(stores.Sessions, ResourceSession, n, locks,
			func(s models.Session) string { return s.Title })},
		Speakers: &Speakers{Documents: newDocuments(stores.Speakers, ResourceSpeaker, n, locks,
			func(s models.Speaker) string { return s.Name })},
		Categories: newEntities(stores.Categories, ResourceCategory, n, locks),
		Formats:    newEntities(stores.Formats, ResourceFormat, n, locks),
		Sponsors:   newEntities(stores.Sponsors, ResourceSponsor, n, locks),
		Site:       &Site{store: stores.Site, notifier: n},
		notifier:   n,
	}
}

// OnChange registers a listener called after every successful write.
func (c *Catalog) OnChange(fn Listener) {
	c.notifier.add(fn)
}

// ChangeKind tells what happened to a record.
type ChangeKind string

// Change kinds.
const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes a write applied to the catalogue.
type Change struct {
	Resource string     `json:"resource"`
	Kind     ChangeKind `json:"kind"`
	ID       models.ID  `json:"id"`
	Key      models.Key `json:"key"`
}

// Listener receives catalogue changes. It runs synchronously on the writer's
// goroutine and must not block.
type Listener func(ctx context.Context, change Change)

type notifier struct {
	mu        sync.RWMutex
	listeners []Listener
}

func (n *notifier) add(fn Listener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

func (n *notifier) notify(ctx context.Context, change Change) {
	if n == nil {
		return
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.listeners {
		fn(ctx, change)
	}
}
