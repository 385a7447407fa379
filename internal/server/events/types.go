// Package events fans catalogue and synchronization events out to the
// transports of the change feed.
package events

import (
	"time"

	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sync"
)

// EventType represents the type of a change feed event.
type EventType string

// Event types.
const (
	DocumentCreated EventType = "document.created"
	DocumentUpdated EventType = "document.updated"
	DocumentDeleted EventType = "document.deleted"

	SyncCompleted EventType = "sync.completed"

	ClientConnected EventType = "client.connected"
)

// Event is one entry of the change feed. Seq grows by one per published
// event and lets clients resume after a reconnection.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Resource returns the document kind an event is about, or "" for events
// that concern the whole catalogue.
func (e Event) Resource() string {
	if d, ok := e.Data.(DocumentData); ok {
		return d.Resource
	}
	return ""
}

// DocumentData is the payload of document events.
type DocumentData struct {
	Resource string     `json:"resource"`
	ID       models.ID  `json:"id"`
	Key      models.Key `json:"key"`
}

// SyncData is the payload of sync events.
type SyncData struct {
	DryRun     bool                   `json:"dry_run"`
	Counts     map[string]sync.Counts `json:"counts"`
	Rejections int                    `json:"rejections"`
	Stale      int                    `json:"stale"`
	DurationMS int64                  `json:"duration_ms"`
}

// FromChange converts a catalogue change into its event type and payload.
func FromChange(c catalog.Change) (EventType, DocumentData) {
	data := DocumentData{Resource: c.Resource, ID: c.ID, Key: c.Key}
	switch c.Kind {
	case catalog.ChangeCreated:
		return DocumentCreated, data
	case catalog.ChangeDeleted:
		return DocumentDeleted, data
	default:
		return DocumentUpdated, data
	}
}

// FromResult summarizes a synchronization result.
func FromResult(r *sync.Result) SyncData {
	return SyncData{
		DryRun:     r.DryRun,
		Counts:     r.Counts,
		Rejections: len(r.Rejections),
		Stale:      len(r.Stale),
		DurationMS: r.Duration.Milliseconds(),
	}
}
