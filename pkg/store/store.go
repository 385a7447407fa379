// Package store defines the persistence contract of the catalogue and an
// in-memory implementation of it.
//
// A Store holds records of a single type addressed by id, with a secondary
// unique key. Concrete adapters live under internal/store and must pass the
// shared contract suite in package storetest.
package store

import (
	"context"

	"github.com/agentstation/confkit/pkg/errors"
)

// Record is anything a Store can persist.
type Record interface {
	// RecordID is the primary key.
	RecordID() string
	// RecordKey is the secondary unique key.
	RecordKey() string
}

// Store is the document store adapter used by the catalogue and the
// synchronization engine.
//
// Lookups report a miss with false and a nil error. Adapter failures are
// reported as errors.StoreError.
type Store[R Record] interface {
	// GetByID returns the record with the given id.
	GetByID(ctx context.Context, id string) (R, bool, error)

	// GetByKey returns the record with the given key.
	GetByKey(ctx context.Context, key string) (R, bool, error)

	// GetByKeys returns the records matching keys, in the order of keys.
	// Unknown keys are skipped.
	GetByKeys(ctx context.Context, keys []string) ([]R, error)

	// Insert adds a record. It fails with errors.DuplicateIDError when the
	// id exists and errors.DuplicateKeyError when the key is taken.
	Insert(ctx context.Context, r R) error

	// Update replaces the record stored under id. It fails with
	// errors.NotFoundError when absent.
	Update(ctx context.Context, id string, r R) error

	// ListAll returns every record ordered by key.
	ListAll(ctx context.Context) ([]R, error)

	// DeleteByID removes the record and returns it.
	DeleteByID(ctx context.Context, id string) (R, bool, error)
}

// CheckUpdate validates the id passed to Update against the record.
func CheckUpdate(resource, id string, r Record) error {
	if r.RecordID() != id {
		return errors.NewValidationError("id", r.RecordID(), "record id does not match "+id+" in "+resource)
	}
	return nil
}

// Upsert inserts r or replaces the record stored under its id.
func Upsert[R Record](ctx context.Context, s Store[R], r R) (created bool, err error) {
	_, found, err := s.GetByID(ctx, r.RecordID())
	if err != nil {
		return false, err
	}
	if found {
		return false, s.Update(ctx, r.RecordID(), r)
	}
	return true, s.Insert(ctx, r)
}
