// Package sync pulls the canonical content of an event from a source and
// merges it into the catalogue without touching local patches.
//
// A run upserts categories, formats and sponsors first, then speakers, then
// sessions whose references are translated from source ids to keys. Each
// entity's read-merge-write sequence holds the catalogue's per-id lock, so
// neither concurrent runs nor admin edits interleave with it on one
// document. Documents that disappeared from the source are reported as stale
// and kept.
package sync

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/confkit/internal/metrics"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/sources"
	"github.com/agentstation/confkit/pkg/store"
)

// Engine runs synchronizations against one catalogue.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine writing to c.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Run fetches the event from src and applies it.
func (e *Engine) Run(ctx context.Context, src sources.Source, opts ...Option) (*Result, error) {
	options := NewOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, options.Timeout)
	defer cancel()

	sourceID := src.ID().String()
	ctx = logging.WithSource(ctx, sourceID)
	start := time.Now()

	event, err := src.Fetch(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(sourceID, "error").Inc()
		if !errors.IsSourceUnavailable(err) {
			err = errors.NewSourceError(sourceID, err)
		}
		logging.FromContext(ctx).Error().Err(err).Msg("sync aborted")
		return nil, err
	}

	result, err := e.apply(ctx, event, options)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(sourceID, "error").Inc()
		return nil, err
	}
	result.Duration = time.Since(start)

	outcome := "success"
	if options.DryRun {
		outcome = "dry_run"
	}
	metrics.SyncRuns.WithLabelValues(sourceID, outcome).Inc()
	metrics.SyncDuration.Observe(result.Duration.Seconds())
	return result, nil
}

// Apply merges an already fetched event.
func (e *Engine) Apply(ctx context.Context, event *sources.Event, opts ...Option) (*Result, error) {
	options := NewOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := withTimeout(ctx, options.Timeout)
	defer cancel()

	start := time.Now()
	result, err := e.apply(ctx, event, options)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

func (e *Engine) apply(ctx context.Context, event *sources.Event, options *Options) (*Result, error) {
	ctx = logging.WithOperation(ctx, "sync")
	logger := logging.FromContext(ctx)
	result := &Result{
		Sessions: []models.Session{},
		Speakers: []models.Speaker{},
		Counts:   make(map[string]Counts),
		DryRun:   options.DryRun,
	}

	categories, err := syncEntities(ctx, e.catalog.Categories, event.Categories, result, options)
	if err != nil {
		return nil, err
	}
	formats, err := syncEntities(ctx, e.catalog.Formats, event.Formats, result, options)
	if err != nil {
		return nil, err
	}
	if _, err := syncEntities(ctx, e.catalog.Sponsors, event.Sponsors, result, options); err != nil {
		return nil, err
	}

	speakerItems := make([]item[models.Speaker], len(event.Speakers))
	for i, s := range event.Speakers {
		speakerItems[i] = item[models.Speaker]{id: s.ID, key: models.KeyFor(s.Name, s.ID), value: s}
	}
	speakerDocs, err := syncDocuments(ctx, e.catalog.Speakers.Documents, speakerItems, result, options)
	if err != nil {
		return nil, err
	}
	speakers := make(map[models.ID]models.Key, len(speakerDocs))
	for _, doc := range speakerDocs {
		speakers[doc.ID] = doc.Key
		effective, err := doc.Effective()
		if err != nil {
			return nil, err
		}
		result.Speakers = append(result.Speakers, effective)
	}

	refs := references{categories: categories, formats: formats, speakers: speakers}
	sessionItems := make([]item[models.Session], len(event.Talks))
	for i, talk := range event.Talks {
		session := refs.translate(ctx, talk)
		sessionItems[i] = item[models.Session]{id: talk.ID, key: models.KeyFor(talk.Title, talk.ID), value: session}
	}
	sessionDocs, err := syncDocuments(ctx, e.catalog.Sessions.Documents, sessionItems, result, options)
	if err != nil {
		return nil, err
	}
	for _, doc := range sessionDocs {
		effective, err := doc.Effective()
		if err != nil {
			return nil, err
		}
		result.Sessions = append(result.Sessions, effective)
	}

	if event.Site != nil && !options.DryRun {
		if err := e.catalog.Site.Replace(ctx, *event.Site); err != nil {
			return nil, err
		}
	}

	total := result.Total()
	logger.Info().
		Int("created", total.Created).
		Int("merged", total.Merged).
		Int("rejected", total.Rejected).
		Int("stale", total.Stale).
		Bool("dry_run", options.DryRun).
		Msg("sync completed")
	return result, nil
}

// item is one canonical entity to upsert.
type item[T any] struct {
	id    models.ID
	key   models.Key
	value T
}

// syncDocuments upserts items as overlay documents, preserving their order
// in the returned slice. Rejected items are left out.
func syncDocuments[T any, P overlay.Patch[T]](ctx context.Context, docs *catalog.Documents[T, P], items []item[T], result *Result, options *Options) ([]overlay.Document[T, P], error) {
	resource := docs.Resource()
	processed := make([]overlay.Document[T, P], len(items))
	outcomes := make([]Outcome, len(items))
	reasons := make([]error, len(items))
	reserved := newKeyReservations()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(options.Workers)
	for i, it := range items {
		g.Go(func() error {
			unlock := docs.Lock(it.id)
			defer unlock()

			doc, outcome, err := upsertDocument(gctx, docs.Store(), resource, it, options.DryRun, reserved)
			switch {
			case errors.IsDuplicateKey(err):
				outcomes[i], reasons[i] = Rejected, err
				return nil
			case err != nil:
				return err
			}
			processed[i], outcomes[i] = doc, outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	counts := result.Counts[resource]
	kept := make([]overlay.Document[T, P], 0, len(items))
	for i, it := range items {
		counts.add(outcomes[i])
		if !options.DryRun {
			metrics.SyncEntities.WithLabelValues(resource, string(outcomes[i])).Inc()
		}
		if outcomes[i] == Rejected {
			logger.Warn().Err(reasons[i]).Str("kind", resource).Str("entity_id", it.id.String()).Msg("entity rejected")
			result.Rejections = append(result.Rejections, Rejection{Resource: resource, ID: it.id, Key: it.key, Reason: reasons[i].Error()})
			continue
		}
		kept = append(kept, processed[i])
		if !options.DryRun {
			kind := catalog.ChangeUpdated
			if outcomes[i] == Created {
				kind = catalog.ChangeCreated
			}
			docs.Notify(ctx, kind, processed[i].ID, processed[i].Key)
		}
	}

	stale, err := staleDocuments(ctx, docs.Store(), items)
	if err != nil {
		return nil, err
	}
	counts.Stale = len(stale)
	result.Stale = append(result.Stale, stale...)
	result.Counts[resource] = counts
	if len(stale) > 0 {
		logger.Info().Str("kind", resource).Int("stale", len(stale)).Msg("documents no longer in source, keeping them")
		for _, id := range stale {
			logger.Debug().Str("kind", resource).Str("entity_id", id.String()).Msg("stale document")
		}
	}
	if !options.DryRun {
		metrics.StaleDocuments.WithLabelValues(resource).Set(float64(len(stale)))
	}
	return kept, nil
}

// upsertDocument merges the canonical value into the document with the same
// id, or creates it when the key is free. The caller holds the document lock.
func upsertDocument[T any, P overlay.Patch[T]](ctx context.Context, s store.Store[overlay.Document[T, P]], resource string, it item[T], dryRun bool, reserved *keyReservations) (overlay.Document[T, P], Outcome, error) {
	existing, found, err := s.GetByID(ctx, string(it.id))
	if err != nil {
		return existing, "", err
	}
	if found {
		merged := existing.MergeCanonical(it.value)
		if !dryRun {
			if err := s.Update(ctx, string(it.id), merged); err != nil {
				return merged, "", err
			}
		}
		return merged, Merged, nil
	}

	if _, taken, err := s.GetByKey(ctx, string(it.key)); err != nil {
		return existing, "", err
	} else if taken {
		return existing, Rejected, errors.NewDuplicateKeyError(resource, string(it.key))
	}
	if dryRun && !reserved.reserve(it.key, it.id) {
		return existing, Rejected, errors.NewDuplicateKeyError(resource, string(it.key))
	}

	doc := overlay.FromCanonical[T, P](it.id, it.key, it.value)
	if !dryRun {
		if err := s.Insert(ctx, doc); err != nil {
			return doc, "", err
		}
	}
	return doc, Created, nil
}

// staleDocuments lists the canonical documents whose id is not among items.
func staleDocuments[T any, P overlay.Patch[T]](ctx context.Context, s store.Store[overlay.Document[T, P]], items []item[T]) ([]models.ID, error) {
	seen := make(map[models.ID]struct{}, len(items))
	for _, it := range items {
		seen[it.id] = struct{}{}
	}
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var stale []models.ID
	for _, doc := range all {
		if doc.IsLocal() {
			continue
		}
		if _, ok := seen[doc.ID]; !ok {
			stale = append(stale, doc.ID)
		}
	}
	return stale, nil
}

// syncEntities upserts plain entities in order and returns the id to key
// table of the stored records.
func syncEntities[R catalog.Entity[R]](ctx context.Context, entities *catalog.Entities[R], values []R, result *Result, options *Options) (map[models.ID]models.Key, error) {
	resource := entities.Resource()
	logger := logging.FromContext(ctx)
	counts := result.Counts[resource]
	planned := make(map[models.ID]models.Key, len(values))
	reserved := newKeyReservations()

	for _, v := range values {
		id := models.ID(v.RecordID())
		outcome, key, err := upsertEntity(ctx, entities, v, options.DryRun, reserved)
		switch {
		case errors.IsDuplicateKey(err), errors.IsValidationError(err):
			outcome = Rejected
			logger.Warn().Err(err).Str("kind", resource).Str("entity_id", id.String()).Msg("entity rejected")
			result.Rejections = append(result.Rejections, Rejection{Resource: resource, ID: id, Key: key, Reason: err.Error()})
		case err != nil:
			return nil, err
		default:
			planned[id] = key
		}
		counts.add(outcome)
		if !options.DryRun {
			metrics.SyncEntities.WithLabelValues(resource, string(outcome)).Inc()
		}
	}
	result.Counts[resource] = counts

	if options.DryRun {
		return planned, nil
	}
	return entities.KeysByID(ctx)
}

func upsertEntity[R catalog.Entity[R]](ctx context.Context, entities *catalog.Entities[R], v R, dryRun bool, reserved *keyReservations) (Outcome, models.Key, error) {
	id := models.ID(v.RecordID())
	if !dryRun {
		stored, created, err := entities.Upsert(ctx, v)
		key := models.Key(stored.RecordKey())
		if err != nil {
			return Rejected, key, err
		}
		if created {
			return Created, key, nil
		}
		return Merged, key, nil
	}

	unlock := entities.Lock(id)
	defer unlock()

	existing, found, err := entities.Lookup(ctx, id)
	if err != nil {
		return "", "", err
	}
	if found {
		return Merged, models.Key(existing.RecordKey()), nil
	}
	key := models.KeyFor(v.Label(), id)
	if _, err := entities.Get(ctx, key); err == nil {
		return Rejected, key, errors.NewDuplicateKeyError(entities.Resource(), string(key))
	} else if !errors.IsNotFound(err) {
		return "", key, err
	}
	if !reserved.reserve(key, id) {
		return Rejected, key, errors.NewDuplicateKeyError(entities.Resource(), string(key))
	}
	return Created, key, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}
