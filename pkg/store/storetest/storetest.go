// Package storetest provides the contract suite every store.Store adapter
// must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/utils/ptr"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
)

// Factory returns an empty store for one subtest.
type Factory func(t *testing.T) store.Store[overlay.SessionDocument]

// Session builds a canonical session document.
func Session(id, title string) overlay.SessionDocument {
	key := models.KeyFor(title, models.ID(id))
	return overlay.FromCanonical[models.Session, models.SessionPatch](models.ID(id), key, models.Session{
		ID:          models.ID(id),
		Key:         key,
		Title:       title,
		Format:      "conference",
		Speakers:    []models.Key{"jane-doe"},
		Category:    "backend",
		Language:    models.LangEnglish,
		Description: "About " + title,
	})
}

// Run executes the contract suite against the stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("insert and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		doc := Session("1", "Hello Go")
		require.NoError(t, s.Insert(ctx, doc))

		byID, ok, err := s.GetByID(ctx, "1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, doc, byID)

		byKey, ok, err := s.GetByKey(ctx, "hello-go")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, doc, byKey)
	})

	t.Run("misses are not errors", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, ok, err := s.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetByKey(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.DeleteByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, Session("1", "First")))

		err := s.Insert(ctx, Session("1", "Second"))
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateID(err), "got %v", err)
	})

	t.Run("duplicate key", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, Session("1", "Same title")))

		err := s.Insert(ctx, Session("2", "Same Title!"))
		require.Error(t, err)
		assert.True(t, errors.IsDuplicateKey(err), "got %v", err)
	})

	t.Run("update", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		doc := Session("1", "Original")
		require.NoError(t, s.Insert(ctx, doc))

		patched := doc.ReplacePatch(models.SessionPatch{
			Title:    ptr.To("Patched"),
			Speakers: &[]models.Key{},
			Draft:    ptr.To(false),
		})
		require.NoError(t, s.Update(ctx, "1", patched))

		got, ok, err := s.GetByID(ctx, "1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, patched, got)
		require.NotNil(t, got.Patch.Speakers, "an empty override must survive storage")
		assert.Empty(t, *got.Patch.Speakers)
		require.NotNil(t, got.Patch.Draft)
	})

	t.Run("update missing", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(context.Background(), "nope", Session("nope", "Nope"))
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err), "got %v", err)
	})

	t.Run("update with mismatched id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, Session("1", "One")))

		err := s.Update(ctx, "1", Session("2", "Two"))
		assert.True(t, errors.IsValidationError(err), "got %v", err)
	})

	t.Run("get by keys keeps order and skips unknown", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, doc := range []overlay.SessionDocument{Session("1", "Alpha"), Session("2", "Bravo"), Session("3", "Charlie")} {
			require.NoError(t, s.Insert(ctx, doc))
		}

		docs, err := s.GetByKeys(ctx, []string{"charlie", "unknown", "alpha"})
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, models.Key("charlie"), docs[0].Key)
		assert.Equal(t, models.Key("alpha"), docs[1].Key)

		empty, err := s.GetByKeys(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("list all sorted by key", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, doc := range []overlay.SessionDocument{Session("3", "Zulu"), Session("1", "Alpha"), Session("2", "Mike")} {
			require.NoError(t, s.Insert(ctx, doc))
		}

		docs, err := s.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, []models.Key{"alpha", "mike", "zulu"}, []models.Key{docs[0].Key, docs[1].Key, docs[2].Key})
	})

	t.Run("delete returns the removed document", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		doc := Session("1", "Doomed")
		require.NoError(t, s.Insert(ctx, doc))

		removed, ok, err := s.DeleteByID(ctx, "1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, doc, removed)

		_, ok, err = s.GetByKey(ctx, "doomed")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Insert(ctx, Session("2", "Doomed")), "a deleted key can be reused")
	})

	t.Run("returned documents are copies", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Insert(ctx, Session("1", "Immutable")))

		got, _, err := s.GetByID(ctx, "1")
		require.NoError(t, err)
		got.Canonical.Title = "mutated"
		got.Canonical.Speakers[0] = "mallory"

		again, _, err := s.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "Immutable", again.Canonical.Title)
		assert.Equal(t, models.Key("jane-doe"), again.Canonical.Speakers[0])
	})

	t.Run("canceled context", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := s.GetByID(ctx, "1")
		require.Error(t, err)
		assert.True(t, errors.IsStoreUnavailable(err), "got %v", err)
	})
}
