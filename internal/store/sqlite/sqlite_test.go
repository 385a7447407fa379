package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/store/sqlite"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
	"github.com/agentstation/confkit/pkg/store/storetest"
)

func newSessions(t *testing.T) store.Store[overlay.SessionDocument] {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "data", "confkit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sessions, err := sqlite.NewCollection[overlay.SessionDocument](ctx, db, "sessions", "session")
	require.NoError(t, err)
	return sessions
}

func TestContract(t *testing.T) {
	storetest.Run(t, newSessions)
}

func TestUpdateToTakenKey(t *testing.T) {
	ctx := context.Background()
	s := newSessions(t)
	require.NoError(t, s.Insert(ctx, storetest.Session("1", "First")))
	require.NoError(t, s.Insert(ctx, storetest.Session("2", "Second")))

	moved := storetest.Session("2", "First")
	moved.Key = "first"
	err := s.Update(ctx, "2", moved)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err), "got %v", err)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "confkit.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	formats, err := sqlite.NewCollection[models.Format](ctx, db, "formats", "format")
	require.NoError(t, err)
	require.NoError(t, formats.Insert(ctx, models.Format{ID: "f1", Key: "quickie", Name: "Quickie"}))
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()
	formats, err = sqlite.NewCollection[models.Format](ctx, db, "formats", "format")
	require.NoError(t, err)

	got, ok, err := formats.GetByKey(ctx, "quickie")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Quickie", got.Name)
}

func TestRejectsBadTableName(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = sqlite.NewCollection[models.Format](ctx, db, "formats; DROP TABLE x", "format")
	assert.True(t, errors.IsValidationError(err))
}
