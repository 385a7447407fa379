package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/store/postgres"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
	"github.com/agentstation/confkit/pkg/store/storetest"
)

const dsnEnv = "CONFKIT_TEST_POSTGRES_DSN"

var tableSeq atomic.Int64

func TestContract(t *testing.T) {
	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		t.Skipf("%s not set", dsnEnv)
	}
	ctx := context.Background()
	db, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	storetest.Run(t, func(t *testing.T) store.Store[overlay.SessionDocument] {
		table := fmt.Sprintf("confkit_test_sessions_%d_%d", os.Getpid(), tableSeq.Add(1))
		t.Cleanup(func() { _, _ = db.ExecContext(context.Background(), "DROP TABLE IF EXISTS "+table) })

		sessions, err := postgres.NewCollection[overlay.SessionDocument](ctx, db, table, "session")
		require.NoError(t, err)
		return sessions
	})
}

func TestDialect(t *testing.T) {
	d := postgres.Dialect{}
	assert.Equal(t, "$3", d.Placeholder(3))
	assert.Contains(t, d.CreateTable("sessions"), "JSONB")
	assert.False(t, d.IsUniqueViolation(fmt.Errorf("boom")))
}
