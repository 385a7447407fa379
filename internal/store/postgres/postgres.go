// Package postgres opens catalogue collections in a PostgreSQL database
// through the pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/agentstation/confkit/internal/store/sqlstore"
	"github.com/agentstation/confkit/pkg/store"
)

const (
	driverName = "pgx"
	// DefaultDSN targets a local database named after the event.
	DefaultDSN = "postgres://localhost/devfest?sslmode=disable"

	uniqueViolation = "23505"
)

// Open connects to the database at dsn.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewCollection opens the table holding records of type R.
func NewCollection[R store.Record](ctx context.Context, db *sql.DB, table, resource string) (*sqlstore.Collection[R], error) {
	return sqlstore.NewCollection[R](ctx, db, Dialect{}, table, resource)
}

// Dialect is the PostgreSQL flavour of sqlstore.Dialect.
type Dialect struct{}

// Name implements sqlstore.Dialect.
func (Dialect) Name() string { return "postgres" }

// Placeholder implements sqlstore.Dialect.
func (Dialect) Placeholder(n int) string { return fmt.Sprintf("$%d", n) }

// CreateTable implements sqlstore.Dialect.
func (Dialect) CreateTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		doc_key TEXT NOT NULL UNIQUE,
		body JSONB NOT NULL
	)`, table)
}

// IsUniqueViolation implements sqlstore.Dialect.
func (Dialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
