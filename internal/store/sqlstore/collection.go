// Package sqlstore implements store.Store on top of database/sql. Records are
// kept as JSON bodies next to their id and key columns; the SQL flavour is
// abstracted by a Dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/store"
)

// Dialect captures what differs between SQL engines.
type Dialect interface {
	// Name of the engine, for logs.
	Name() string
	// Placeholder returns the n-th (1-based) bind parameter.
	Placeholder(n int) string
	// CreateTable returns the DDL of a collection table.
	CreateTable(table string) string
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation(err error) bool
}

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Collection is a store.Store backed by one SQL table.
type Collection[R store.Record] struct {
	db       *sql.DB
	dialect  Dialect
	table    string
	resource string
}

// NewCollection creates the table if needed and returns the collection.
func NewCollection[R store.Record](ctx context.Context, db *sql.DB, dialect Dialect, table, resource string) (*Collection[R], error) {
	if !tableName.MatchString(table) {
		return nil, errors.NewValidationError("table", table, "must be a lower-case SQL identifier")
	}
	if _, err := db.ExecContext(ctx, dialect.CreateTable(table)); err != nil {
		return nil, fmt.Errorf("create %s table: %w", table, err)
	}
	return &Collection[R]{db: db, dialect: dialect, table: table, resource: resource}, nil
}

// GetByID implements store.Store.
func (c *Collection[R]) GetByID(ctx context.Context, id string) (R, bool, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE id = %s`, c.table, c.dialect.Placeholder(1))
	return c.getOne(ctx, query, id)
}

// GetByKey implements store.Store.
func (c *Collection[R]) GetByKey(ctx context.Context, key string) (R, bool, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE doc_key = %s`, c.table, c.dialect.Placeholder(1))
	return c.getOne(ctx, query, key)
}

// GetByKeys implements store.Store.
func (c *Collection[R]) GetByKeys(ctx context.Context, keys []string) ([]R, error) {
	if len(keys) == 0 {
		return []R{}, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, key := range keys {
		placeholders[i] = c.dialect.Placeholder(i + 1)
		args[i] = key
	}
	query := fmt.Sprintf(`SELECT body FROM %s WHERE doc_key IN (%s)`, c.table, strings.Join(placeholders, ", "))

	found, err := c.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]R, len(found))
	for _, r := range found {
		byKey[r.RecordKey()] = r
	}
	result := make([]R, 0, len(found))
	for _, key := range keys {
		if r, ok := byKey[key]; ok {
			result = append(result, r)
		}
	}
	return result, nil
}

// Insert implements store.Store.
func (c *Collection[R]) Insert(ctx context.Context, r R) error {
	body, err := json.Marshal(r)
	if err != nil {
		return errors.WrapStore("insert", c.resource, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapStore("insert", c.resource, err)
	}
	defer func() { _ = tx.Rollback() }()

	id, key := r.RecordID(), r.RecordKey()
	if exists, err := c.exists(ctx, tx, "id", id); err != nil {
		return err
	} else if exists {
		return errors.NewDuplicateIDError(c.resource, id)
	}
	if exists, err := c.exists(ctx, tx, "doc_key", key); err != nil {
		return err
	} else if exists {
		return errors.NewDuplicateKeyError(c.resource, key)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, doc_key, body) VALUES (%s, %s, %s)`,
		c.table, c.dialect.Placeholder(1), c.dialect.Placeholder(2), c.dialect.Placeholder(3))
	if _, err := tx.ExecContext(ctx, query, id, key, string(body)); err != nil {
		if c.dialect.IsUniqueViolation(err) {
			return errors.NewDuplicateKeyError(c.resource, key)
		}
		return errors.WrapStore("insert", c.resource, err)
	}
	return errors.WrapStore("insert", c.resource, tx.Commit())
}

// Update implements store.Store.
func (c *Collection[R]) Update(ctx context.Context, id string, r R) error {
	if err := store.CheckUpdate(c.resource, id, r); err != nil {
		return err
	}
	body, err := json.Marshal(r)
	if err != nil {
		return errors.WrapStore("update", c.resource, err)
	}

	query := fmt.Sprintf(`UPDATE %s SET doc_key = %s, body = %s WHERE id = %s`,
		c.table, c.dialect.Placeholder(1), c.dialect.Placeholder(2), c.dialect.Placeholder(3))
	res, err := c.db.ExecContext(ctx, query, r.RecordKey(), string(body), id)
	if err != nil {
		if c.dialect.IsUniqueViolation(err) {
			return errors.NewDuplicateKeyError(c.resource, r.RecordKey())
		}
		return errors.WrapStore("update", c.resource, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapStore("update", c.resource, err)
	}
	if n == 0 {
		return errors.NewNotFoundError(c.resource, id)
	}
	return nil
}

// ListAll implements store.Store.
func (c *Collection[R]) ListAll(ctx context.Context) ([]R, error) {
	return c.query(ctx, fmt.Sprintf(`SELECT body FROM %s ORDER BY doc_key`, c.table))
}

// DeleteByID implements store.Store.
func (c *Collection[R]) DeleteByID(ctx context.Context, id string) (R, bool, error) {
	var zero R
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return zero, false, errors.WrapStore("delete", c.resource, err)
	}
	defer func() { _ = tx.Rollback() }()

	var body string
	query := fmt.Sprintf(`SELECT body FROM %s WHERE id = %s`, c.table, c.dialect.Placeholder(1))
	if err := tx.QueryRowContext(ctx, query, id).Scan(&body); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, errors.WrapStore("delete", c.resource, err)
	}
	r, err := c.decode([]byte(body))
	if err != nil {
		return zero, false, err
	}

	del := fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, c.table, c.dialect.Placeholder(1))
	if _, err := tx.ExecContext(ctx, del, id); err != nil {
		return zero, false, errors.WrapStore("delete", c.resource, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, false, errors.WrapStore("delete", c.resource, err)
	}
	return r, true, nil
}

func (c *Collection[R]) getOne(ctx context.Context, query string, arg string) (R, bool, error) {
	var zero R
	var body string
	if err := c.db.QueryRowContext(ctx, query, arg).Scan(&body); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return zero, false, nil
		}
		return zero, false, errors.WrapStore("get", c.resource, err)
	}
	r, err := c.decode([]byte(body))
	if err != nil {
		return zero, false, err
	}
	return r, true, nil
}

func (c *Collection[R]) query(ctx context.Context, query string, args ...any) ([]R, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.WrapStore("list", c.resource, err)
	}
	defer func() { _ = rows.Close() }()

	result := []R{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, errors.WrapStore("list", c.resource, err)
		}
		r, err := c.decode([]byte(body))
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapStore("list", c.resource, err)
	}
	return result, nil
}

func (c *Collection[R]) exists(ctx context.Context, tx *sql.Tx, column, value string) (bool, error) {
	var one int
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = %s`, c.table, column, c.dialect.Placeholder(1))
	err := tx.QueryRowContext(ctx, query, value).Scan(&one)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, errors.WrapStore("get", c.resource, err)
	default:
		return true, nil
	}
}

func (c *Collection[R]) decode(body []byte) (R, error) {
	var r R
	if err := json.Unmarshal(body, &r); err != nil {
		return r, errors.WrapStore("decode", c.resource, err)
	}
	return r, nil
}
