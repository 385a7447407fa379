// Package backend opens the catalogue stores for a configured driver.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	mongostore "github.com/agentstation/confkit/internal/store/mongo"
	"github.com/agentstation/confkit/internal/store/postgres"
	"github.com/agentstation/confkit/internal/store/sqlite"
	"github.com/agentstation/confkit/internal/store/sqlstore"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/store"
)

// Driver names a store backend.
type Driver string

// Supported drivers.
const (
	Memory   Driver = "memory"
	SQLite   Driver = "sqlite"
	Postgres Driver = "postgres"
	Mongo    Driver = "mongo"
)

// DefaultDatabase is the MongoDB database used when none is configured.
const DefaultDatabase = "devfest"

// Collection names, shared by every driver.
const (
	CollectionSessions   = "sessions"
	CollectionSpeakers   = "speakers"
	CollectionCategories = "categories"
	CollectionFormats    = "formats"
	CollectionSponsors   = "sponsors"
	CollectionSite       = "site"
)

// Config selects and addresses a backend.
type Config struct {
	Driver   Driver `mapstructure:"driver" yaml:"driver" json:"driver"`
	DSN      string `mapstructure:"dsn" yaml:"dsn,omitempty" json:"dsn,omitempty"`
	Database string `mapstructure:"database" yaml:"database,omitempty" json:"database,omitempty"`
}

// Closer releases the resources held by opened stores.
type Closer func(ctx context.Context) error

func nopCloser(context.Context) error { return nil }

// Open opens the stores of the configured backend. The returned closer
// must be called once the stores are no longer used.
func Open(ctx context.Context, cfg Config) (catalog.Stores, Closer, error) {
	driver := Driver(strings.ToLower(string(cfg.Driver)))
	if driver == "" {
		driver = Memory
	}
	logger := logging.FromContext(ctx)

	switch driver {
	case Memory:
		logger.Debug().Msg("using in-memory stores")
		return catalog.NewMemoryStores(), nopCloser, nil

	case SQLite:
		db, err := sqlite.Open(ctx, cfg.DSN)
		if err != nil {
			return catalog.Stores{}, nil, errors.WrapStore("open", string(driver), err)
		}
		stores, err := openSQL(ctx, db, sqlite.Dialect{})
		return closeOnError(ctx, driver, stores, sqlCloser(db), err)

	case Postgres:
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return catalog.Stores{}, nil, errors.WrapStore("open", string(driver), err)
		}
		stores, err := openSQL(ctx, db, postgres.Dialect{})
		return closeOnError(ctx, driver, stores, sqlCloser(db), err)

	case Mongo:
		client, err := mongostore.Connect(ctx, cfg.DSN)
		if err != nil {
			return catalog.Stores{}, nil, errors.WrapStore("open", string(driver), err)
		}
		name := cfg.Database
		if name == "" {
			name = DefaultDatabase
		}
		stores, err := openMongo(ctx, client.Database(name))
		return closeOnError(ctx, driver, stores, client.Disconnect, err)

	default:
		return catalog.Stores{}, nil, errors.NewConfigError("store",
			fmt.Sprintf("unknown driver %q (want memory, sqlite, postgres or mongo)", cfg.Driver), nil)
	}
}

func sqlCloser(db *sql.DB) Closer {
	return func(context.Context) error { return db.Close() }
}

func closeOnError(ctx context.Context, driver Driver, stores catalog.Stores, closer Closer, err error) (catalog.Stores, Closer, error) {
	if err != nil {
		if cerr := closer(ctx); cerr != nil {
			logging.FromContext(ctx).Warn().Err(cerr).Msg("failed to close store after open error")
		}
		return catalog.Stores{}, nil, errors.WrapStore("open", string(driver), err)
	}
	return stores, closer, nil
}

func openSQL(ctx context.Context, db *sql.DB, dialect sqlstore.Dialect) (catalog.Stores, error) {
	var (
		s   catalog.Stores
		err error
	)
	if s.Sessions, err = sqlCollection[overlay.SessionDocument](ctx, db, dialect, CollectionSessions, catalog.ResourceSession); err != nil {
		return s, err
	}
	if s.Speakers, err = sqlCollection[overlay.SpeakerDocument](ctx, db, dialect, CollectionSpeakers, catalog.ResourceSpeaker); err != nil {
		return s, err
	}
	if s.Categories, err = sqlCollection[models.Category](ctx, db, dialect, CollectionCategories, catalog.ResourceCategory); err != nil {
		return s, err
	}
	if s.Formats, err = sqlCollection[models.Format](ctx, db, dialect, CollectionFormats, catalog.ResourceFormat); err != nil {
		return s, err
	}
	if s.Sponsors, err = sqlCollection[models.Sponsor](ctx, db, dialect, CollectionSponsors, catalog.ResourceSponsor); err != nil {
		return s, err
	}
	s.Site, err = sqlCollection[models.SiteInfo](ctx, db, dialect, CollectionSite, catalog.ResourceSite)
	return s, err
}

func sqlCollection[R store.Record](ctx context.Context, db *sql.DB, dialect sqlstore.Dialect, table, resource string) (store.Store[R], error) {
	c, err := sqlstore.NewCollection[R](ctx, db, dialect, table, resource)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func openMongo(ctx context.Context, db *mongo.Database) (catalog.Stores, error) {
	var (
		s   catalog.Stores
		err error
	)
	if s.Sessions, err = mongoCollection[overlay.SessionDocument](ctx, db, CollectionSessions, catalog.ResourceSession); err != nil {
		return s, err
	}
	if s.Speakers, err = mongoCollection[overlay.SpeakerDocument](ctx, db, CollectionSpeakers, catalog.ResourceSpeaker); err != nil {
		return s, err
	}
	if s.Categories, err = mongoCollection[models.Category](ctx, db, CollectionCategories, catalog.ResourceCategory); err != nil {
		return s, err
	}
	if s.Formats, err = mongoCollection[models.Format](ctx, db, CollectionFormats, catalog.ResourceFormat); err != nil {
		return s, err
	}
	if s.Sponsors, err = mongoCollection[models.Sponsor](ctx, db, CollectionSponsors, catalog.ResourceSponsor); err != nil {
		return s, err
	}
	s.Site, err = mongoCollection[models.SiteInfo](ctx, db, CollectionSite, catalog.ResourceSite)
	return s, err
}

func mongoCollection[R store.Record](ctx context.Context, db *mongo.Database, name, resource string) (store.Store[R], error) {
	c, err := mongostore.NewCollection[R](ctx, db, name, resource)
	if err != nil {
		return nil, err
	}
	return c, nil
}
