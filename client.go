// Package confkit keeps the content of a conference in sync with its
// call-for-papers while preserving the edits made by the organizers.
//
// A Client wires a catalogue of sessions, speakers, categories, formats and
// sponsors to a source and an authorization decider, and notifies hooks
// whenever a document changes or a synchronization completes.
//
// Example usage:
//
//	src, err := conferencehall.New(conferencehall.Config{EventID: "devfest", APIKey: key})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ck, err := confkit.New(confkit.WithSource(src))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ck.Close(ctx)
//
//	ck.OnSynced(func(ctx context.Context, r *sync.Result) {
//	    log.Printf("synced %d sessions", len(r.Sessions))
//	})
//
//	result, err := ck.Sync(ctx, sync.WithWorkers(4))
package confkit

import (
	"context"
	gosync "sync"
	"time"

	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
	"github.com/agentstation/confkit/pkg/sync"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client manages a catalogue with synchronization, authorization and hooks.
type Client interface {
	// Catalog returns the catalogue repositories.
	Catalog() *catalog.Catalog

	// Decider answers authorization questions
	Decider

	// Syncer runs synchronizations against the configured source
	Syncer

	// AutoSyncer controls background synchronization
	AutoSyncer

	// Hooks registers change callbacks
	Hooks

	// Close stops background work and releases the stores.
	Close(ctx context.Context) error
}

// Decider decides whether a user may perform an operation.
type Decider interface {
	IsAllowed(ctx context.Context, user acl.User, op acl.Operation) bool
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options

	catalog *catalog.Catalog
	engine  *sync.Engine
	decider *acl.Decider
	*hooks

	// auto sync state
	mu         gosync.Mutex
	syncTicker *time.Ticker
	stopCh     chan struct{}
	syncCancel context.CancelFunc
}

// New creates a new Client with the given options. Without WithStores the
// catalogue lives in memory.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	stores := catalog.NewMemoryStores()
	if o.stores != nil {
		stores = *o.stores
	}

	cat := catalog.New(stores)
	c := &client{
		options: o,
		catalog: cat,
		engine:  sync.NewEngine(cat),
		decider: acl.NewDecider(cat.Sessions),
		hooks:   newHooks(),
		stopCh:  make(chan struct{}),
	}
	cat.OnChange(c.hooks.triggerDocumentChanged)

	logging.Debug().
		Bool("source", o.source != nil).
		Bool("auto_sync", o.autoSyncEnabled).
		Msg("confkit client created")

	if o.autoSyncEnabled {
		if err := c.AutoSyncOn(); err != nil {
			return nil, errors.WrapResource("start", "auto-sync", "", err)
		}
	}
	return c, nil
}

// Catalog implements Client.
func (c *client) Catalog() *catalog.Catalog {
	return c.catalog
}

// IsAllowed implements Decider.
func (c *client) IsAllowed(ctx context.Context, user acl.User, op acl.Operation) bool {
	return c.decider.IsAllowed(ctx, user, op)
}

// Close implements Client.
func (c *client) Close(ctx context.Context) error {
	if err := c.AutoSyncOff(); err != nil {
		return err
	}
	if c.options.closer != nil {
		return c.options.closer(ctx)
	}
	return nil
}
