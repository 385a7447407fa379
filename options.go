package confkit

import (
	"context"
	"time"

	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/sources"
	"github.com/agentstation/confkit/pkg/sync"
)

// options holds the configuration of a Client.
type options struct {
	stores           *catalog.Stores
	closer           func(context.Context) error
	source           sources.Source
	syncOptions      []sync.Option
	autoSyncEnabled  bool
	autoSyncInterval time.Duration
}

// Option is a function that configures a Client.
type Option func(*options) error

func defaults() *options {
	return &options{
		autoSyncEnabled:  false,
		autoSyncInterval: constants.DefaultAutoSyncInterval,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.autoSyncEnabled && o.source == nil {
		return nil, errors.NewConfigError("confkit", "auto-sync requires a source", nil)
	}
	return o, nil
}

// WithStores backs the catalogue with stores. closer, if not nil, is called
// by Client.Close.
func WithStores(stores catalog.Stores, closer func(context.Context) error) Option {
	return func(o *options) error {
		if stores.Sessions == nil || stores.Speakers == nil || stores.Categories == nil ||
			stores.Formats == nil || stores.Sponsors == nil || stores.Site == nil {
			return errors.NewConfigError("confkit", "every store must be set", nil)
		}
		o.stores = &stores
		o.closer = closer
		return nil
	}
}

// WithSource configures the source read by Sync.
func WithSource(src sources.Source) Option {
	return func(o *options) error {
		o.source = src
		return nil
	}
}

// WithSyncOptions sets defaults applied before the options given to Sync.
func WithSyncOptions(opts ...sync.Option) Option {
	return func(o *options) error {
		o.syncOptions = append(o.syncOptions, opts...)
		return nil
	}
}

// WithAutoSync configures whether background synchronization starts with the client.
func WithAutoSync(enabled bool) Option {
	return func(o *options) error {
		o.autoSyncEnabled = enabled
		return nil
	}
}

// WithAutoSyncInterval configures how often background synchronization runs.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(o *options) error {
		if interval <= 0 {
			return errors.NewValidationError("autoSyncInterval", interval, "must be positive")
		}
		o.autoSyncInterval = interval
		return nil
	}
}
