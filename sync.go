package confkit

import (
	"context"

	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/sync"
)

// Syncer runs synchronizations.
type Syncer interface {
	// Sync pulls the configured source into the catalogue.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)
}

// Sync implements Syncer. Hooks registered with OnSynced run after every
// successful run, dry runs included.
func (c *client) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.options.source == nil {
		return nil, errors.NewConfigError("confkit", "no source configured", nil)
	}

	all := make([]sync.Option, 0, len(c.options.syncOptions)+len(opts))
	all = append(all, c.options.syncOptions...)
	all = append(all, opts...)

	result, err := c.engine.Run(ctx, c.options.source, all...)
	if err != nil {
		return nil, err
	}
	c.hooks.triggerSynced(ctx, result)
	return result, nil
}
