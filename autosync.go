package confkit

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*client)(nil)

// AutoSyncer provides controls for background synchronization.
type AutoSyncer interface {
	// AutoSyncOn starts synchronizing periodically
	AutoSyncOn() error

	// AutoSyncOff stops background synchronization
	AutoSyncOff() error
}

// AutoSyncOn starts synchronizing every configured interval.
func (c *client) AutoSyncOn() error {
	if c.options.source == nil {
		return errors.NewConfigError("confkit", "auto-sync requires a source", nil)
	}
	if c.options.autoSyncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   c.options.autoSyncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any running loop first
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopCh = make(chan struct{})
	c.syncTicker = time.NewTicker(c.options.autoSyncInterval)
	ctx, cancel := context.WithCancel(context.Background())
	c.syncCancel = cancel

	go c.autoSyncLoop(ctx, c.syncTicker, c.stopCh)
	return nil
}

func (c *client) autoSyncLoop(parentCtx context.Context, ticker *time.Ticker, stopCh chan struct{}) {
	for {
		select {
		case <-ticker.C:
			syncCtx, cancel := context.WithTimeout(parentCtx, constants.SyncTimeout)
			_, err := c.Sync(syncCtx)
			cancel()

			if err != nil {
				if stderrors.Is(err, context.Canceled) {
					return
				}
				// Log other errors but keep the loop alive
				logging.Error().Err(err).Msg("Auto-sync failed")
			}
		case <-parentCtx.Done():
			return
		case <-stopCh:
			return
		}
	}
}

// AutoSyncOff stops background synchronization.
func (c *client) AutoSyncOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.syncTicker != nil {
		c.syncTicker.Stop()
		c.syncTicker = nil
	}
	if c.syncCancel != nil {
		c.syncCancel()
		c.syncCancel = nil
	}
	select {
	case <-c.stopCh:
		// Already closed
	default:
		close(c.stopCh)
	}
	return nil
}
