package sync

import (
	"fmt"
	"time"

	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
)

// Options configures a synchronization run.
type Options struct {
	Workers int           // concurrent entity upserts, 1 means sequential
	Timeout time.Duration // bound of the whole run, zero means none
	DryRun  bool          // compute the result without writing
}

// Option is a function that configures Options.
type Option func(*Options)

// NewOptions returns the defaults with opts applied.
func NewOptions(opts ...Option) *Options {
	o := &Options{Workers: constants.DefaultSyncWorkers}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Workers < 1 || o.Workers > constants.MaxSyncWorkers {
		return errors.NewValidationError("workers", o.Workers,
			fmt.Sprintf("must be between 1 and %d", constants.MaxSyncWorkers))
	}
	if o.Timeout < 0 {
		return errors.NewValidationError("timeout", o.Timeout, "must not be negative")
	}
	return nil
}

// WithWorkers processes up to n entities concurrently.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithTimeout bounds the run. Writes committed before the deadline stay.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithDryRun reports what a run would do without writing anything.
func WithDryRun(enabled bool) Option {
	return func(o *Options) {
		o.DryRun = enabled
	}
}
