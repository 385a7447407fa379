// Package app provides the application context and dependency management
// for the confkit CLI. It centralizes configuration, logging and the lazily
// created confkit client shared by every command.
package app

import (
	"context"
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/backend"
	"github.com/agentstation/confkit/internal/sources/conferencehall"
	"github.com/agentstation/confkit/internal/sources/file"
	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/sources"
	"github.com/agentstation/confkit/pkg/sync"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the confkit application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// client is created on first use
	mu     gosync.RWMutex
	client confkit.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the confkit client, opening the configured stores on
// first use. This is thread-safe and ensures only one client is created.
func (a *App) Client() (confkit.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts, closer, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := confkit.New(opts...)
	if err != nil {
		_ = closer(context.Background())
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// clientOptions opens the stores and builds the source from the configuration.
func (a *App) clientOptions() ([]confkit.Option, backend.Closer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.StoreTimeout)
	defer cancel()

	stores, closer, err := backend.Open(ctx, a.config.Store)
	if err != nil {
		return nil, nil, err
	}
	opts := []confkit.Option{
		confkit.WithStores(stores, closer),
		confkit.WithSyncOptions(
			sync.WithWorkers(a.config.Sync.Workers),
			sync.WithTimeout(a.config.Sync.Timeout),
		),
	}

	if a.config.Sync.Interval > 0 {
		opts = append(opts, confkit.WithAutoSyncInterval(a.config.Sync.Interval))
	}
	if a.config.Source.Configured() {
		src, err := NewSource(a.config.Source)
		if err != nil {
			_ = closer(context.Background())
			return nil, nil, err
		}
		opts = append(opts, confkit.WithSource(src))
	}
	return opts, closer, nil
}

// NewSource builds the source described by cfg.
func NewSource(cfg SourceConfig) (sources.Source, error) {
	switch cfg.Type {
	case sources.FileID:
		return file.New(cfg.Path)
	case sources.ConferenceHallID, "":
		return conferencehall.New(conferencehall.Config{
			URL:     cfg.URL,
			EventID: cfg.EventID,
			APIKey:  cfg.APIKey,
		})
	default:
		return nil, errors.NewConfigError("config", "unknown source type "+cfg.Type.String(), nil)
	}
}

// Shutdown performs graceful shutdown of the application. It stops
// background synchronization and closes the stores.
func (a *App) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	c := a.client
	a.client = nil
	a.mu.Unlock()

	if c == nil {
		return nil
	}
	if err := c.Close(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to close client during shutdown")
		return err
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client (useful for testing).
func WithClient(c confkit.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
