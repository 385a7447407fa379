// Package server provides the HTTP server of the confkit admin API and its
// change feed.
package server

import (
	"context"
	"net/http"
	gosync "sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/server/events"
	ws "github.com/agentstation/confkit/internal/server/websocket"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/sync"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app       application.Application
	broker    *events.Broker
	wsHub     *ws.Hub
	upgrader  websocket.Upgrader
	logger    *zerolog.Logger
	config    Config
	ctx       context.Context
	cancel    context.CancelFunc
	wg        gosync.WaitGroup
	startTime time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("server", "invalid configuration", err)
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	broker.Subscribe(wsHub)
	logger.Debug().Msg("WebSocket transport subscribed to event broker")

	ctx, cancel := context.WithCancel(context.Background())

	server := &Server{
		app:    app,
		broker: broker,
		wsHub:  wsHub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	if err := server.connectHooks(); err != nil {
		cancel()
		return nil, err
	}
	return server, nil
}

// connectHooks publishes catalogue changes and sync results to the broker.
func (s *Server) connectHooks() error {
	client, err := s.app.Client()
	if err != nil {
		return errors.NewConfigError("server", "client unavailable", err)
	}

	client.OnDocumentChanged(func(_ context.Context, change catalog.Change) {
		eventType, data := events.FromChange(change)
		s.broker.Publish(eventType, data)
		s.logger.Debug().
			Str("event_type", string(eventType)).
			Str("resource", change.Resource).
			Str("entity_id", change.ID.String()).
			Msg("Document event published")
	})

	client.OnSynced(func(_ context.Context, result *sync.Result) {
		s.broker.Publish(events.SyncCompleted, events.FromResult(result))
	})

	s.logger.Info().Msg("confkit hooks connected to event broker")
	return nil
}

// Start starts background services (broker and WebSocket hub).
func (s *Server) Start() {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.broker.Run(s.ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.wsHub.Run(s.ctx)
	}()
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services and waits for them until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Config returns the server configuration.
func (s *Server) Config() Config {
	return s.config
}

// StartTime returns when the server was created.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
