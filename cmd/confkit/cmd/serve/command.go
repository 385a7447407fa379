// Package serve provides the serve command that runs the admin REST API.
package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/emoji"
	"github.com/agentstation/confkit/internal/server"
	"github.com/agentstation/confkit/pkg/constants"
)

// Settings holds what the serve command reads from the configuration.
type Settings struct {
	Server   server.Config
	AutoSync bool
}

// NewCommand creates the serve command. settings is read when the command
// runs, after flags and configuration are final.
func NewCommand(app application.Application, settings func() Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: "core",
		Short:   "Serve the admin REST API",
		Long: `Start the admin REST API for sessions and speakers.

Features:
  - Session and speaker endpoints with per-user permissions
  - Synchronization endpoint (POST /api/v1/sync)
  - WebSocket change feed (/api/v1/updates/ws)
  - Prometheus metrics (/metrics)
  - Graceful shutdown with connection draining`,
		Example: `  # Start on the default port
  confkit serve

  # Start with background synchronization
  confkit serve --port 3000 --auto-sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings()
			flags := cmd.Flags()
			if flags.Changed("host") {
				s.Server.Host, _ = flags.GetString("host")
			}
			if flags.Changed("port") {
				s.Server.Port, _ = flags.GetInt("port")
			}
			if flags.Changed("auto-sync") {
				s.AutoSync, _ = flags.GetBool("auto-sync")
			}
			return run(cmd.Context(), cmd.OutOrStdout(), app, s)
		},
	}

	cmd.Flags().String("host", constants.DefaultHTTPHost, "Bind address")
	cmd.Flags().IntP("port", "p", constants.DefaultHTTPPort, "Server port")
	cmd.Flags().Bool("auto-sync", false, "Synchronize with the source periodically")

	return cmd
}

func run(ctx context.Context, out io.Writer, app application.Application, s Settings) error {
	logger := app.Logger()

	srv, err := server.New(app, s.Server)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	srv.Start()

	if s.AutoSync {
		c, err := app.Client()
		if err != nil {
			return err
		}
		if err := c.AutoSyncOn(); err != nil {
			return err
		}
		defer func() { _ = c.AutoSyncOff() }()
	}

	httpServer := &http.Server{
		Addr:         s.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  s.Server.ReadTimeout,
		WriteTimeout: s.Server.WriteTimeout,
		IdleTimeout:  s.Server.IdleTimeout,
	}

	logger.Info().
		Str("addr", httpServer.Addr).
		Str("prefix", s.Server.PathPrefix).
		Int("users", len(s.Server.Accounts)).
		Bool("auto_sync", s.AutoSync).
		Bool("metrics", s.Server.MetricsEnabled).
		Msg("Starting API server")

	return startWithGracefulShutdown(ctx, out, httpServer, srv, logger)
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and stops the event broker.
func startWithGracefulShutdown(ctx context.Context, out io.Writer, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		fmt.Fprintf(out, "%s Starting API server on %s\n", emoji.Info, httpServer.Addr)
		fmt.Fprintln(out, "   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Fprintf(out, "\n%s Shutting down API server...\n", emoji.Stop)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("event broker shutdown failed: %w", err)
	}

	logger.Info().Msg("Server stopped gracefully")
	fmt.Fprintf(out, "%s API server stopped gracefully\n", emoji.Success)
	return nil
}
