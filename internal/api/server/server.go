// Package server holds the startup and shutdown sequence the service
// binaries share.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
	"github.com/zatekoja/claimsflow/pkg/config"
)

const shutdownTimeout = 10 * time.Second

// Telemetry is the observability state of a running service
type Telemetry struct {
	Metrics  *observability.Metrics
	shutdown func(context.Context) error
}

// Bootstrap initializes logging, tracing and metrics. Tracing failures only
// warn; the service keeps running without export.
func Bootstrap(ctx context.Context, cfg *config.Config) *Telemetry {
	observability.InitLogger(cfg.Service, cfg.Env)

	t := &Telemetry{}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			t.shutdown = shutdown
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize metrics")
	}
	t.Metrics = metrics
	return t
}

// Close flushes pending telemetry
func (t *Telemetry) Close() {
	if t == nil || t.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := t.shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
	}
}

// New builds the HTTP server for cfg
func New(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully
func Run(cfg *config.Config, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Serve(ctx, New(cfg, handler))
}

// Serve runs srv until ctx is done. A listen failure is returned at once.
func Serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
