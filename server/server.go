// Package server composes every external interface into one http.Server:
// the REST routes, the Connect service and the Prometheus endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/tailored-agentic-units/bidon/metrics"
	"github.com/tailored-agentic-units/bidon/transport/rest"
	"github.com/tailored-agentic-units/bidon/transport/rpc"
)

// MetricsPath serves the Prometheus exposition format.
const MetricsPath = "/metrics"

// Backend is what the transports and the metrics collector read from.
// *registry.Registry satisfies it.
type Backend interface {
	rest.Store
	metrics.Source
}

type Server struct {
	http            *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg Config, backend Backend, logger *slog.Logger) (*Server, error) {
	defaults := DefaultConfig()
	defaults.Merge(&cfg)

	shutdown, request, err := defaults.Timeouts()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	promRegistry, err := metrics.NewRegistry(backend)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	// Method-less prefixes at the top level keep the REST patterns from
	// overlapping with the service and metrics paths.
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, metrics.Handler(promRegistry))
	mux.Handle(rpc.NewHandler(backend))
	mux.Handle("/", rest.NewHandler(backend, rest.Options{
		MaxValueBytes:  defaults.MaxValueBytes,
		RequestTimeout: request,
		Logger:         logger,
	}))

	return &Server{
		http: &http.Server{
			Addr:              defaults.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:          logger,
		shutdownTimeout: shutdown,
	}, nil
}

// Handler exposes the composed mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ShutdownTimeout is the parsed shutdown_timeout, also the budget callers
// should give the registry once Serve returns.
func (s *Server) ShutdownTimeout() time.Duration {
	return s.shutdownTimeout
}

// ListenAndServe listens on the configured address and serves until ctx
// is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServe, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errChan <- s.http.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down", "timeout", s.shutdownTimeout)
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%w: shutdown: %v", ErrServe, err)
		}
		return nil
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrServe, err)
	}
}
