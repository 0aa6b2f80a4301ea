// Package server exposes the content and statistics routes over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

// ContentProvider resolves the site content for a requested language.
type ContentProvider interface {
	Content(ctx context.Context, lang string) (*domain.ResolvedContent, error)
}

// StatsProvider returns the statistics summary of the configured account.
type StatsProvider interface {
	Summary(ctx context.Context) (*domain.StatsSummary, error)
}

// Config holds configuration for the server.
type Config struct {
	Content ContentProvider
	Stats   StatsProvider
	Addr    string
	// ExposeErrors returns the raw failure message from the content route
	// instead of a generic one.
	ExposeErrors    bool
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server is the HTTP API server.
type Server struct {
	content         ContentProvider
	stats           StatsProvider
	addr            string
	exposeErrors    bool
	shutdownTimeout time.Duration
	logger          *slog.Logger
	handler         http.Handler
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	s := &Server{
		content:         cfg.Content,
		stats:           cfg.Stats,
		addr:            cfg.Addr,
		exposeErrors:    cfg.ExposeErrors,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 5 * time.Second
	}
	s.handler = s.routes()
	return s
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.serveListener(ctx, ln)
}

func (s *Server) serveListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	// Requests keep the parent's values but not its cancellation, so
	// in-flight fetches can finish within the shutdown timeout.
	baseCtx := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return baseCtx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
