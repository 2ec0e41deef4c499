package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/telespotter/internal/client"
	"github.com/nao1215/telespotter/internal/config"
	"github.com/nao1215/telespotter/internal/model"
	"github.com/nao1215/telespotter/internal/session"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// ClientFactory builds source clients for one session. The server
// calls it per search request so each session can carry its own
// source selection.
type ClientFactory func(sources []model.Source) ([]client.Client, error)

// Server is the HTTP API for search sessions.
type Server struct {
	cfg      *config.Config
	clients  ClientFactory
	registry *session.Registry
	broker   *Broker
	logger   *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used by the server and its sessions.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry replaces the session registry. Useful for tests that
// need a short retention window.
func WithRegistry(registry *session.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// New creates a Server with the given configuration and client factory.
func New(cfg *config.Config, clients ClientFactory, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		clients: clients,
		broker:  NewBroker(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = session.NewRegistry(
			session.WithRetention(cfg.Retention),
			session.WithRegistryLogger(s.logger),
		)
	}
	return s
}

// Registry returns the server's session registry.
func (s *Server) Registry() *session.Registry {
	return s.registry
}

// Handler builds the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleStartSearch)
		r.Get("/search/{id}", s.handleGetSearch)
		r.Delete("/search/{id}", s.handleCancelSearch)
		r.Get("/search/{id}/events", s.handleEvents)
		r.Get("/search/{id}/export", s.handleExport)
		r.Post("/validate", s.handleValidate)
	})
	return r
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully and closes the registry.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.registry.StartSweeper(s.cfg.SweepInterval)
	defer s.registry.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server listening", "address", s.cfg.ListenAddress)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger logs one line per completed request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
