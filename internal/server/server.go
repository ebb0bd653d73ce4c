// Package server implements the HTTP API for serve mode.
//
// The API exposes the same load → layout → render pipeline as the CLI:
//
//	GET  /healthz               - liveness probe with build info
//	POST /api/layout            - family document in, computed layout out
//	POST /api/render/{format}   - family document in, rendered artifact out
//
// Request bodies are family documents in the canonical JSON format. Layout
// spacing can be overridden per request via the spacing field of the
// document envelope.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ancestree/ancestree/pkg/config"
	"github.com/ancestree/ancestree/pkg/pipeline"
)

// Server hosts the HTTP API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    config.ServerSettings
}

// New creates a server. The runner must not be nil; a nil logger falls back
// to the default logger.
func New(runner *pipeline.Runner, logger *log.Logger, cfg config.ServerSettings) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: runner,
		logger: logger,
		cfg:    cfg,
	}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout()))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then drains
// in-flight requests before returning.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.RequestTimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.cfg.RequestTimeoutSeconds) * time.Second
}
