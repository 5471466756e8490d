// Package server wires the notes API into an HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"example.com/markdown-notes/internal/config"
	"example.com/markdown-notes/internal/notes"
)

// NotesStore is what the router needs from the note store.
type NotesStore interface {
	notes.Store
	Sizer
}

// NewRouter builds the full handler tree:
//
//	GET    /health
//	GET    /metrics        (when enabled)
//	POST   /api/notes
//	GET    /api/notes
//	DELETE /api/notes?id=
func NewRouter(cfg *config.Config, logger zerolog.Logger, store NotesStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(logger))

	// Metrics wrap Recoverer so recovered panics are counted as 500s.
	var m *Metrics
	if cfg.Metrics.Enabled {
		m = NewMetrics(store)
		r.Use(m.Middleware)
	}

	r.Use(
		Recoverer,
		CORS(cfg.HTTP.CORSOrigin),
		BodyLimit(cfg.HTTP.MaxBodyBytes),
	)

	if m != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, m.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Mount("/api/notes", notes.NewHandlers(store).Routes())

	return r
}

// Server wraps http.Server with non-blocking start and graceful shutdown.
type Server struct {
	http   *http.Server
	logger zerolog.Logger
}

func New(cfg *config.Config, logger zerolog.Logger, store NotesStore) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           NewRouter(cfg, logger, store),
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
		},
		logger: logger,
	}
}

// Start serves in the background. The channel receives a listen error,
// if any, and is closed when the server stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info().Str("addr", s.http.Addr).Msg("notes API listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	return errCh
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down notes API")
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) Addr() string {
	return s.http.Addr
}
