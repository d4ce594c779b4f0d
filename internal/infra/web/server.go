package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dungpasoftware/van-edu-be/internal/infra/metrics"
)

// Pinger is anything that can answer a liveness probe against a backing
// store (the pgx pool and the redis client both qualify).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the operational HTTP surface: health, readiness, and Prometheus
// metrics. The public REST API is out of scope here.
type Server struct {
	db    Pinger
	cache Pinger
	log   *zerolog.Logger
	srv   *http.Server
}

func NewServer(port int, db, cache Pinger, logger *zerolog.Logger) *Server {
	sLog := logger.With().Str("component", "OpsServer").Logger()
	s := &Server{db: db, cache: cache, log: &sLog}

	metrics.MustRegister()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("ops server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Warn().Err(err).Msg("readiness: database unreachable")
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			s.log.Warn().Err(err).Msg("readiness: redis unreachable")
			http.Error(w, "cache unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}
