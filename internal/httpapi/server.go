// Package httpapi exposes the scanner over a small read-mostly HTTP
// surface: scan execution, health, Prometheus metrics, and the persisted
// collections when a store is configured.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/vinchivii/detonation-scanner/internal/scan"
	"github.com/vinchivii/detonation-scanner/internal/store/postgres"
)

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns a local-only listener on 8080.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "127.0.0.1",
		Port:         8080,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// GuardStates reports provider breaker states for the health endpoint.
type GuardStates func() map[string]string

// Server routes scan requests to the pipeline and collection requests to
// the store.
type Server struct {
	router      *mux.Router
	server      *http.Server
	pipeline    *scan.Pipeline
	store       *postgres.Store
	guardStates GuardStates
}

// NewServer assembles the router. store and guardStates may be nil.
func NewServer(cfg ServerConfig, pipeline *scan.Pipeline, store *postgres.Store, guardStates GuardStates) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		pipeline:    pipeline,
		store:       store,
		guardStates: guardStates,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scan", s.handleScan).Methods(http.MethodPost)

	if s.store != nil {
		api.HandleFunc("/profiles", s.handleListProfiles).Methods(http.MethodGet)
		api.HandleFunc("/profiles", s.handleSaveProfile).Methods(http.MethodPost)
		api.HandleFunc("/profiles/{name}", s.handleGetProfile).Methods(http.MethodGet)
		api.HandleFunc("/profiles/{name}", s.handleDeleteProfile).Methods(http.MethodDelete)

		api.HandleFunc("/watchlist", s.handleWatchlist).Methods(http.MethodGet)
		api.HandleFunc("/watchlist", s.handleAddWatchlist).Methods(http.MethodPost)
		api.HandleFunc("/watchlist/{ticker}", s.handleRemoveWatchlist).Methods(http.MethodDelete)

		api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Start blocks serving HTTP until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler { return s.router }
