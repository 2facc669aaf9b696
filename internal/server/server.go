// Package server provides the HTTP server and routing for the temperature
// scoring service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/carbonview/tempscore/internal/config"
	"github.com/carbonview/tempscore/internal/modules/provider"
	"github.com/carbonview/tempscore/internal/modules/reference"
	"github.com/carbonview/tempscore/internal/modules/scoring"
	scoringhandlers "github.com/carbonview/tempscore/internal/modules/scoring/handlers"
)

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	Config   *config.Config
	Store    *reference.Store
	Provider provider.DataProvider
	Dumps    *scoring.DumpWriter
}

// Server is the HTTP API server
type Server struct {
	router chi.Router
	http   *http.Server
	log    zerolog.Logger
}

// New creates the server and mounts all routes
func New(cfg Config) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	scoringHandlers := scoringhandlers.NewHandlers(
		cfg.Store,
		cfg.Provider,
		cfg.Dumps,
		scoringhandlers.Defaults{
			FallbackScore:     cfg.Config.FallbackScore,
			Model:             cfg.Config.Model,
			AggregationMethod: cfg.Config.AggregationMethod,
		},
		cfg.Log,
	)
	systemHandlers := NewSystemHandlers(cfg.Log)

	router.Route("/api", func(r chi.Router) {
		scoringHandlers.RegisterRoutes(r)
		r.Get("/health", systemHandlers.HandleHealth)
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Config.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: cfg.Log.With().Str("component", "server").Logger(),
	}
}

// Start begins serving HTTP requests; it blocks until the server stops
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.http.Addr).Msg("HTTP server starting")
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.http.Shutdown(ctx)
}
