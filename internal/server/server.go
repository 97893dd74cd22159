// Package server provides the HTTP server and routing for TalentWatch.
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

	"github.com/aristath/talentwatch/internal/config"
	"github.com/aristath/talentwatch/internal/modules/competition"
	competitionhandlers "github.com/aristath/talentwatch/internal/modules/competition/handlers"
	"github.com/aristath/talentwatch/internal/modules/dataset"
	datasethandlers "github.com/aristath/talentwatch/internal/modules/dataset/handlers"
	"github.com/aristath/talentwatch/internal/modules/periods"
	"github.com/aristath/talentwatch/internal/modules/skills"
	skillshandlers "github.com/aristath/talentwatch/internal/modules/skills/handlers"
	"github.com/aristath/talentwatch/internal/modules/surge"
	surgehandlers "github.com/aristath/talentwatch/internal/modules/surge/handlers"
	"github.com/aristath/talentwatch/pkg/metrics"
)

// Config holds server configuration
type Config struct {
	Log        zerolog.Logger
	Cfg        *config.Config
	Dataset    *dataset.Service
	Metrics    *metrics.Metrics
	Vocabulary skills.Vocabulary
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	cfg     *config.Config
	dataset *dataset.Service
	metrics *metrics.Metrics
	system  *SystemHandlers
}

// New creates a new HTTP server with all module routes registered.
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		cfg:     cfg.Cfg,
		dataset: cfg.Dataset,
		metrics: cfg.Metrics,
		system:  NewSystemHandlers(cfg.Log, cfg.Dataset),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(s.metrics.Middleware)

	s.registerRoutes(cfg)
	return s
}

func (s *Server) registerRoutes(cfg Config) {
	granularity := s.cfg.Granularity
	if !granularity.Valid() {
		granularity = periods.GranularityMonth
	}

	surgeHandler := surgehandlers.NewHandler(
		s.dataset,
		surge.Options{LookbackMonths: s.cfg.LookbackMonths},
		s.metrics,
		s.log,
	)
	competitionHandler := competitionhandlers.NewHandler(
		s.dataset,
		competition.Options{
			Granularity:   granularity,
			Lookback:      s.cfg.LookbackMonths,
			TopAgencies:   s.cfg.TopAgencies,
			TopCategories: s.cfg.TopCategories,
		},
		s.cfg.YourAgency,
		s.metrics,
		s.log,
	)
	skillsHandler := skillshandlers.NewHandler(
		s.dataset,
		skills.Options{
			Granularity: granularity,
			Lookback:    s.cfg.LookbackMonths,
			TopSkills:   s.cfg.TopSkills,
			Vocabulary:  cfg.Vocabulary,
		},
		s.metrics,
		s.log,
	)
	datasetHandler := datasethandlers.NewHandler(s.dataset, s.metrics, s.log)

	surgeHandler.RegisterRoutes(s.router)
	competitionHandler.RegisterRoutes(s.router)
	skillsHandler.RegisterRoutes(s.router)
	datasetHandler.RegisterRoutes(s.router)

	s.router.Get("/api/health", s.system.HandleHealth)
	s.router.Get("/api/system/status", s.system.HandleStatus)
	s.router.Method("GET", "/metrics", s.metrics.Handler())
}

// Start begins serving HTTP requests. Blocks until the listener fails or the
// server is shut down.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router, used by route tests.
func (s *Server) Router() chi.Router {
	return s.router
}
