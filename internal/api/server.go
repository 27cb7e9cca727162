package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/homequest-decor/internal/api/handlers"
	"github.com/eshaffer321/homequest-decor/internal/api/middleware"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
	svc        *service.OptimizeService
}

// NewServer creates a new API server. The service must share repo so that
// runs it records are visible through the run endpoints.
func NewServer(cfg Config, repo storage.Repository, svc *service.OptimizeService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		repo:   repo,
		svc:    svc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	// CORS
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	// Request logging
	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	cat := s.svc.Engine().Catalog()

	// Health check (no /api prefix - for load balancers)
	var schema handlers.SchemaVersioner
	if v, ok := s.repo.(handlers.SchemaVersioner); ok {
		schema = v
	}
	healthHandler := handlers.NewHealthHandler(schema)
	s.router.Get("/health", healthHandler.ServeHTTP)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		// Catalog
		catalogHandler := handlers.NewCatalogHandler(cat)
		r.Get("/decorations", catalogHandler.Decorations)
		r.Get("/towns", catalogHandler.Towns)

		// Import
		importHandler := handlers.NewImportHandler(cat)
		r.Post("/import", importHandler.Import)

		// Optimization
		optimizeHandler := handlers.NewOptimizeHandler(s.svc)
		r.Post("/optimize", optimizeHandler.Optimize)

		// Profiles
		profilesHandler := handlers.NewProfilesHandler(s.repo, s.svc)
		r.Get("/profiles", profilesHandler.List)
		r.Post("/profiles", profilesHandler.Create)
		r.Get("/profiles/{id}", profilesHandler.Get)
		r.Put("/profiles/{id}", profilesHandler.Update)
		r.Delete("/profiles/{id}", profilesHandler.Delete)
		r.Post("/profiles/{id}/optimize", optimizeHandler.OptimizeProfile)

		// Run history
		runsHandler := handlers.NewRunsHandler(s.repo, cat)
		r.Get("/runs", runsHandler.List)
		r.Get("/runs/{id}", runsHandler.Get)
		r.Get("/runs/{id}/export", runsHandler.Export)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
