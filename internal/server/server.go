package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"flightpath-rescue/internal/config"
	"flightpath-rescue/internal/middleware"
)

// Server is the Flightpath rescue-companion HTTP server.
type Server struct {
	config       *config.Config
	dependencies *Dependencies
	router       chi.Router
	logger       *log.Logger
	Metrics      *Metrics
}

// New creates a new Server instance.
func New(cfg *config.Config) *Server {
	deps := NewDependencies(cfg)
	registry := prometheus.NewRegistry()

	s := &Server{
		config:       cfg,
		dependencies: deps,
		router:       chi.NewRouter(),
		logger:       deps.GetLogger(),
		Metrics:      NewMetrics(registry),
	}

	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	s.router.Use(chimiddleware.RequestID)

	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return s
}

// Router exposes the chi router so internal/services can register routes.
func (s *Server) Router() chi.Router { return s.router }

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := s.config.ServerAddr()
	s.logger.Printf("Flightpath rescue companion starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// GetDependencies returns the shared dependencies.
func (s *Server) GetDependencies() *Dependencies {
	return s.dependencies
}
