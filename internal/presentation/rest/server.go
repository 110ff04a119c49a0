package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/monowai/beancounter-sub001/pkg/auth"
)

// Config holds server configuration
type Config struct {
	Port           int
	Health         *HealthHandler
	Positions      *PositionHandlers
	Metrics        http.Handler
	JWT            *auth.JWTService
	AllowedOrigins []string
	Log            *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    *slog.Logger
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With("component", "http"),
	}

	s.setupMiddleware(cfg.AllowedOrigins)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupMiddleware(origins []string) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(55 * time.Second))

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/healthz", cfg.Health.Liveness)
	s.router.Get("/readyz", cfg.Health.Readiness)
	if cfg.Metrics != nil {
		s.router.Handle("/metrics", cfg.Metrics)
	}

	s.router.Route("/v1", func(r chi.Router) {
		if cfg.JWT != nil {
			r.Use(auth.HTTPMiddleware(cfg.JWT))
		}
		r.Route("/portfolios/{code}", func(r chi.Router) {
			r.Get("/positions", cfg.Positions.HandleGetPositions)
			r.Get("/valuation", cfg.Positions.HandleValuePositions)
		})
		r.Get("/fx", cfg.Positions.HandleGetFxRates)
	})
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server stopping")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
