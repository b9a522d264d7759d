// Package server provides the HTTP server and routing for the margin
// intelligence engine.
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

	"github.com/incomeclarity/marginsight/internal/config"
	"github.com/incomeclarity/marginsight/internal/database"
	"github.com/incomeclarity/marginsight/internal/modules/margin"
	marginhandlers "github.com/incomeclarity/marginsight/internal/modules/margin/handlers"
	"github.com/incomeclarity/marginsight/internal/modules/portfolio"
	"github.com/incomeclarity/marginsight/internal/modules/profile"
	"github.com/incomeclarity/marginsight/internal/modules/recommendations"
	"github.com/incomeclarity/marginsight/internal/modules/simulation"
	"github.com/incomeclarity/marginsight/internal/modules/stress"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Config      *config.Config
	PortfolioDB *database.DB
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	portfolioDB    *database.DB
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server and wires the engine components.
func New(cfg Config) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		log:            cfg.Log.With().Str("component", "server").Logger(),
		cfg:            cfg.Config,
		portfolioDB:    cfg.PortfolioDB,
		systemHandlers: NewSystemHandlers(cfg.Log, cfg.Config.DataDir, cfg.PortfolioDB),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes(cfg.Log)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes wires the engine and registers all routes
func (s *Server) setupRoutes(log zerolog.Logger) {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// Engine components
	simulator := simulation.NewSimulator(s.cfg.SimWorkers, log)
	estimator := simulation.NewEstimator(log)
	profiler := profile.NewProfiler(log)
	stressRunner := stress.NewRunner(log)
	recommender := recommendations.NewEngine(log)

	service := margin.NewService(
		simulator,
		estimator,
		profiler,
		stressRunner,
		recommender,
		s.cfg.DefaultIterations,
		s.cfg.MaxIterations,
		log,
	)

	var analyzer margin.Analyzer = service
	if s.cfg.CacheTTL > 0 {
		analyzer = margin.NewCachingService(service, s.cfg.CacheTTL, log)
	}

	snapshotRepo := portfolio.NewSnapshotRepository(s.portfolioDB.Conn(), log)

	marginHandler := marginhandlers.NewHandler(
		analyzer,
		profiler,
		stressRunner,
		snapshotRepo,
		s.cfg.DevMode,
		log,
	)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		marginHandler.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// handleHealth responds to liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
