package rest

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/cache"
	"github.com/fortuna/crossice/internal/scheduler"
	"github.com/fortuna/crossice/internal/store"
	"github.com/fortuna/crossice/internal/store/repository"
	"github.com/gorilla/mux"
)

// Server represents the REST API server.
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server.
func NewServer(
	port string,
	db *store.Database,
	redisCache *cache.RedisCache,
	orchestrator *scheduler.Orchestrator,
	runs *repository.RunRepository,
	defaultSeason string,
	logger *zap.Logger,
) *Server {
	handler := NewHandler(db, redisCache, orchestrator, runs, defaultSeason, logger)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/reconcile", handler.TriggerReconcile).Methods("POST")
	api.HandleFunc("/reconcile/latest", handler.GetLatestReport).Methods("GET")
	api.HandleFunc("/reconcile/runs", handler.ListRuns).Methods("GET")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
