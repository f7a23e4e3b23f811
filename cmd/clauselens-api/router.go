// Package main provides the API router setup.
package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/clauselens/clauselens/cmd/clauselens-api/handlers"
	"github.com/clauselens/clauselens/cmd/clauselens-api/middleware"
	"github.com/clauselens/clauselens/internal/api/rpc"
	"github.com/clauselens/clauselens/internal/observability"
	"github.com/clauselens/clauselens/internal/service"
)

// AppConfig holds router-level configuration.
type AppConfig struct {
	RequestTimeout time.Duration
	MetricsPath    string
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, metrics *observability.Metrics, svc *service.AnalysisService, db *sql.DB, cfg *AppConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Instrument(logger, metrics))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	// Health checks
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"clauselens"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.Write([]byte(`{"status":"ready"}`))
	})

	if metrics != nil {
		r.Method(http.MethodGet, cfg.MetricsPath, metrics.Handler())
	}

	// Initialize handlers
	analysisHandler := handlers.NewAnalysisHandler(logger, svc)
	documentHandler := handlers.NewDocumentHandler(logger, svc)
	glossaryHandler := handlers.NewGlossaryHandler(logger, svc)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", analysisHandler.Analyze)

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Upload)
			r.Get("/", documentHandler.List)

			r.Route("/{documentID}", func(r chi.Router) {
				r.Get("/", documentHandler.Get)
				r.Delete("/", documentHandler.Delete)
				r.Post("/analyze", documentHandler.Analyze)
				r.Get("/analysis", documentHandler.LatestAnalysis)
				r.Get("/analyses", documentHandler.History)
			})
		})

		r.Route("/glossary", func(r chi.Router) {
			r.Get("/", glossaryHandler.Terms)
			r.Get("/{term}", glossaryHandler.Explain)
		})
	})

	// Connect procedures for programmatic clients
	rpcService := rpc.NewAnalysisService(logger, svc)
	for path, handler := range rpcService.Handlers() {
		r.Method(http.MethodPost, path, handler)
	}

	return r
}
