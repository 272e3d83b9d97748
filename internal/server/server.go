package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sellers-dashboard/internal/config"
	"sellers-dashboard/internal/handlers"
	"sellers-dashboard/internal/services"
)

type Server struct {
	dashboard    *services.Dashboard
	mux          *http.ServeMux
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

func NewServer(dashboard *services.Dashboard, logger *slog.Logger, metrics config.MetricsConfig) *Server {
	s := &Server{
		dashboard:    dashboard,
		mux:          http.NewServeMux(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(dashboard, logger),
		sseHandlers:  handlers.NewSSEHandlers(dashboard, logger),
		pageHandlers: handlers.NewPageHandlers(dashboard, logger),
	}
	s.setupRoutes(metrics)
	return s
}

func (s *Server) setupRoutes(metrics config.MetricsConfig) {
	// Dashboard routes
	s.mux.HandleFunc("GET /{$}", s.pageHandlers.HandleDashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	if metrics.Enabled {
		s.mux.Handle("GET "+metrics.Path, promhttp.Handler())
	}

	// REST API endpoints
	s.mux.HandleFunc("GET /api/filters", s.apiHandlers.HandleFilters)
	s.mux.HandleFunc("GET /api/view", s.apiHandlers.HandleView)
	s.mux.HandleFunc("GET /api/kpis", s.apiHandlers.HandleKPIs)
	s.mux.HandleFunc("GET /api/regions", s.apiHandlers.HandleRegionTotals)
	s.mux.HandleFunc("GET /api/region-summary", s.apiHandlers.HandleRegionSummary)
	s.mux.HandleFunc("GET /api/heatmap", s.apiHandlers.HandleHeatmap)
	s.mux.HandleFunc("GET /api/vendor-metrics", s.apiHandlers.HandleVendorMetrics)
	s.mux.HandleFunc("GET /api/vendor-focus", s.apiHandlers.HandleVendorFocus)
	s.mux.HandleFunc("GET /api/records", s.apiHandlers.HandleRecords)
	s.mux.HandleFunc("GET /api/", s.apiHandlers.HandleNotFound)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/view", s.sseHandlers.HandleView)
}

// Route returns the pattern that serves r, or "" when nothing matches.
func (s *Server) Route(r *http.Request) string {
	_, pattern := s.mux.Handler(r)
	return pattern
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
