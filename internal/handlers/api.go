package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sellers-dashboard/internal/errors"
	"sellers-dashboard/internal/models"
	"sellers-dashboard/internal/observability"
	"sellers-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

var cacheHeaders = map[string]string{
	"Cache-Control": cacheMaxAge,
}

// withView parses the selection, recomputes the view and writes pick(view).
func (h *APIHandlers) withView(pick func(models.View) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sel, err := selectionFromQuery(r)
		if err != nil {
			errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
			return
		}

		view := h.dashboard.View(r.Context(), sel)
		errors.WriteSuccessWithHeaders(w, pick(view), cacheHeaders)
	}
}

func (h *APIHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v })(w, r)
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.KPIs })(w, r)
}

func (h *APIHandlers) HandleRegionTotals(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.RegionTotals })(w, r)
}

func (h *APIHandlers) HandleRegionSummary(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.RegionSummary })(w, r)
}

func (h *APIHandlers) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.Heatmap })(w, r)
}

func (h *APIHandlers) HandleVendorMetrics(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.VendorMetrics })(w, r)
}

// HandleVendorFocus returns null data when no specific vendor is selected.
func (h *APIHandlers) HandleVendorFocus(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.VendorFocus })(w, r)
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	h.withView(func(v models.View) any { return v.Records })(w, r)
}

func (h *APIHandlers) HandleFilters(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccessWithHeaders(w, h.dashboard.FilterOptions(), cacheHeaders)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats())
}

// HandleNotFound answers unmatched API paths with an error envelope rather
// than the plain-text mux 404.
func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	err := errors.NotFound("unknown endpoint").WithDetails(r.URL.Path)
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}
