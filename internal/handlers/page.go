package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sellers-dashboard/internal/errors"
	"sellers-dashboard/internal/observability"
	"sellers-dashboard/internal/services"
	"sellers-dashboard/internal/ui/templates"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
	title     string
}

func NewPageHandlers(dashboard *services.Dashboard, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard: dashboard,
		logger:    logger,
		title:     "Sellers Dashboard",
	}
}

// HandleDashboard renders the page for the selection in the query string, so
// filtered views can be linked to directly.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	sel, err := selectionFromQuery(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(ctx))
		return
	}

	page := templates.Dashboard(templates.PageData{
		Title:   h.title,
		Options: h.dashboard.FilterOptions(),
		View:    h.dashboard.View(ctx, sel),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(ctx, w); err != nil {
		observability.Logger(ctx, h.logger).Error("render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
