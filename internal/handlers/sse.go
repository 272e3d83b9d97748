package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sellers-dashboard/internal/errors"
	"sellers-dashboard/internal/models"
	"sellers-dashboard/internal/observability"
	"sellers-dashboard/internal/services"
	"sellers-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func render(ctx context.Context, c templ.Component) (string, error) {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// fragments returns the server-rendered parts of the page for view, in the
// order they are patched.
func fragments(view models.View) []templ.Component {
	return []templ.Component{
		templates.SelectionBadge(view.Selection),
		templates.KPICards(view.KPIs),
		templates.VendorFocusCard(view.VendorFocus),
		templates.RegionSummaryTable(view.RegionSummary),
		templates.RecordsTable(view.Records),
		templates.VendorRecordsTable(view.Records),
	}
}

// HandleView recomputes the dashboard from the filter signals and patches
// every fragment plus the chart data signal.
func (h *SSEHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.Logger(ctx, h.logger)

	var signals selectionSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "invalid signals"), observability.GetRequestID(ctx))
		return
	}

	sel, err := selectionFromSignals(signals)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(ctx))
		return
	}

	view := h.dashboard.View(ctx, sel)

	sse := datastar.NewSSE(w, r)

	for _, c := range fragments(view) {
		html, err := render(ctx, c)
		if err != nil {
			logger.Error("render fragment", "error", err)
			return
		}
		if err := sse.PatchElements(html); err != nil {
			logger.Warn("patch elements", "error", err)
			return
		}
	}

	jsonData, err := json.Marshal(map[string]any{
		templates.ChartsSignal: templates.NewChartData(view),
	})
	if err != nil {
		logger.Error("marshal chart data", "error", err)
		return
	}
	if err := sse.PatchSignals(jsonData); err != nil {
		logger.Warn("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
