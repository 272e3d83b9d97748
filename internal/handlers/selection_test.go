package handlers

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"sellers-dashboard/internal/errors"
	"sellers-dashboard/internal/models"
)

func TestSelectionFromQuery(t *testing.T) {
	tests := []struct {
		query string
		want  models.Selection
	}{
		{"", models.DefaultSelection()},
		{"?region=%20North%20&vendor=All", models.Selection{Region: "North", Vendor: "All", Metrics: models.DefaultMetrics}},
		{"?region=ALL&vendor=%20", models.Selection{Region: "ALL", Vendor: "All", Metrics: models.DefaultMetrics}},
		{"?metrics=Average+Sales,+Units+Sold", models.Selection{Region: "All", Vendor: "All", Metrics: []models.Metric{models.MetricAverage, models.MetricUnits}}},
		{"?metrics=", models.Selection{Region: "All", Vendor: "All", Metrics: []models.Metric{}}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/view"+tt.query, nil)

			got, err := selectionFromQuery(r)
			if err != nil {
				t.Fatalf("selectionFromQuery() failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("selectionFromQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSelectionFromSignals_UnknownMetric(t *testing.T) {
	_, err := selectionFromSignals(selectionSignals{Metrics: []string{"Total Sales", "Profit"}})

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != errors.CodeValidation {
		t.Errorf("expected %s, got %s", errors.CodeValidation, appErr.Code)
	}
	if appErr.Details == "" {
		t.Error("expected details naming the valid metrics")
	}
}

func TestSelectionFromSignals_NilMetricsUseDefaults(t *testing.T) {
	sel, err := selectionFromSignals(selectionSignals{Region: "South"})
	if err != nil {
		t.Fatalf("selectionFromSignals() failed: %v", err)
	}
	if !reflect.DeepEqual(sel.Metrics, models.DefaultMetrics) {
		t.Errorf("expected default metrics, got %v", sel.Metrics)
	}
	if sel.Vendor != models.AllSentinel {
		t.Errorf("expected vendor All, got %q", sel.Vendor)
	}
}
