package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"sellers-dashboard/internal/errors"
	"sellers-dashboard/internal/models"
)

// selectionSignals mirrors the datastar signals the filter controls bind to.
type selectionSignals struct {
	Region  string   `json:"region"`
	Vendor  string   `json:"vendor"`
	Metrics []string `json:"metrics"`
}

// selectionFromQuery reads region, vendor and metrics query parameters.
// A missing metrics parameter selects the default metrics; metrics may be
// repeated or comma separated.
func selectionFromQuery(r *http.Request) (models.Selection, error) {
	q := r.URL.Query()

	var metrics []string
	if values, ok := q["metrics"]; ok {
		metrics = make([]string, 0, len(values))
		for _, v := range values {
			metrics = append(metrics, strings.Split(v, ",")...)
		}
	}

	return newSelection(q.Get("region"), q.Get("vendor"), metrics)
}

func selectionFromSignals(s selectionSignals) (models.Selection, error) {
	return newSelection(s.Region, s.Vendor, s.Metrics)
}

// newSelection normalizes raw filter values. nil metrics means defaults; an
// empty non-nil slice means no metrics.
func newSelection(region, vendor string, metrics []string) (models.Selection, error) {
	sel := models.Selection{
		Region: normalizeChoice(region),
		Vendor: normalizeChoice(vendor),
	}

	if metrics == nil {
		sel.Metrics = append([]models.Metric(nil), models.DefaultMetrics...)
		return sel, nil
	}

	sel.Metrics = make([]models.Metric, 0, len(metrics))
	for _, raw := range metrics {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		m := models.Metric(name)
		if !m.Valid() {
			return models.Selection{}, errors.Validation("unknown metric").
				WithDetails(fmt.Sprintf("%q is not one of %s", name, metricNames()))
		}
		if !slices.Contains(sel.Metrics, m) {
			sel.Metrics = append(sel.Metrics, m)
		}
	}
	return sel, nil
}

// normalizeChoice maps a blank value to the sentinel. The sentinel itself is
// case-sensitive so data values such as "ALL" stay selectable.
func normalizeChoice(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return models.AllSentinel
	}
	return v
}

func metricNames() string {
	names := make([]string, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}
