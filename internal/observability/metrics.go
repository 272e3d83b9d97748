package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// ViewsComputed counts pipeline recomputations, split by whether the
	// selection matched any record.
	ViewsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_views_computed_total",
			Help: "Number of dashboard views recomputed from a selection",
		},
		[]string{"result"},
	)

	ViewDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_view_duration_seconds",
			Help:    "Time spent recomputing a dashboard view",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
	)

	DatasetRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_dataset_records",
			Help: "Number of sales records loaded from the spreadsheet",
		},
	)
)
