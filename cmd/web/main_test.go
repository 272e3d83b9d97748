package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sellers-dashboard/internal/config"
	"sellers-dashboard/internal/models"
	"sellers-dashboard/internal/services"
)

func newTestDashboard() *services.Dashboard {
	d := services.NewDashboard()
	d.SetData([]models.Record{
		{Row: 2, Name: "Ana", LastName: "Diaz", Vendor: "V1", Region: "North", SoldUnits: 10, TotalSales: 100, SalesAverage: 10},
		{Row: 3, Name: "Bo", LastName: "Ek", Vendor: "V2", Region: "South", SoldUnits: 5, TotalSales: 300, SalesAverage: 60},
		{Row: 4, Name: "Ana", LastName: "Diaz", Vendor: "V1", Region: "South", SoldUnits: 2, TotalSales: 50, SalesAverage: 25},
	})
	return d
}

func testConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{
			EnableRateLimit: true,
			RateLimitRPS:    1000,
			RateLimitBurst:  1000,
			AllowedOrigins:  []string{"http://localhost:8084"},
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestHandler() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newHandler(testConfig(), newTestDashboard(), logger)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/?region=South", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/filters", http.StatusOK, "application/json"},
		{"/api/view", http.StatusOK, "application/json"},
		{"/api/kpis", http.StatusOK, "application/json"},
		{"/api/regions", http.StatusOK, "application/json"},
		{"/api/region-summary", http.StatusOK, "application/json"},
		{"/api/heatmap", http.StatusOK, "application/json"},
		{"/api/vendor-metrics", http.StatusOK, "application/json"},
		{"/api/vendor-focus?vendor=V1", http.StatusOK, "application/json"},
		{"/api/records?region=North", http.StatusOK, "application/json"},
		{"/sse/view", http.StatusOK, "text/event-stream"},
		{"/metrics", http.StatusOK, "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", tt.path, nil)

			handler.ServeHTTP(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			ct := w.Header().Get("Content-Type")
			if !strings.Contains(ct, tt.contentType) {
				t.Errorf("content-type = %q, want %q", ct, tt.contentType)
			}

			if tt.contentType == "application/json" {
				var result any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Errorf("invalid json: %v", err)
				}
			}
		})
	}
}

func TestServer_KPIsFollowSelection(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		query      string
		totalSales float64
		totalUnits float64
		vendors    float64
	}{
		{"", 450, 17, 2},
		{"?region=South", 350, 7, 2},
		{"?region=South&vendor=V1", 50, 2, 1},
		{"?region=All", 450, 17, 2},
		{"?region=all", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/kpis"+tt.query, nil))

			var response struct {
				Data    map[string]any `json:"data"`
				Success bool           `json:"success"`
			}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			if !response.Success {
				t.Fatal("expected success=true in response")
			}
			if got := response.Data["total_sales"]; got != tt.totalSales {
				t.Errorf("total_sales = %v, want %v", got, tt.totalSales)
			}
			if got := response.Data["total_units"]; got != tt.totalUnits {
				t.Errorf("total_units = %v, want %v", got, tt.totalUnits)
			}
			if got := response.Data["vendor_count"]; got != tt.vendors {
				t.Errorf("vendor_count = %v, want %v", got, tt.vendors)
			}
		})
	}
}

func TestServer_EmptyViewAverageIsNull(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/kpis?region=Nowhere", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), `"avg_sales":null`) {
		t.Errorf("body = %s, want avg_sales null", w.Body.String())
	}
}

func TestServer_SSEView(t *testing.T) {
	handler := newTestHandler()

	signals := url.QueryEscape(`{"region":"South","vendor":"All","metrics":["Total Sales"]}`)
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/sse/view?datastar="+signals, nil)

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("cache-control = %q, want 'no-cache'", cc)
	}

	body := w.Body.String()
	for _, want := range []string{"datastar-patch-elements", "datastar-patch-signals", "kpi-cards", "$350", "_charts"} {
		if !strings.Contains(body, want) {
			t.Errorf("stream should contain %q", want)
		}
	}
}

func TestServer_InvalidMetric(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/vendor-metrics?metrics=Profit", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// Test health endpoint
func TestServer_HandleHealth(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]any
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode health JSON: %v", err)
	}

	healthData, ok := response["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected health data in response")
	}
	if status, ok := healthData["status"].(string); !ok || status != "healthy" {
		t.Errorf("health status = %v, want 'healthy'", healthData["status"])
	}
	if _, ok := healthData["timestamp"]; !ok {
		t.Error("health response should include timestamp")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("response should carry a request id")
	}
}

// Test error handling for invalid methods
func TestServer_ErrorHandling(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		method string
		path   string
		status int
	}{
		{"POST", "/api/kpis", http.StatusMethodNotAllowed},
		{"PUT", "/", http.StatusMethodNotAllowed},
		{"DELETE", "/health", http.StatusMethodNotAllowed},
		{"PATCH", "/sse/view", http.StatusMethodNotAllowed},
		{"GET", "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(tt.method, tt.path, nil)

			handler.ServeHTTP(w, r)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestDashboardPage(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	expected := []string{
		"Sellers Dashboard",
		`id="kpi-cards"`,
		`id="chart-heatmap"`,
		`id="region-summary"`,
		`data-bind="region"`,
		`data-on:change="@get('/sse/view')"`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard should contain %q", want)
		}
	}
}
