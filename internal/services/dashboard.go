package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"sellers-dashboard/internal/models"
	"sellers-dashboard/internal/observability"
)

// Dataset is the loaded spreadsheet. It is never mutated once published.
type Dataset struct {
	Records  []models.Record
	Source   string
	LoadedAt time.Time
}

// Dashboard serves views over a read-only dataset.
type Dashboard struct {
	mu       sync.RWMutex
	dataset  *Dataset
	cacheDir string
	logger   *slog.Logger
}

type Option func(*Dashboard)

// WithCacheDir enables the parsed-record cache in dir.
func WithCacheDir(dir string) Option {
	return func(d *Dashboard) { d.cacheDir = dir }
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) { d.logger = logger }
}

func NewDashboard(opts ...Option) *Dashboard {
	d := &Dashboard{
		dataset: &Dataset{Records: []models.Record{}},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetData publishes records as the dataset.
func (d *Dashboard) SetData(records []models.Record) {
	d.publish(&Dataset{Records: records, Source: "memory", LoadedAt: time.Now()})
}

func (d *Dashboard) publish(ds *Dataset) {
	d.mu.Lock()
	d.dataset = ds
	d.mu.Unlock()
	observability.DatasetRecords.Set(float64(len(ds.Records)))
}

func (d *Dashboard) current() *Dataset {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dataset
}

// LoadFromXLSX loads the workbook at path, preferring a cached parse that is
// newer than the file.
func (d *Dashboard) LoadFromXLSX(ctx context.Context, path string, opts LoadOptions) error {
	info, err := os.Stat(path)
	if err != nil {
		return &DataLoadError{Path: path, Reason: "stat workbook", Err: err}
	}

	if d.cacheDir != "" {
		if cached, err := loadFromCache(d.cacheDir, path, opts.Sheet); err == nil && info.ModTime().Before(cached.LoadedAt) {
			d.publish(cached)
			d.logger.Info("loaded from cache", "records", len(cached.Records), "source", path)
			return nil
		}
	}

	start := time.Now()
	d.logger.Info("processing workbook", "filename", path, "sheet", opts.Sheet)

	records, err := Load(ctx, path, opts)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		d.logger.Warn("workbook has no sales records", "filename", path)
	}

	ds := &Dataset{Records: records, Source: path, LoadedAt: time.Now()}
	d.publish(ds)

	if d.cacheDir != "" {
		if err := saveToCache(d.cacheDir, path, opts.Sheet, ds); err != nil {
			d.logger.Warn("failed to save cache", "error", err)
		}
	}

	duration := time.Since(start)
	d.logger.Info("workbook processing complete",
		"records", len(records),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(len(records))/duration.Seconds()))

	return nil
}

// View recomputes every dashboard view for sel from the full dataset.
func (d *Dashboard) View(ctx context.Context, sel models.Selection) models.View {
	_, span := observability.StartSpan(ctx, "dashboard.view")
	defer span.FinishAndLog(observability.Logger(ctx, d.logger))
	span.SetTag("region", sel.Region)
	span.SetTag("vendor", sel.Vendor)

	start := time.Now()
	view := BuildView(d.current().Records, sel)
	observability.ViewDuration.Observe(time.Since(start).Seconds())

	result := "match"
	if len(view.Records) == 0 {
		result = "empty"
	}
	observability.ViewsComputed.WithLabelValues(result).Inc()

	return view
}

// Records returns the full dataset. Callers must not modify it.
func (d *Dashboard) Records() []models.Record {
	return d.current().Records
}

func (d *Dashboard) FilterOptions() models.FilterOptions {
	records := d.current().Records
	return models.FilterOptions{
		Regions: RegionOptions(records),
		Vendors: VendorOptions(records),
		Metrics: models.Metrics,
	}
}

// Stats reports dataset facts for monitoring.
func (d *Dashboard) Stats() map[string]any {
	ds := d.current()
	return map[string]any{
		"record_count": len(ds.Records),
		"source":       ds.Source,
		"loaded_at":    ds.LoadedAt,
		"regions":      len(RegionOptions(ds.Records)) - 1,
		"vendors":      len(VendorOptions(ds.Records)) - 1,
	}
}
