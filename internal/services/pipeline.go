package services

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"sellers-dashboard/internal/models"
)

// money accumulates monetary amounts without float drift. Missing values are
// left out of both the sum and the count.
type money struct {
	sum decimal.Decimal
	n   int
}

func (m *money) add(v models.Number) {
	if !v.Defined() {
		return
	}
	m.sum = m.sum.Add(decimal.NewFromFloat(float64(v)))
	m.n++
}

func (m money) total() float64 {
	return m.sum.InexactFloat64()
}

func (m money) mean() models.Average {
	if m.n == 0 {
		return models.UndefinedAverage()
	}
	return models.Average(m.sum.Div(decimal.NewFromInt(int64(m.n))).InexactFloat64())
}

// ApplyFilters returns the records matching the selection's region and vendor,
// in source order. The result never shares a backing array with records.
func ApplyFilters(records []models.Record, sel models.Selection) []models.Record {
	result := make([]models.Record, 0, len(records))
	for _, r := range records {
		if !sel.AllRegions() && r.Region != sel.Region {
			continue
		}
		if !sel.AllVendors() && r.Vendor != sel.Vendor {
			continue
		}
		result = append(result, r)
	}
	return result
}

func ComputeKPIs(view []models.Record) models.KPIs {
	var total, avg money
	units := 0
	vendors := make(map[string]struct{})

	for _, r := range view {
		total.add(r.TotalSales)
		avg.add(r.SalesAverage)
		units += r.SoldUnits
		vendors[r.Vendor] = struct{}{}
	}

	return models.KPIs{
		TotalSales:  total.total(),
		TotalUnits:  units,
		AvgSales:    avg.mean(),
		VendorCount: len(vendors),
	}
}

type regionGroup struct {
	region  string
	units   int
	total   money
	avg     money
	vendors map[string]struct{}
}

// groupByRegion returns one group per region in order of first appearance.
// Records without a region belong to no group.
func groupByRegion(view []models.Record) []*regionGroup {
	index := make(map[string]*regionGroup)
	groups := make([]*regionGroup, 0)

	for _, r := range view {
		if r.Region == "" {
			continue
		}
		g, ok := index[r.Region]
		if !ok {
			g = &regionGroup{region: r.Region, vendors: make(map[string]struct{})}
			index[r.Region] = g
			groups = append(groups, g)
		}
		g.units += r.SoldUnits
		g.total.add(r.TotalSales)
		g.avg.add(r.SalesAverage)
		g.vendors[r.Vendor] = struct{}{}
	}
	return groups
}

func descendingSales(a, b float64) int {
	return cmp.Compare(b, a)
}

// AggregateByRegion sums total sales per region, sorted descending. Ties keep
// the order in which regions first appear in the view.
func AggregateByRegion(view []models.Record) []models.RegionTotal {
	groups := groupByRegion(view)
	result := make([]models.RegionTotal, 0, len(groups))
	for _, g := range groups {
		result = append(result, models.RegionTotal{Region: g.region, TotalSales: g.total.total()})
	}
	slices.SortStableFunc(result, func(a, b models.RegionTotal) int {
		return descendingSales(a.TotalSales, b.TotalSales)
	})
	return result
}

func AggregateRegionSummary(view []models.Record) []models.RegionSummary {
	groups := groupByRegion(view)
	result := make([]models.RegionSummary, 0, len(groups))
	for _, g := range groups {
		result = append(result, models.RegionSummary{
			Region:     g.region,
			TotalSales: g.total.total(),
			UnitsSold:  g.units,
			AvgSales:   g.avg.mean(),
			Vendors:    len(g.vendors),
		})
	}
	slices.SortStableFunc(result, func(a, b models.RegionSummary) int {
		return descendingSales(a.TotalSales, b.TotalSales)
	})
	return result
}

// BuildRegionVendorMatrix cross-tabulates summed total sales with regions as
// rows and vendors as columns, both sorted. Absent pairs are 0. Records
// without a region are left out; when none remain the result is a 1x1 zero
// placeholder with blank labels.
func BuildRegionVendorMatrix(view []models.Record) models.Matrix {
	view = slices.DeleteFunc(slices.Clone(view), func(r models.Record) bool { return r.Region == "" })
	if len(view) == 0 {
		return models.Matrix{
			Regions:     []string{""},
			Vendors:     []string{""},
			Values:      [][]float64{{0}},
			Placeholder: true,
		}
	}

	regions := distinct(view, func(r models.Record) string { return r.Region })
	vendors := distinct(view, func(r models.Record) string { return r.Vendor })
	slices.Sort(regions)
	slices.Sort(vendors)

	regionIdx := indexOf(regions)
	vendorIdx := indexOf(vendors)

	cells := make([][]money, len(regions))
	for i := range cells {
		cells[i] = make([]money, len(vendors))
	}
	for _, r := range view {
		cells[regionIdx[r.Region]][vendorIdx[r.Vendor]].add(r.TotalSales)
	}

	values := make([][]float64, len(regions))
	for i, row := range cells {
		values[i] = make([]float64, len(vendors))
		for j, c := range row {
			values[i][j] = c.total()
		}
	}

	return models.Matrix{Regions: regions, Vendors: vendors, Values: values}
}

// BuildVendorMetricLongForm reshapes the view into one row per record and
// metric, metric-major in selection order. Values are the raw record values.
func BuildVendorMetricLongForm(view []models.Record, metrics []models.Metric) []models.MetricValue {
	result := make([]models.MetricValue, 0, len(view)*len(metrics))
	for _, m := range metrics {
		for _, r := range view {
			result = append(result, models.MetricValue{
				Vendor: r.Vendor,
				Metric: m,
				Value:  m.Value(r),
			})
		}
	}
	return result
}

// VendorFocus summarizes one vendor across the full dataset, ignoring any
// region filter. It returns nil when vendor is the "All" sentinel.
func VendorFocus(dataset []models.Record, vendor string) *models.VendorSummary {
	if vendor == "" || vendor == models.AllSentinel {
		return nil
	}

	var total, avg money
	summary := &models.VendorSummary{Vendor: vendor}
	for _, r := range dataset {
		if r.Vendor != vendor {
			continue
		}
		total.add(r.TotalSales)
		avg.add(r.SalesAverage)
		summary.UnitsSold += r.SoldUnits
		summary.Records++
	}
	summary.TotalSales = total.total()
	summary.AvgSales = avg.mean()
	return summary
}

// RegionOptions returns the sorted distinct regions prefixed with "All".
func RegionOptions(dataset []models.Record) []string {
	return options(distinct(dataset, func(r models.Record) string { return r.Region }))
}

// VendorOptions returns the sorted distinct vendors prefixed with "All".
func VendorOptions(dataset []models.Record) []string {
	return options(distinct(dataset, func(r models.Record) string { return r.Vendor }))
}

// BuildView runs the whole pipeline for one selection.
func BuildView(dataset []models.Record, sel models.Selection) models.View {
	filtered := ApplyFilters(dataset, sel)
	return models.View{
		Selection:     sel,
		KPIs:          ComputeKPIs(filtered),
		RegionTotals:  AggregateByRegion(filtered),
		RegionSummary: AggregateRegionSummary(filtered),
		Heatmap:       BuildRegionVendorMatrix(filtered),
		VendorMetrics: BuildVendorMetricLongForm(filtered, sel.Metrics),
		VendorFocus:   VendorFocus(dataset, sel.Vendor),
		Records:       filtered,
	}
}

func options(values []string) []string {
	values = slices.DeleteFunc(values, func(v string) bool { return v == "" })
	slices.Sort(values)
	return append([]string{models.AllSentinel}, values...)
}

func distinct(records []models.Record, key func(models.Record) string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, k)
	}
	return result
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
