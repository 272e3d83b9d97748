package models

import (
	"encoding/json"
	"math"
)

// AllSentinel is the selection value meaning "do not filter on this dimension".
const AllSentinel = "All"

type Record struct {
	Row          int    `json:"row"`
	Name         string `json:"name"`
	LastName     string `json:"last_name"`
	Vendor       string `json:"vendor"`
	Region       string `json:"region"`
	SoldUnits    int    `json:"sold_units"`
	TotalSales   Number `json:"total_sales"`
	SalesAverage Number `json:"sales_average"`
}

type Metric string

const (
	MetricUnits   Metric = "Units Sold"
	MetricTotal   Metric = "Total Sales"
	MetricAverage Metric = "Average Sales"
)

// Metrics lists the metric options in display order.
var Metrics = []Metric{MetricUnits, MetricTotal, MetricAverage}

// DefaultMetrics is the metric set used when a selection names none.
var DefaultMetrics = []Metric{MetricTotal, MetricUnits}

func (m Metric) Valid() bool {
	switch m {
	case MetricUnits, MetricTotal, MetricAverage:
		return true
	}
	return false
}

// Value returns the record column the metric maps to.
func (m Metric) Value(r Record) Number {
	switch m {
	case MetricUnits:
		return Number(r.SoldUnits)
	case MetricTotal:
		return r.TotalSales
	case MetricAverage:
		return r.SalesAverage
	}
	return Missing()
}

type Selection struct {
	Region  string   `json:"region"`
	Vendor  string   `json:"vendor"`
	Metrics []Metric `json:"metrics"`
}

// DefaultSelection selects every region and vendor with the default metrics.
func DefaultSelection() Selection {
	return Selection{
		Region:  AllSentinel,
		Vendor:  AllSentinel,
		Metrics: append([]Metric(nil), DefaultMetrics...),
	}
}

func (s Selection) AllRegions() bool { return s.Region == "" || s.Region == AllSentinel }
func (s Selection) AllVendors() bool { return s.Vendor == "" || s.Vendor == AllSentinel }

// Number is a float64 where NaN marks a missing value. It encodes as JSON null.
type Number float64

func Missing() Number { return Number(math.NaN()) }

func (n Number) Defined() bool { return !math.IsNaN(float64(n)) }

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Missing()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Average is a mean, undefined when computed over no values.
type Average = Number

func UndefinedAverage() Average { return Missing() }

type KPIs struct {
	TotalSales  float64 `json:"total_sales"`
	TotalUnits  int     `json:"total_units"`
	AvgSales    Average `json:"avg_sales"`
	VendorCount int     `json:"vendor_count"`
}

type RegionTotal struct {
	Region     string  `json:"region"`
	TotalSales float64 `json:"total_sales"`
}

type RegionSummary struct {
	Region     string  `json:"region"`
	TotalSales float64 `json:"total_sales"`
	UnitsSold  int     `json:"units_sold"`
	AvgSales   Average `json:"avg_sales"`
	Vendors    int     `json:"vendors_count"`
}

// Matrix is a region x vendor grid of summed total sales.
type Matrix struct {
	Regions     []string    `json:"regions"`
	Vendors     []string    `json:"vendors"`
	Values      [][]float64 `json:"values"`
	Placeholder bool        `json:"placeholder"`
}

// Cell returns the value at (region, vendor), or 0 when either key is absent.
func (m Matrix) Cell(region, vendor string) float64 {
	for i, r := range m.Regions {
		if r != region {
			continue
		}
		for j, v := range m.Vendors {
			if v == vendor {
				return m.Values[i][j]
			}
		}
	}
	return 0
}

type MetricValue struct {
	Vendor string `json:"vendor"`
	Metric Metric `json:"metric"`
	Value  Number `json:"value"`
}

type VendorSummary struct {
	Vendor     string  `json:"vendor"`
	TotalSales float64 `json:"total_sales"`
	UnitsSold  int     `json:"units_sold"`
	AvgSales   Average `json:"avg_sales"`
	Records    int     `json:"records"`
}

type FilterOptions struct {
	Regions []string `json:"regions"`
	Vendors []string `json:"vendors"`
	Metrics []Metric `json:"metrics"`
}

// View is everything the dashboard renders for one selection.
type View struct {
	Selection     Selection       `json:"selection"`
	KPIs          KPIs            `json:"kpis"`
	RegionTotals  []RegionTotal   `json:"region_totals"`
	RegionSummary []RegionSummary `json:"region_summary"`
	Heatmap       Matrix          `json:"heatmap"`
	VendorMetrics []MetricValue   `json:"vendor_metrics"`
	VendorFocus   *VendorSummary  `json:"vendor_focus"`
	Records       []Record        `json:"records"`
}
