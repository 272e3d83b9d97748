package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverage_JSON(t *testing.T) {
	data, err := json.Marshal(KPIs{TotalSales: 10, TotalUnits: 2, AvgSales: UndefinedAverage()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_sales":10,"total_units":2,"avg_sales":null,"vendor_count":0}`, string(data))

	var kpis KPIs
	require.NoError(t, json.Unmarshal(data, &kpis))
	assert.False(t, kpis.AvgSales.Defined())

	require.NoError(t, json.Unmarshal([]byte(`{"avg_sales":12.5}`), &kpis))
	assert.True(t, kpis.AvgSales.Defined())
	assert.Equal(t, Average(12.5), kpis.AvgSales)
}

func TestMetric(t *testing.T) {
	r := Record{SoldUnits: 3, TotalSales: 30.5, SalesAverage: 10.25}

	assert.Equal(t, Number(3), MetricUnits.Value(r))
	assert.Equal(t, Number(30.5), MetricTotal.Value(r))
	assert.Equal(t, Number(10.25), MetricAverage.Value(r))
	assert.False(t, Metric("Profit").Value(r).Defined())

	r.SalesAverage = Missing()
	assert.False(t, MetricAverage.Value(r).Defined())

	for _, m := range Metrics {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Metric("Profit").Valid())
	assert.False(t, Metric("units sold").Valid())
}

func TestDefaultSelection(t *testing.T) {
	sel := DefaultSelection()

	assert.True(t, sel.AllRegions())
	assert.True(t, sel.AllVendors())
	assert.Equal(t, []Metric{MetricTotal, MetricUnits}, sel.Metrics)

	// The returned metrics must not alias the package defaults.
	sel.Metrics[0] = MetricAverage
	assert.Equal(t, MetricTotal, DefaultMetrics[0])
}

func TestSelection_All(t *testing.T) {
	assert.True(t, Selection{}.AllRegions())
	assert.False(t, Selection{Region: "North"}.AllRegions())
	assert.False(t, Selection{Vendor: "all"}.AllVendors())
}
