package templates

import (
	"context"
	"encoding/json"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"sellers-dashboard/internal/models"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// ChartsSignal holds chart data. The underscore keeps it in the browser
// instead of being sent back with every request.
const ChartsSignal = "_charts"

const plotlyScript = "https://cdn.plot.ly/plotly-2.35.2.min.js"

type PageData struct {
	Title   string
	Options models.FilterOptions
	View    models.View
}

type pageContext struct {
	PageData
	Signals        string
	DatastarScript string
	PlotlyScript   string
}

// ChartPoint is one bubble on the units/sales/average scatter chart.
type ChartPoint struct {
	Vendor       string        `json:"vendor"`
	Region       string        `json:"region"`
	SoldUnits    int           `json:"sold_units"`
	TotalSales   models.Number `json:"total_sales"`
	SalesAverage models.Number `json:"sales_average"`
}

// ChartData is the payload the browser charting code renders from.
type ChartData struct {
	RegionTotals  []models.RegionTotal   `json:"regionTotals"`
	RegionSummary []models.RegionSummary `json:"regionSummary"`
	Heatmap       models.Matrix          `json:"heatmap"`
	VendorMetrics []models.MetricValue   `json:"vendorMetrics"`
	Points        []ChartPoint           `json:"points"`
}

func NewChartData(view models.View) ChartData {
	points := make([]ChartPoint, 0, len(view.Records))
	for _, r := range view.Records {
		points = append(points, ChartPoint{
			Vendor:       r.Vendor,
			Region:       r.Region,
			SoldUnits:    r.SoldUnits,
			TotalSales:   r.TotalSales,
			SalesAverage: r.SalesAverage,
		})
	}
	return ChartData{
		RegionTotals:  view.RegionTotals,
		RegionSummary: view.RegionSummary,
		Heatmap:       view.Heatmap,
		VendorMetrics: view.VendorMetrics,
		Points:        points,
	}
}

// Signals is the datastar signal set for a view: the selection plus chart data.
func Signals(view models.View) map[string]any {
	return map[string]any{
		"region":     view.Selection.Region,
		"vendor":     view.Selection.Vendor,
		"metrics":    view.Selection.Metrics,
		ChartsSignal: NewChartData(view),
	}
}

var page = template.Must(template.Must(fragments.Clone()).Funcs(template.FuncMap{
	"selected": func(current, option string) bool { return current == option },
	"metricSelected": func(metrics []models.Metric, m models.Metric) bool {
		for _, x := range metrics {
			if x == m {
				return true
			}
		}
		return false
	},
}).Parse(`{{define "page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script type="module" src="{{.DatastarScript}}"></script>
<script src="{{.PlotlyScript}}"></script>
<style>
body{margin:0;font-family:"Segoe UI","SF Pro Text",-apple-system,system-ui,sans-serif;color:#0F172A;background:radial-gradient(circle at 0% 0%,#E0F2FE 0%,#CBD5E1 30%,#A5B4FC 55%,#818CF8 100%);min-height:100vh}
.layout{display:grid;grid-template-columns:260px 1fr;gap:1.2rem;max-width:1400px;margin:0 auto;padding:1.3rem}
.glass-card{background:rgba(255,255,255,.6);border-radius:24px;padding:1.2rem 1.6rem;border:1px solid rgba(255,255,255,.85);backdrop-filter:blur(16px);box-shadow:0 16px 40px rgba(15,23,42,.15)}
.kpi-grid{display:grid;grid-template-columns:repeat(4,1fr);gap:1rem;margin:1rem 0}
.metric-label{font-size:.75rem;text-transform:uppercase;letter-spacing:.12em;opacity:.7}
.metric-value{font-size:2rem;font-weight:700;margin:.1rem 0}
.focus-name{font-size:1.5rem}
.metric-sub{font-size:.85rem;opacity:.8}
.badge-pill{border-radius:999px;padding:.17rem .7rem;font-size:.73rem;background:rgba(15,23,42,.07);display:inline-block;margin-top:.45rem}
.pill-green{background:rgba(22,163,74,.15);color:#166534}
.pill-blue{background:rgba(59,130,246,.15);color:#1D4ED8}
.pill-orange{background:rgba(234,179,8,.15);color:#B45309}
.header-title{font-size:1.7rem;font-weight:700;letter-spacing:.1em;text-transform:uppercase}
.row{display:grid;grid-template-columns:1fr 1fr;gap:1rem;margin-bottom:1rem}
.modern-table{width:100%;border-collapse:collapse;font-size:.85rem}
.modern-table th,.modern-table td{padding:.4rem .6rem;text-align:left;border-bottom:1px solid rgba(15,23,42,.08)}
.chart{min-height:360px}
label{display:block;margin-top:1rem;font-size:.8rem;text-transform:uppercase;letter-spacing:.08em}
select{width:100%;margin-top:.3rem}
</style>
</head>
<body data-signals="{{.Signals}}" data-effect="window.renderCharts && window.renderCharts($_charts)">
<div class="layout">
<aside class="glass-card">
<h2>Filters</h2>
<label>Region
<select data-bind="region" data-on:change="@get('/sse/view')">
{{range .Options.Regions}}<option value="{{.}}"{{if selected $.View.Selection.Region .}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
<label>Vendor (optional)
<select data-bind="vendor" data-on:change="@get('/sse/view')">
{{range .Options.Vendors}}<option value="{{.}}"{{if selected $.View.Selection.Vendor .}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
<label>Metrics on chart
<select multiple data-bind="metrics" data-on:change="@get('/sse/view')">
{{range .Options.Metrics}}<option value="{{.}}"{{if metricSelected $.View.Selection.Metrics .}} selected{{end}}>{{.}}</option>{{end}}
</select></label>
</aside>
<main>
<div class="row">
<div class="glass-card"><div class="header-title">Sellers Dashboard</div><div class="metric-sub">Based on the sales spreadsheet</div></div>
<div class="glass-card"><div class="metric-label">Sales Analytics</div>{{template "badge" .View.Selection}}</div>
</div>
{{template "kpis" .View.KPIs}}
<section>
<h2>Overview</h2>
<div class="row">
<div class="glass-card"><div id="chart-region" class="chart"></div></div>
<div class="glass-card"><div id="chart-bubble" class="chart"></div></div>
</div>
<div class="row">
<div class="glass-card"><div id="chart-heatmap" class="chart"></div></div>
<div class="glass-card"><div class="metric-label">Data table</div><div class="metric-sub">Filtered view of the spreadsheet.</div>{{template "records" .View.Records}}</div>
</div>
</section>
<section>
<h2>Vendors</h2>
<div class="glass-card"><div id="chart-vendor" class="chart"></div></div>
<div class="row">
{{template "focus" .View.VendorFocus}}
<div class="glass-card"><div class="metric-label">Vendors data</div><div class="metric-sub">Filtered vendor records (after applying Region and Vendor filters).</div>{{template "vendorRecords" .View.Records}}</div>
</div>
</section>
<section>
<h2>Regions</h2>
<div class="row">
<div class="glass-card"><div class="metric-label">Region summary</div><div class="metric-sub">Aggregated KPIs per region (based on current filters).</div>{{template "regionSummary" .View.RegionSummary}}</div>
<div class="glass-card"><div id="chart-region-summary" class="chart"></div></div>
</div>
</section>
<details class="glass-card">
<summary>What each section is useful for</summary>
<h3>Overview</h3>
<ul>
<li><b>Total Sales by Region</b>: which region leads revenue and which is weak.</li>
<li><b>Bubble chart</b>: each bubble is a vendor record; volume, revenue and average ticket in one view.</li>
<li><b>Heatmap</b>: crosses region and vendor to find hotspots of high or low sales.</li>
</ul>
<h3>Vendors</h3>
<ul>
<li><b>Vendor Performance by Metric</b>: compares vendors on units, sales and average.</li>
<li><b>Vendor focus</b>: summary card for the selected vendor across all regions.</li>
<li><b>Vendors data</b>: table to review specific vendor rows.</li>
</ul>
<h3>Regions</h3>
<ul>
<li><b>Region summary</b>: totals, units, average ticket and vendor count per region.</li>
<li><b>Total Sales &amp; Context per Region</b>: which region contributes most, with context.</li>
</ul>
</details>
</main>
</div>
<script>
window.renderCharts = function (c) {
  if (!window.Plotly || !c) return;
  const layout = (title, x, y) => ({title, xaxis: {title: x}, yaxis: {title: y}, margin: {l: 40, r: 20, t: 50, b: 40}, plot_bgcolor: 'rgba(0,0,0,0)', paper_bgcolor: 'rgba(0,0,0,0)'});
  Plotly.react('chart-region', [{type: 'bar', x: c.regionTotals.map(r => r.region), y: c.regionTotals.map(r => r.total_sales)}], layout('Total Sales by Region', 'Region', 'Total Sales'));
  const regions = [...new Set(c.points.map(p => p.region))];
  Plotly.react('chart-bubble', regions.map(region => {
    const pts = c.points.filter(p => p.region === region);
    return {type: 'scatter', mode: 'markers', name: region, x: pts.map(p => p.sold_units), y: pts.map(p => p.total_sales), text: pts.map(p => p.vendor), marker: {size: pts.map(p => p.sales_average), sizemode: 'area', sizeref: Math.max(1, ...c.points.map(p => p.sales_average)) / (30 * 30), sizemin: 4}};
  }), layout('Bubble Chart: Units vs Sales vs Avg', 'Units Sold', 'Total Sales'));
  Plotly.react('chart-heatmap', [{type: 'heatmap', z: c.heatmap.values, x: c.heatmap.vendors, y: c.heatmap.regions, colorscale: 'Blues'}], layout('Heatmap: Total Sales by Region & Vendor', 'Vendor', 'Region'));
  const metrics = [...new Set(c.vendorMetrics.map(m => m.metric))];
  Plotly.react('chart-vendor', metrics.map(metric => {
    const rows = c.vendorMetrics.filter(m => m.metric === metric);
    return {type: 'bar', name: metric, x: rows.map(r => r.vendor), y: rows.map(r => r.value)};
  }), Object.assign(layout('Vendor Performance by Metric', 'Vendor', 'Value'), {barmode: 'group'}));
  Plotly.react('chart-region-summary', [{type: 'bar', x: c.regionSummary.map(r => r.region), y: c.regionSummary.map(r => r.total_sales), customdata: c.regionSummary.map(r => [r.units_sold, r.avg_sales, r.vendors_count]), hovertemplate: 'Units: %{customdata[0]}<br>Avg: %{customdata[1]}<br>Vendors: %{customdata[2]}<extra></extra>'}], layout('Total Sales & Context per Region', 'Region', 'Total Sales'));
};
</script>
</body>
</html>{{end}}`))

// Dashboard renders the full page with the initial view inlined.
func Dashboard(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(Signals(data.View))
		if err != nil {
			return err
		}
		return page.ExecuteTemplate(w, "page", pageContext{
			PageData:       data,
			Signals:        string(signals),
			DatastarScript: datastarScript,
			PlotlyScript:   plotlyScript,
		})
	})
}
