package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"sellers-dashboard/internal/models"
)

const maxTableRows = 200

var funcs = template.FuncMap{
	"currency":    Currency,
	"integer":     Integer,
	"avgCurrency": AverageCurrency,
	"amount":      Amount,
	"isAll":       func(s string) bool { return s == "" || s == models.AllSentinel },
}

var fragments = template.Must(template.New("fragments").Funcs(funcs).Parse(`
{{define "kpis"}}<div id="kpi-cards" class="kpi-grid">
<div class="glass-card"><div class="metric-label">Total Sales</div><div class="metric-value">{{currency .TotalSales}}</div><div class="metric-sub">Sum of TOTAL SALES</div><span class="badge-pill pill-green">Revenue</span></div>
<div class="glass-card"><div class="metric-label">Units Sold</div><div class="metric-value">{{integer .TotalUnits}}</div><div class="metric-sub">Total units across filtered data</div><span class="badge-pill pill-blue">Volume</span></div>
<div class="glass-card"><div class="metric-label">Avg Sales</div><div class="metric-value">{{avgCurrency .AvgSales}}</div><div class="metric-sub">Mean SALES AVERAGE</div><span class="badge-pill pill-orange">Average ticket</span></div>
<div class="glass-card"><div class="metric-label">Active Vendors</div><div class="metric-value">{{.VendorCount}}</div><div class="metric-sub">Unique VENDOR in selection</div><span class="badge-pill">Coverage</span></div>
</div>{{end}}

{{define "badge"}}<div id="selection-badge" class="selection-badge">Region: {{if isAll .Region}}All{{else}}{{.Region}}{{end}}<br/>Vendor: {{if isAll .Vendor}}All{{else}}{{.Vendor}}{{end}}</div>{{end}}

{{define "focus"}}<div id="vendor-focus" class="glass-card">
<div class="metric-label">Vendor focus</div>
{{if .}}<div class="metric-value focus-name">{{.Vendor}}</div>
<div class="metric-sub">Total Sales: <b>{{currency .TotalSales}}</b><br/>Units Sold: <b>{{integer .UnitsSold}}</b><br/>Avg Sales: <b>{{avgCurrency .AvgSales}}</b></div>
<span class="badge-pill pill-blue">Detail view</span>
{{else}}<div class="metric-sub">Select a specific vendor in the sidebar to see a detailed summary here.</div>{{end}}
</div>{{end}}

{{define "regionSummary"}}<div id="region-summary">
<table class="modern-table">
<thead><tr><th>Region</th><th>Total Sales</th><th>Units Sold</th><th>Avg Sales</th><th>Vendors</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Region}}</td><td><strong>{{currency .TotalSales}}</strong></td><td>{{integer .UnitsSold}}</td><td>{{avgCurrency .AvgSales}}</td><td>{{.Vendors}}</td></tr>
{{else}}<tr class="empty"><td colspan="5">No records match the current filters.</td></tr>{{end}}
</tbody>
</table>
</div>{{end}}

{{define "records"}}<div id="records-table">
<table class="modern-table">
<thead><tr><th>Name</th><th>Last name</th><th>Vendor</th><th>Region</th><th>Sold units</th><th>Total sales</th><th>Sales average</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Name}}</td><td>{{.LastName}}</td><td>{{.Vendor}}</td><td>{{.Region}}</td><td>{{integer .SoldUnits}}</td><td>{{amount .TotalSales}}</td><td>{{amount .SalesAverage}}</td></tr>
{{else}}<tr class="empty"><td colspan="7">No records match the current filters.</td></tr>{{end}}
</tbody>
</table>
</div>{{end}}

{{define "vendorRecords"}}<div id="vendor-records">
<table class="modern-table">
<thead><tr><th>Vendor</th><th>Region</th><th>Sold units</th><th>Total sales</th><th>Sales average</th></tr></thead>
<tbody>
{{range .}}<tr><td>{{.Vendor}}</td><td>{{.Region}}</td><td>{{integer .SoldUnits}}</td><td>{{amount .TotalSales}}</td><td>{{amount .SalesAverage}}</td></tr>
{{else}}<tr class="empty"><td colspan="5">No records match the current filters.</td></tr>{{end}}
</tbody>
</table>
</div>{{end}}
`))

func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fragments.ExecuteTemplate(w, name, data)
	})
}

func limitRows(records []models.Record) []models.Record {
	if len(records) > maxTableRows {
		return records[:maxTableRows]
	}
	return records
}

func KPICards(kpis models.KPIs) templ.Component {
	return fragment("kpis", kpis)
}

func SelectionBadge(sel models.Selection) templ.Component {
	return fragment("badge", sel)
}

// VendorFocusCard renders the focus summary, or a prompt when summary is nil.
func VendorFocusCard(summary *models.VendorSummary) templ.Component {
	return fragment("focus", summary)
}

func RegionSummaryTable(rows []models.RegionSummary) templ.Component {
	return fragment("regionSummary", rows)
}

func RecordsTable(records []models.Record) templ.Component {
	return fragment("records", limitRows(records))
}

func VendorRecordsTable(records []models.Record) templ.Component {
	return fragment("vendorRecords", limitRows(records))
}
