package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/stowpack/stowpack/internal/packing"
	"github.com/stowpack/stowpack/internal/viz"
)

// plotlyCDN is the plotly.js bundle loaded by report pages. The same
// version is used by the dashboard UI.
const plotlyCDN = "https://cdn.plot.ly/plotly-2.32.0.min.js"

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"addOne": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="{{.PlotlyCDN}}"></script>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 24px; }
h1 { text-align: center; font-size: 20px; }
h2 { font-size: 15px; margin: 18px 0 6px; }
table { border-collapse: collapse; margin: 0 auto 12px; }
th, td { border: 1px solid #333; padding: 4px 12px; font-size: 12px; text-align: center; }
th { background: #888; color: #fff; }
td { background: #f5f0e1; }
.view { width: 800px; height: 600px; margin: 0 auto; }
section { page-break-inside: avoid; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .ShowTables}}
<table>
<tr><th>Metric</th><th>Value</th></tr>
<tr><td>Containers Used</td><td>{{.Summary.Containers}}</td></tr>
<tr><td>Items Placed</td><td>{{.Summary.Placed}}</td></tr>
<tr><td>Items Unplaced</td><td>{{.Summary.Unplaced}}</td></tr>
<tr><td>Volume Efficiency</td><td>{{printf "%.1f%%" .Summary.VolumeEfficiency}}</td></tr>
</table>
{{end}}
{{range $i, $v := .Views}}
<section>
<h2>{{$v.Name}}</h2>
<div id="view-{{$i}}" class="view"></div>
</section>
{{end}}
{{if .ShowTables}}
<h2>Container Details</h2>
<table>
<tr><th>Container</th><th>Items</th><th>Weight (kg)</th><th>Volume Used (%)</th></tr>
{{range .LoadStats}}
<tr>
<td>Container {{addOne .Container}}</td>
<td>{{.Items}}</td>
<td>{{printf "%.1f" .Weight}}</td>
<td>{{printf "%.1f%%" .VolumeUtilization}}</td>
</tr>
{{end}}
</table>
{{end}}
<script>
const figures = {{.Figures}};
Promise.all(figures.map(function (fig, i) {
	return Plotly.newPlot("view-" + i, fig.data, fig.layout, {staticPlot: true});
})).then(function () { window.__reportReady = true; });
</script>
</body>
</html>
`))

type reportData struct {
	Title      string
	PlotlyCDN  string
	ShowTables bool
	Summary    packing.Summary
	LoadStats  []packing.LoadStats
	Views      []viz.View
	Figures    template.JS
}

// ReportHTML renders the full multi-view report page: summary table,
// the four camera views, and the per-container detail table.
func ReportHTML(plan *packing.Plan) ([]byte, error) {
	return renderPage(plan, viz.Views(), "Container Packing 3D Multi-View Report", true)
}

// ViewHTML renders a page holding a single camera view, used for PNG
// snapshots.
func ViewHTML(plan *packing.Plan, view viz.View) ([]byte, error) {
	return renderPage(plan, []viz.View{view}, view.Name, false)
}

func renderPage(plan *packing.Plan, views []viz.View, title string, tables bool) ([]byte, error) {
	figures := make([]*viz.Figure, len(views))
	for i, v := range views {
		figures[i] = viz.BuildView(plan, v)
	}
	figJSON, err := json.Marshal(figures)
	if err != nil {
		return nil, fmt.Errorf("encode figures: %w", err)
	}

	data := reportData{
		Title:      title,
		PlotlyCDN:  plotlyCDN,
		ShowTables: tables,
		Summary:    plan.Summary(),
		LoadStats:  plan.LoadStats(),
		Views:      views,
		Figures:    template.JS(figJSON),
	}

	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
