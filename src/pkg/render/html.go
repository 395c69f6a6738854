package render

import (
	"bytes"
	"encoding/json"
	"html"
	"os"
	"path/filepath"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/chart"
)

// PlotlyCDN is the plotly.js bundle the page loads; it is never inlined.
const PlotlyCDN = "https://cdn.plot.ly/plotly-2.35.2.min.js"

// Element ids used inside the page. ExtractFigure relies on FigureDataID.
const (
	PlotDivID    = "funding-report"
	FigureDataID = "figure-data"
	PlotConfigID = "plot-config"
)

/*
Options controls the page around a figure.
*/
type Options struct {
	Title                  string   `json:"title"`
	Background             string   `json:"background"`
	ModeBarButtonsToRemove []string `json:"mode_bar_buttons_to_remove"`
}

// plotConfig is the third argument of Plotly.newPlot.
type plotConfig struct {
	ModeBarButtonsToRemove []string `json:"modeBarButtonsToRemove"`
	Responsive             bool     `json:"responsive"`
}

/*
ReportOptions is used for the final two-row report: panning and zooming stay,
lasso and box select go.
*/
func ReportOptions(background string) Options {
	return Options{
		Title:                  "Monthly Funding",
		Background:             background,
		ModeBarButtonsToRemove: []string{"lasso2d", "select2d"},
	}
}

/*
ChartOptions is used for an intermediate chart shown on its own, which also
drops the zoom in/out buttons.
*/
func ChartOptions(title string) Options {
	return Options{
		Title:                  title,
		Background:             "#FFFFFF",
		ModeBarButtonsToRemove: []string{"zoomIn2d", "zoomOut2d", "lasso2d", "select2d"},
	}
}

/*
HTML renders a figure into a standalone HTML page.

plotly.js comes from the CDN and MathJax is not loaded. The figure is embedded
as JSON (HTML-escaped by encoding/json, so it can't close the script tag early)
and drawn by a small inline script.
*/
func HTML(figure chart.Figure, options Options) (htmlText string, e *xerr.Error) {
	figureJSON, marshalErr := json.Marshal(figure)
	if marshalErr != nil {
		e = xerr.NewError(marshalErr, "marshal figure to JSON", options.Title)
		return htmlText, e
	}

	configJSON, marshalErr := json.Marshal(plotConfig{
		ModeBarButtonsToRemove: options.ModeBarButtonsToRemove,
		Responsive:             true,
	})
	if marshalErr != nil {
		e = xerr.NewError(marshalErr, "marshal plot config to JSON", options.Title)
		return htmlText, e
	}

	var buffer bytes.Buffer

	buffer.WriteString("<!doctype html>")
	buffer.WriteString("<html>")
	buffer.WriteString("<head>")
	buffer.WriteString(`<meta charset="utf-8">`)
	buffer.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	buffer.WriteString("<title>" + html.EscapeString(options.Title) + "</title>")
	buffer.WriteString(`<script charset="utf-8" src="` + PlotlyCDN + `"></script>`)
	buffer.WriteString("</head>")

	bodyStyle := "margin:0;padding:0;background-color:" + html.EscapeString(options.Background) + ";"
	buffer.WriteString(`<body style="` + bodyStyle + `">`)

	buffer.WriteString(`<div id="` + PlotDivID + `" class="plotly-graph-div" style="height:100vh;width:100%;"></div>`)

	// Data blocks.
	buffer.WriteString(`<script type="application/json" id="` + FigureDataID + `">`)
	buffer.Write(figureJSON)
	buffer.WriteString(`</script>`)
	buffer.WriteString(`<script type="application/json" id="` + PlotConfigID + `">`)
	buffer.Write(configJSON)
	buffer.WriteString(`</script>`)

	// Drawing.
	buffer.WriteString(`<script type="text/javascript">`)
	buffer.WriteString(`(function () {`)
	buffer.WriteString(`var figure = JSON.parse(document.getElementById("` + FigureDataID + `").textContent);`)
	buffer.WriteString(`var config = JSON.parse(document.getElementById("` + PlotConfigID + `").textContent);`)
	buffer.WriteString(`if (window.Plotly) { Plotly.newPlot("` + PlotDivID + `", figure.data, figure.layout, config); }`)
	buffer.WriteString(`})();`)
	buffer.WriteString(`</script>`)

	buffer.WriteString("</body>")
	buffer.WriteString("</html>")

	htmlText = buffer.String()
	return htmlText, e
}

/*
WriteHTML writes the page to path, replacing any existing file.
*/
func WriteHTML(path string, htmlText string) (e *xerr.Error) {
	directory := filepath.Dir(path)
	mkdirErr := os.MkdirAll(directory, 0o755)
	if mkdirErr != nil {
		e = xerr.NewErrorECOL(mkdirErr, "create output directory", "path", directory)
		return e
	}

	writeErr := os.WriteFile(path, []byte(htmlText), 0o644)
	if writeErr != nil {
		e = xerr.NewErrorECOL(writeErr, "write HTML report file", "path", path)
		return e
	}

	tl.Log(tl.Info1, palette.Green, "Saved report to '%s'", path)
	return e
}
