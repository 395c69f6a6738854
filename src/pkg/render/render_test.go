package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-report/src/pkg/chart"
	"funding-report/src/pkg/funds"
)

func aggregatedTable(t *testing.T) funds.Table {
	t.Helper()
	monthTables := []funds.MonthTable{
		{Month: "2023-10", Rows: []funds.Row{
			{Month: "2023-10", Date: "2023-10-15 12:00:00-04:00", Goal: decimal.NewFromInt(4000), Funds: decimal.NewFromInt(2100)},
			{Month: "2023-10", Date: "2023-10-31 23:00:00-04:00", Goal: decimal.NewFromInt(4000), Funds: decimal.NewFromInt(4350)},
		}},
		{Month: "2023-11", Rows: []funds.Row{
			{Month: "2023-11", Date: "2023-11-28 20:00:00-05:00", Goal: decimal.NewFromInt(4200), Funds: decimal.NewFromInt(3900)},
			{Month: "2023-11", Date: funds.EmergencyFundraiserTimestamp, Goal: decimal.NewFromInt(4200), Funds: decimal.NewFromInt(7400)},
		}},
		{Month: "2023-12", Rows: []funds.Row{
			{Month: "2023-12", Date: "2023-12-31 22:30:00-05:00", Goal: decimal.NewFromInt(4200), Funds: decimal.RequireFromString("4012.75")},
		}},
	}
	table, e := funds.Aggregate(monthTables, funds.DefaultExclusionRules())
	require.Nil(t, e)
	return table
}

func reportFigure(t *testing.T, table funds.Table) chart.Figure {
	t.Helper()
	style := chart.DefaultValueConfig()
	balance, e := chart.BalanceChart(table, style)
	require.Nil(t, e)
	netIncome, e := chart.NetIncomeChart(table, style)
	require.Nil(t, e)
	return chart.Compose(balance, netIncome, style, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
}

func traceByName(t *testing.T, figure chart.Figure, name string) chart.Trace {
	t.Helper()
	for _, trace := range figure.Data {
		if trace.Name == name {
			return trace
		}
	}
	require.FailNow(t, "trace not found", name)
	return chart.Trace{}
}

func floatsOf(values []decimal.Decimal) []float64 {
	result := make([]float64, 0, len(values))
	for _, value := range values {
		result = append(result, value.InexactFloat64())
	}
	return result
}

func TestHTMLRoundTripMatchesTable(t *testing.T) {
	table := aggregatedTable(t)
	require.Equal(t, 2, table.Len())

	htmlText, e := HTML(reportFigure(t, table), ReportOptions("#27182B"))
	require.Nil(t, e)

	figure, e := ExtractFigure(htmlText)
	require.Nil(t, e)
	require.Len(t, figure.Data, 3)

	fundsTrace := traceByName(t, figure, chart.FundsTraceName)
	goalTrace := traceByName(t, figure, chart.GoalTraceName)
	netIncomeTrace := traceByName(t, figure, chart.NetIncomeTraceName)

	assert.Equal(t, table.Dates(), fundsTrace.X)
	assert.Equal(t, table.Dates(), goalTrace.X)
	assert.Equal(t, table.Dates(), netIncomeTrace.X)
	assert.Equal(t, floatsOf(table.FundsColumn()), fundsTrace.Y)
	assert.Equal(t, floatsOf(table.GoalColumn()), goalTrace.Y)
	assert.Equal(t, floatsOf(table.NetIncomeColumn()), netIncomeTrace.Y)

	// November ends on the emergency fundraiser row, so it never reaches the page.
	assert.NotContains(t, fundsTrace.X, funds.EmergencyFundraiserTimestamp)
	assert.NotContains(t, fundsTrace.X, "2023-11-28 20:00:00-05:00")
	assert.Equal(t, "2023-12-31 22:30:00-05:00", fundsTrace.X[1])
	assert.Equal(t, -187.25, netIncomeTrace.Y[1])
}

func TestHTMLPageShape(t *testing.T) {
	htmlText, e := HTML(reportFigure(t, aggregatedTable(t)), ReportOptions("#27182B"))
	require.Nil(t, e)

	assert.True(t, strings.HasPrefix(htmlText, "<!doctype html>"))
	assert.Contains(t, htmlText, `src="`+PlotlyCDN+`"`)
	assert.Contains(t, htmlText, `"modeBarButtonsToRemove":["lasso2d","select2d"]`)
	assert.Contains(t, htmlText, "background-color:#27182B;")
	assert.NotContains(t, strings.ToLower(htmlText), "mathjax")
	assert.NotContains(t, htmlText, "zoomIn2d")
}

func TestChartOptionsRemoveZoomButtons(t *testing.T) {
	figure, e := chart.NetIncomeChart(aggregatedTable(t), chart.DefaultValueConfig())
	require.Nil(t, e)

	htmlText, e := HTML(figure, ChartOptions("Net Income"))
	require.Nil(t, e)
	assert.Contains(t, htmlText, `"modeBarButtonsToRemove":["zoomIn2d","zoomOut2d","lasso2d","select2d"]`)
	assert.Contains(t, htmlText, "<title>Net Income</title>")
}

func TestHTMLEscapesTitle(t *testing.T) {
	htmlText, e := HTML(chart.Figure{}, ChartOptions("<b>Funds & Goal</b>"))
	require.Nil(t, e)
	assert.Contains(t, htmlText, "<title>&lt;b&gt;Funds &amp; Goal&lt;/b&gt;</title>")
}

func TestExtractFigureMissingBlock(t *testing.T) {
	_, e := ExtractFigure("<html><body><p>nothing here</p></body></html>")
	require.NotNil(t, e)
	assert.Contains(t, e.Context, FigureDataID)
}

func TestWriteHTMLReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.html")

	require.Nil(t, WriteHTML(path, "first"))
	require.Nil(t, WriteHTML(path, "second"))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(written))
}
