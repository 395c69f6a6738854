package chart

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
)

func sampleTable() funds.Table {
	table := funds.Table{}
	samples := []struct {
		month months.ID
		date  string
		goal  string
		funds string
	}{
		{"2024-01", "2024-01-31 23:10:00-05:00", "4000", "5000"},
		{"2024-02", "2024-02-29 22:45:00-05:00", "4100", "3850.50"},
		{"2024-03", "2024-03-31 21:00:00-04:00", "4100", "4100"},
	}
	for _, sample := range samples {
		table = table.With(funds.WithNetIncome(funds.Row{
			Month: sample.month,
			Date:  sample.date,
			Goal:  decimal.RequireFromString(sample.goal),
			Funds: decimal.RequireFromString(sample.funds),
		}))
	}
	return table
}

func TestBalanceChart(t *testing.T) {
	figure, e := BalanceChart(sampleTable(), DefaultValueConfig())
	require.Nil(t, e)
	require.Len(t, figure.Data, 2)

	fundsTrace := figure.Data[0]
	assert.Equal(t, "bar", fundsTrace.Type)
	assert.Equal(t, FundsTraceName, fundsTrace.Name)
	assert.Equal(t, "#00cc96", fundsTrace.Marker.Color)
	assert.Equal(t, 0.75, fundsTrace.Opacity)
	assert.Equal(t, []float64{5000, 3850.5, 4100}, fundsTrace.Y)
	assert.Equal(t, "Net Income: $%{y:,.0f}", fundsTrace.HoverTemplate)

	goalTrace := figure.Data[1]
	assert.Equal(t, GoalTraceName, goalTrace.Name)
	assert.Equal(t, "#ef553b", goalTrace.Marker.Color)
	assert.Equal(t, sampleTable().Dates(), goalTrace.X)
	assert.Equal(t, "overlay", figure.Layout.BarMode)
}

func TestNetIncomeChart(t *testing.T) {
	figure, e := NetIncomeChart(sampleTable(), DefaultValueConfig())
	require.Nil(t, e)
	require.Len(t, figure.Data, 1)

	trace := figure.Data[0]
	assert.Equal(t, NetIncomeTraceName, trace.Name)
	assert.Equal(t, "#636efa", trace.Marker.Color)
	assert.Equal(t, []float64{1000, -249.5, 0}, trace.Y)
}

func TestHoverTemplateNamePlaceholder(t *testing.T) {
	style := DefaultValueConfig()
	style.HoverTemplate = "{name}: $%{y:,.0f}"

	balance, e := BalanceChart(sampleTable(), style)
	require.Nil(t, e)
	assert.Equal(t, "Funds: $%{y:,.0f}", balance.Data[0].HoverTemplate)
	assert.Equal(t, "Goal: $%{y:,.0f}", balance.Data[1].HoverTemplate)

	netIncome, e := NetIncomeChart(sampleTable(), style)
	require.Nil(t, e)
	assert.Equal(t, "Net Income: $%{y:,.0f}", netIncome.Data[0].HoverTemplate)
	assert.False(t, *netIncome.Data[0].ShowLegend)
}

func TestChartsRejectEmptyTable(t *testing.T) {
	_, e := BalanceChart(funds.Table{}, DefaultValueConfig())
	require.NotNil(t, e)
	assert.True(t, errors.Is(e.Err, ErrNoData))

	_, e = NetIncomeChart(funds.Table{}, DefaultValueConfig())
	require.NotNil(t, e)
	assert.True(t, errors.Is(e.Err, ErrNoData))
}

func TestComposeLayout(t *testing.T) {
	style := DefaultValueConfig()
	balance, _ := BalanceChart(sampleTable(), style)
	netIncome, _ := NetIncomeChart(sampleTable(), style)
	now := time.Date(2024, time.April, 10, 15, 0, 0, 0, time.UTC)

	figure := Compose(balance, netIncome, style, now)
	require.Len(t, figure.Data, 3)
	assert.Equal(t, "x", figure.Data[0].XAxis)
	assert.Equal(t, "y", figure.Data[1].YAxis)
	assert.Equal(t, "x2", figure.Data[2].XAxis)
	assert.Equal(t, "y2", figure.Data[2].YAxis)

	layout := figure.Layout
	assert.InDeltaSlice(t, []float64{0.46, 1}, layout.YAxis.Domain, 1e-9)
	assert.InDeltaSlice(t, []float64{0, 0.36}, layout.YAxis2.Domain, 1e-9)
	assert.Equal(t, []any{0.0, 7600.0}, layout.YAxis.Range)
	assert.Equal(t, []any{-1250.0, 1100.0}, layout.YAxis2.Range)
	assert.Equal(t, 0.0, layout.YAxis.MinAllowed)
	assert.Equal(t, "$", layout.YAxis2.TickPrefix)
	assert.Equal(t, ",.0f", layout.YAxis2.TickFormat)

	for _, xAxis := range []*Axis{layout.XAxis, layout.XAxis2} {
		assert.Equal(t, "date", xAxis.Type)
		assert.Equal(t, []any{"2024-01-15", "2024-04-15 15:00:00"}, xAxis.Range)
		assert.Equal(t, "2022-05-01", xAxis.MinAllowed)
		assert.Equal(t, "2024-04-15 15:00:00", xAxis.MaxAllowed)
		assert.Equal(t, "M1", xAxis.DTick)
		assert.Equal(t, "2025-01-01", xAxis.Tick0)
		assert.Equal(t, "%b\n%Y", xAxis.TickFormat)
		assert.Equal(t, "period", xAxis.TickLabelMode)
		assert.Equal(t, 20, xAxis.TickLabelShift)
	}
	assert.Equal(t, "x2", layout.XAxis.Matches)

	assert.Equal(t, "Trebuchet MS", layout.Font.Family)
	assert.Equal(t, "#27182B", layout.PaperBgColor)
	assert.Equal(t, "#392340", layout.PlotBgColor)
	assert.Equal(t, "x unified", layout.HoverMode)
	assert.Equal(t, "axis", layout.HoverSubplots)
	assert.Equal(t, "pan", layout.DragMode)
	assert.Equal(t, "h", layout.Legend.Orientation)
	assert.Equal(t, 0.13, layout.Legend.X)
	assert.Equal(t, Margin{Left: 20, Right: 20, Top: 5, Bottom: 20}, *layout.Margin)

	require.Len(t, layout.Annotations, 2)
	assert.Equal(t, "Funds Raised vs. Goal", layout.Annotations[0].Text)
	assert.InDelta(t, 1.0, layout.Annotations[0].Y, 1e-9)
	assert.Equal(t, "Net Income", layout.Annotations[1].Text)
	assert.InDelta(t, 0.36, layout.Annotations[1].Y, 1e-9)

	// Only the balance series appear in the legend.
	legendNames := make([]string, 0)
	for _, trace := range figure.Data {
		require.NotNil(t, trace.ShowLegend, trace.Name)
		if *trace.ShowLegend {
			legendNames = append(legendNames, trace.Name)
		}
	}
	assert.Equal(t, []string{FundsTraceName, GoalTraceName}, legendNames)

	// intermediate charts keep their own axis assignment
	assert.Empty(t, balance.Data[0].XAxis)
}

func TestComposeMarshalsPlotlyNames(t *testing.T) {
	style := DefaultValueConfig()
	balance, _ := BalanceChart(sampleTable(), style)
	netIncome, _ := NetIncomeChart(sampleTable(), style)

	encoded, err := json.Marshal(Compose(balance, netIncome, style, time.Now()))
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(encoded, &generic))
	layout := generic["layout"].(map[string]any)
	for _, key := range []string{"paper_bgcolor", "plot_bgcolor", "xaxis2", "yaxis2", "hovermode", "hoversubplots", "dragmode", "hoverlabel"} {
		assert.Contains(t, layout, key)
	}
	yAxis := layout["yaxis"].(map[string]any)
	assert.Equal(t, 0.0, yAxis["minallowed"])
	assert.Equal(t, false, yAxis["fixedrange"])
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultValueConfig().Validate())

	broken := DefaultValueConfig()
	broken.BalanceRange = []float64{100}
	broken.NetIncomeRange = []float64{5, -5}
	broken.VerticalSpacing = 1.5
	err := broken.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balance_range")
	assert.Contains(t, err.Error(), "net_income_range")
	assert.Contains(t, err.Error(), "vertical_spacing")
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$7,600", formatCurrency(7600, "$"))
	assert.Equal(t, "-$1,250", formatCurrency(-1250.4, "$"))
	assert.Equal(t, "$0", formatCurrency(0, "$"))
	assert.Equal(t, "$1,000,000", formatCurrency(999999.6, "$"))
}

func TestRenderSnapshots(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "snapshots")

	paths, e := RenderSnapshots(sampleTable(), DefaultValueConfig(), outputDir)
	require.Nil(t, e)
	require.Len(t, paths, 2)

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, pngMagic, content[:4], path)
	}
}

func TestRenderSnapshotsNeedsTwoRows(t *testing.T) {
	table := funds.Table{}.With(funds.Row{Month: "2024-01"})
	_, e := RenderSnapshots(table, DefaultValueConfig(), t.TempDir())
	require.NotNil(t, e)
	assert.True(t, errors.Is(e.Err, ErrNoData))
}
