package chart

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
)

// Snapshot file names inside the snapshot directory.
const (
	BalanceSnapshotName   = "balance.png"
	NetIncomeSnapshotName = "net-income.png"
)

/*
RenderSnapshots writes static PNG versions of both charts into outputDir.

They are for places where the interactive HTML can't be opened (chat
previews, email bodies). Bars are placed at the first day of each month.
Returns the written file paths.
*/
func RenderSnapshots(table funds.Table, style Config, outputDir string) (paths []string, e *xerr.Error) {
	if table.Len() < 2 {
		e = xerr.NewErrorECOL(ErrNoData, "render chart snapshots", "rows", table.Len())
		return paths, e
	}

	mkdirErr := os.MkdirAll(outputDir, 0o755)
	if mkdirErr != nil {
		e = xerr.NewErrorECOL(mkdirErr, "create snapshot directory", "path", outputDir)
		return paths, e
	}

	monthStarts, e := monthPositions(table)
	if e != nil {
		return paths, e
	}

	balancePNG, e := renderBalanceSnapshot(table, monthStarts, style)
	if e != nil {
		return paths, e
	}
	netIncomePNG, e := renderNetIncomeSnapshot(table, style)
	if e != nil {
		return paths, e
	}

	files := []struct {
		name    string
		content []byte
	}{
		{BalanceSnapshotName, balancePNG},
		{NetIncomeSnapshotName, netIncomePNG},
	}
	for _, file := range files {
		path := filepath.Join(outputDir, file.name)
		writeErr := os.WriteFile(path, file.content, 0o644)
		if writeErr != nil {
			e = xerr.NewErrorECOL(writeErr, "write chart snapshot", "path", path)
			return paths, e
		}
		paths = append(paths, path)
		tl.Log(tl.Info1, palette.Green, "Saved chart snapshot to '%s'", path)
	}

	return paths, e
}

func monthPositions(table funds.Table) (monthStarts []time.Time, e *xerr.Error) {
	for _, row := range table.Rows {
		monthStart, parseErr := months.Parse(row.Month)
		if parseErr != nil {
			e = xerr.NewErrorECOL(parseErr, "place snapshot bar", "month", row.Month)
			return monthStarts, e
		}
		monthStarts = append(monthStarts, monthStart)
	}
	return monthStarts, e
}

func renderBalanceSnapshot(table funds.Table, monthStarts []time.Time, style Config) (png []byte, e *xerr.Error) {
	fundsValues := floats(table, func(row funds.Row) float64 { return row.Funds.InexactFloat64() })
	goalValues := floats(table, func(row funds.Row) float64 { return row.Goal.InexactFloat64() })

	balance := gochart.Chart{
		Title:      style.BalanceTitle,
		TitleStyle: gochart.Style{FontColor: colorFrom(style.FontColor)},
		Width:      style.SnapshotWidth,
		Height:     style.SnapshotHeight,
		Background: gochart.Style{FillColor: colorFrom(style.PaperBackground), Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Canvas:     gochart.Style{FillColor: colorFrom(style.PlotBackground)},
		XAxis: gochart.XAxis{
			Style:          axisStyle(style),
			ValueFormatter: gochart.TimeValueFormatterWithFormat("Jan 2006"),
		},
		YAxis: gochart.YAxis{
			Style:          axisStyle(style),
			Range:          &gochart.ContinuousRange{Min: style.BalanceRange[0], Max: style.BalanceRange[1]},
			ValueFormatter: currencyValueFormatter(style.CurrencyPrefix),
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    FundsTraceName,
				Style:   seriesStyle(style.FundsColor, style.BarOpacity),
				XValues: monthStarts,
				YValues: fundsValues,
			},
			gochart.TimeSeries{
				Name:    GoalTraceName,
				Style:   seriesStyle(style.GoalColor, style.BarOpacity),
				XValues: monthStarts,
				YValues: goalValues,
			},
		},
	}
	balance.Elements = []gochart.Renderable{gochart.Legend(&balance)}

	var buffer bytes.Buffer
	renderErr := balance.Render(gochart.PNG, &buffer)
	if renderErr != nil {
		e = xerr.NewError(renderErr, "render balance snapshot", fmt.Sprintf("%d rows", table.Len()))
		return png, e
	}
	return buffer.Bytes(), e
}

func renderNetIncomeSnapshot(table funds.Table, style Config) (png []byte, e *xerr.Error) {
	bars := make([]gochart.Value, 0, table.Len())
	for _, row := range table.Rows {
		bars = append(bars, gochart.Value{
			Label: string(row.Month),
			Value: row.NetIncome.InexactFloat64(),
			Style: gochart.Style{
				FillColor:   colorFrom(style.NetIncomeColor).WithAlpha(alpha(style.BarOpacity)),
				StrokeColor: colorFrom(style.NetIncomeColor),
				StrokeWidth: 1,
			},
		})
	}

	netIncome := gochart.BarChart{
		Title:        style.NetIncomeTitle,
		TitleStyle:   gochart.Style{FontColor: colorFrom(style.FontColor)},
		Width:        style.SnapshotWidth,
		Height:       style.SnapshotHeight,
		BarWidth:     snapshotBarWidth(style.SnapshotWidth, table.Len()),
		Background:   gochart.Style{FillColor: colorFrom(style.PaperBackground), Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Canvas:       gochart.Style{FillColor: colorFrom(style.PlotBackground)},
		XAxis:        axisStyle(style),
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Style:          axisStyle(style),
			Range:          &gochart.ContinuousRange{Min: style.NetIncomeRange[0], Max: style.NetIncomeRange[1]},
			ValueFormatter: currencyValueFormatter(style.CurrencyPrefix),
		},
		Bars: bars,
	}

	var buffer bytes.Buffer
	renderErr := netIncome.Render(gochart.PNG, &buffer)
	if renderErr != nil {
		e = xerr.NewError(renderErr, "render net income snapshot", fmt.Sprintf("%d rows", table.Len()))
		return png, e
	}
	return buffer.Bytes(), e
}

func floats(table funds.Table, selectValue func(row funds.Row) float64) []float64 {
	values := make([]float64, 0, table.Len())
	for _, row := range table.Rows {
		values = append(values, selectValue(row))
	}
	return values
}

// snapshotBarWidth shrinks bars so every month fits the canvas.
func snapshotBarWidth(width int, barCount int) int {
	if barCount == 0 {
		return 20
	}
	barWidth := (width - 120) / (barCount * 2)
	return int(math.Max(4, math.Min(40, float64(barWidth))))
}

func axisStyle(style Config) gochart.Style {
	return gochart.Style{
		FontColor:   colorFrom(style.FontColor),
		StrokeColor: colorFrom(style.FontColor),
	}
}

func seriesStyle(color string, opacity float64) gochart.Style {
	return gochart.Style{
		StrokeColor: colorFrom(color),
		StrokeWidth: 3,
		FillColor:   colorFrom(color).WithAlpha(alpha(opacity) / 3),
	}
}

func currencyValueFormatter(prefix string) gochart.ValueFormatter {
	return func(value interface{}) string {
		number, ok := value.(float64)
		if !ok {
			return fmt.Sprintf("%v", value)
		}
		return formatCurrency(number, prefix)
	}
}

// colorFrom accepts "#rrggbb" or a basic color name like "white".
func colorFrom(raw string) drawing.Color {
	if strings.HasPrefix(raw, "#") {
		return drawing.ColorFromHex(raw)
	}
	return drawing.ColorFromKnown(raw)
}

func alpha(opacity float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
}
