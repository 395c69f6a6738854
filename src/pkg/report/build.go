// Package report runs the whole pipeline: months, fetch, month-end aggregation,
// charts, layout and HTML.
package report

import (
	"context"
	"fmt"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/chart"
	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
	"funding-report/src/pkg/render"
)

/*
Fetcher downloads the monthly tables, in the order of ids.
*/
type Fetcher interface {
	FetchAll(ctx context.Context, ids []months.ID) (tables []funds.MonthTable, e *xerr.Error)
}

/*
Result holds every stage's output. Nothing is written to disk yet.
*/
type Result struct {
	GeneratedAt   time.Time
	Months        []months.ID
	Table         funds.Table
	Balance       chart.Figure
	NetIncome     chart.Figure
	Figure        chart.Figure
	ReportHTML    string
	BalanceHTML   string
	NetIncomeHTML string
}

/*
Build runs the pipeline for the clock value now.

Any failure aborts the run: no month is skipped and no partial result is
returned.
*/
func Build(ctx context.Context, now time.Time, reportConfig Config, fetcher Fetcher, style chart.Config) (result Result, e *xerr.Error) {
	location, start, e := startOfReport(reportConfig)
	if e != nil {
		return result, e
	}
	localNow := now.In(location)
	result.GeneratedAt = localNow

	styleErr := style.Validate()
	if styleErr != nil {
		e = xerr.NewError(styleErr, "validate chart style", nil)
		return result, e
	}

	// Months.
	result.Months = months.Enumerate(start, localNow)
	if len(result.Months) == 0 {
		e = xerr.NewErrorECOL(
			fmt.Errorf("%w: no completed months", funds.ErrDataIntegrity),
			"enumerate report months", "range", fmt.Sprintf("%s to %s", reportConfig.StartDate, localNow.Format(StartDateLayout)),
		)
		return result, e
	}
	validateErr := months.Validate(result.Months)
	if validateErr != nil {
		e = xerr.NewError(fmt.Errorf("%w: %w", funds.ErrDataIntegrity, validateErr), "validate report months", result.Months)
		return result, e
	}
	tl.Log(tl.Notice, palette.BlueBold, "Building funding report for %s months, %s to %s", len(result.Months), result.Months[0], result.Months[len(result.Months)-1])

	// Fetch.
	tables, e := fetcher.FetchAll(ctx, result.Months)
	if e != nil {
		return result, e
	}

	// Month-end rows.
	result.Table, e = funds.Aggregate(tables, reportConfig.ExclusionRules())
	if e != nil {
		return result, e
	}

	// Charts.
	result.Balance, e = chart.BalanceChart(result.Table, style)
	if e != nil {
		return result, e
	}
	result.NetIncome, e = chart.NetIncomeChart(result.Table, style)
	if e != nil {
		return result, e
	}
	result.Figure = chart.Compose(result.Balance, result.NetIncome, style, localNow)

	// Pages.
	reportOptions := render.ReportOptions(style.PaperBackground)
	reportOptions.Title = reportConfig.Title
	result.ReportHTML, e = render.HTML(result.Figure, reportOptions)
	if e != nil {
		return result, e
	}
	result.BalanceHTML, e = render.HTML(result.Balance, render.ChartOptions(style.BalanceTitle))
	if e != nil {
		return result, e
	}
	result.NetIncomeHTML, e = render.HTML(result.NetIncome, render.ChartOptions(style.NetIncomeTitle))
	if e != nil {
		return result, e
	}

	tl.Log(tl.Info1, palette.Green, "Built report with %s month-end rows", result.Table.Len())
	return result, e
}

func startOfReport(reportConfig Config) (location *time.Location, start time.Time, e *xerr.Error) {
	location, locationErr := time.LoadLocation(reportConfig.Timezone)
	if locationErr != nil {
		e = xerr.NewErrorECOL(locationErr, "load report timezone", "timezone", reportConfig.Timezone)
		return location, start, e
	}

	start, parseErr := time.ParseInLocation(StartDateLayout, reportConfig.StartDate, location)
	if parseErr != nil {
		e = xerr.NewErrorECOL(parseErr, "parse report start date", "start_date", reportConfig.StartDate)
		return location, start, e
	}

	return location, start, e
}

/*
Write saves the report page to outputPath, replacing any previous file, and
the PNG snapshots to snapshotsDir when it's not empty.
*/
func Write(result Result, outputPath string, snapshotsDir string, style chart.Config) (snapshotPaths []string, e *xerr.Error) {
	e = render.WriteHTML(outputPath, result.ReportHTML)
	if e != nil {
		return snapshotPaths, e
	}

	if snapshotsDir == "" {
		return snapshotPaths, e
	}

	snapshotPaths, e = chart.RenderSnapshots(result.Table, style, snapshotsDir)
	return snapshotPaths, e
}
