package chart

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/funds"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no rows to chart")

// HoverNamePlaceholder in Config.HoverTemplate is replaced by the trace name.
const HoverNamePlaceholder = "{name}"

// Trace names double as legend entries and hover labels.
const (
	FundsTraceName     = "Funds"
	GoalTraceName      = "Goal"
	NetIncomeTraceName = "Net Income"
)

/*
BalanceChart builds the funds-vs-goal chart: two overlaid bar series against Date.
*/
func BalanceChart(table funds.Table, style Config) (figure Figure, e *xerr.Error) {
	e = requireRows(table, "build balance chart")
	if e != nil {
		return figure, e
	}

	dates := table.Dates()
	figure = Figure{
		Data: []Trace{
			barTrace(FundsTraceName, dates, table.FundsColumn(), style.FundsColor, true, style),
			barTrace(GoalTraceName, dates, table.GoalColumn(), style.GoalColor, true, style),
		},
		Layout: standaloneLayout("value", true),
	}

	tl.Log(tl.Detailed, palette.Cyan, "Built %s chart with %s bars per series", "balance", len(dates))
	return figure, e
}

/*
NetIncomeChart builds the single-series net income chart.
*/
func NetIncomeChart(table funds.Table, style Config) (figure Figure, e *xerr.Error) {
	e = requireRows(table, "build net income chart")
	if e != nil {
		return figure, e
	}

	dates := table.Dates()
	figure = Figure{
		Data: []Trace{
			barTrace(NetIncomeTraceName, dates, table.NetIncomeColumn(), style.NetIncomeColor, false, style),
		},
		Layout: standaloneLayout(NetIncomeTraceName, false),
	}

	tl.Log(tl.Detailed, palette.Cyan, "Built %s chart with %s bars", "net income", len(dates))
	return figure, e
}

func requireRows(table funds.Table, action string) (e *xerr.Error) {
	if table.Len() == 0 {
		e = xerr.NewError(ErrNoData, action, "aggregated table is empty")
	}
	return e
}

/*
barTrace converts one column into a bar trace. Values are carried over as is;
the figure never rounds, only the axis and hover formats do.

Only the balance series are legend entries; net income is a single unnamed
series and stays out of the legend.
*/
func barTrace(name string, dates []string, values []decimal.Decimal, color string, showLegend bool, style Config) Trace {
	yValues := make([]float64, 0, len(values))
	for _, value := range values {
		yValues = append(yValues, value.InexactFloat64())
	}

	return Trace{
		Type:          "bar",
		Name:          name,
		X:             dates,
		Y:             yValues,
		Marker:        Marker{Color: color},
		Opacity:       style.BarOpacity,
		LegendGroup:   name,
		OffsetGroup:   name,
		ShowLegend:    boolPtr(showLegend),
		HoverTemplate: hoverTemplate(name, style),
	}
}

// hoverTemplate fills the {name} placeholder of style.HoverTemplate with the trace name.
func hoverTemplate(name string, style Config) string {
	return strings.ReplaceAll(style.HoverTemplate, HoverNamePlaceholder, name)
}

/*
standaloneLayout is the plain layout of an intermediate chart shown on its own.
*/
func standaloneLayout(yTitle string, withLegendTitle bool) Layout {
	layout := Layout{
		XAxis:   &Axis{Title: &Title{Text: "Date"}},
		YAxis:   &Axis{Title: &Title{Text: yTitle}},
		BarMode: "overlay",
	}
	if withLegendTitle {
		layout.Legend = &Legend{Title: &Title{Text: "variable"}}
	}
	return layout
}
