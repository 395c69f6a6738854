package chart

import (
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// dateLayout is how the window end is written into the figure; the time of day is kept.
const dateLayout = "2006-01-02 15:04:05"

/*
Compose stacks the balance chart (top row) and the net income chart (bottom
row) into one figure sharing the date axis, then applies the report style.

now sets the right edge of the visible window (now + WindowPaddingDays).
*/
func Compose(balance Figure, netIncome Figure, style Config, now time.Time) Figure {
	topDomain, bottomDomain := rowDomains(style.RowHeights, style.VerticalSpacing)
	windowEnd := now.AddDate(0, 0, style.WindowPaddingDays).Format(dateLayout)

	data := make([]Trace, 0, len(balance.Data)+len(netIncome.Data))
	for _, trace := range balance.Data {
		trace.XAxis = "x"
		trace.YAxis = "y"
		data = append(data, trace)
	}
	for _, trace := range netIncome.Data {
		trace.XAxis = "x2"
		trace.YAxis = "y2"
		data = append(data, trace)
	}

	topXAxis := dateAxis(style, windowEnd)
	topXAxis.Anchor = "y"
	topXAxis.Matches = "x2"
	topXAxis.ShowTickLabels = boolPtr(true)

	bottomXAxis := dateAxis(style, windowEnd)
	bottomXAxis.Anchor = "y2"

	topYAxis := currencyAxis(style, style.BalanceRange, topDomain, "x")
	topYAxis.FixedRange = boolPtr(false)
	topYAxis.MinAllowed = style.BalanceRange[0]

	bottomYAxis := currencyAxis(style, style.NetIncomeRange, bottomDomain, "x2")

	layout := Layout{
		Font:         &Font{Family: style.FontFamily, Color: style.FontColor},
		PaperBgColor: style.PaperBackground,
		PlotBgColor:  style.PlotBackground,
		XAxis:        topXAxis,
		YAxis:        topYAxis,
		XAxis2:       bottomXAxis,
		YAxis2:       bottomYAxis,
		ShowLegend:   boolPtr(true),
		Legend: &Legend{
			Orientation: "h",
			YAnchor:     "bottom",
			Y:           style.LegendY,
			XAnchor:     "right",
			X:           style.LegendX,
		},
		Margin:        &style.Margin,
		BarMode:       "overlay",
		HoverSubplots: style.HoverSubplots,
		HoverMode:     style.HoverMode,
		HoverLabel:    &HoverLabel{BgColor: style.HoverBgColor, BorderColor: style.HoverBorder},
		DragMode:      style.DragMode,
		Annotations: []Annotation{
			rowTitle(style.BalanceTitle, topDomain, style),
			rowTitle(style.NetIncomeTitle, bottomDomain, style),
		},
	}

	tl.Log(tl.Info, palette.Cyan, "Composed figure with %s traces, window %s to %s", len(data), style.WindowStart, windowEnd)

	return Figure{Data: data, Layout: layout}
}

/*
rowDomains splits the paper height between two rows the way plotly's
make_subplots does: the spacing is taken out first, the rest is shared by
the row height ratios. Rows are listed top to bottom.
*/
func rowDomains(rowHeights []float64, spacing float64) (top []float64, bottom []float64) {
	topShare, bottomShare := 0.5, 0.5
	if len(rowHeights) == 2 && rowHeights[0]+rowHeights[1] > 0 {
		total := rowHeights[0] + rowHeights[1]
		topShare = rowHeights[0] / total
		bottomShare = rowHeights[1] / total
	}

	usable := 1 - spacing
	bottomHeight := usable * bottomShare
	topHeight := usable * topShare

	bottom = []float64{0, bottomHeight}
	top = []float64{1 - topHeight, 1}
	return top, bottom
}

func dateAxis(style Config, windowEnd string) *Axis {
	return &Axis{
		Type:           "date",
		Range:          []any{style.WindowStart, windowEnd},
		MinAllowed:     style.MinAllowedDate,
		MaxAllowed:     windowEnd,
		DTick:          style.TickInterval,
		Tick0:          style.TickAnchor,
		TickFormat:     style.DateTickFormat,
		TickLabelMode:  style.TickLabelMode,
		TickLabelShift: style.TickLabelShift,
	}
}

func currencyAxis(style Config, valueRange []float64, domain []float64, anchor string) *Axis {
	return &Axis{
		Anchor:     anchor,
		Domain:     domain,
		Range:      []any{valueRange[0], valueRange[1]},
		TickPrefix: style.CurrencyPrefix,
		TickFormat: style.CurrencyFormat,
	}
}

func rowTitle(text string, domain []float64, style Config) Annotation {
	return Annotation{
		Text:      text,
		X:         0.5,
		Y:         domain[1],
		XRef:      "paper",
		YRef:      "paper",
		XAnchor:   "center",
		YAnchor:   "bottom",
		ShowArrow: false,
		Font:      &Font{Size: style.SubplotTitleSize},
	}
}
