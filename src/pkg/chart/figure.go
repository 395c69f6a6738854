package chart

/*
Plotly figure types.

Only the attributes this report sets are modelled; everything marshals
straight into the JSON plotly.js expects for Plotly.newPlot.
*/

// Figure is a plotly figure: traces plus layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Marker struct {
	Color string `json:"color,omitempty"`
}

// Trace is a single bar series.
type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	XAxis         string    `json:"xaxis,omitempty"`
	YAxis         string    `json:"yaxis,omitempty"`
	Marker        Marker    `json:"marker"`
	Opacity       float64   `json:"opacity,omitempty"`
	LegendGroup   string    `json:"legendgroup,omitempty"`
	OffsetGroup   string    `json:"offsetgroup,omitempty"`
	ShowLegend    *bool     `json:"showlegend,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
}

type Font struct {
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
}

type Title struct {
	Text string `json:"text,omitempty"`
}

// Axis covers both x (date) and y (currency) axes.
type Axis struct {
	Title          *Title    `json:"title,omitempty"`
	Type           string    `json:"type,omitempty"`
	Anchor         string    `json:"anchor,omitempty"`
	Domain         []float64 `json:"domain,omitempty"`
	Matches        string    `json:"matches,omitempty"`
	Range          []any     `json:"range,omitempty"`
	MinAllowed     any       `json:"minallowed,omitempty"`
	MaxAllowed     any       `json:"maxallowed,omitempty"`
	FixedRange     *bool     `json:"fixedrange,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
	TickPrefix     string    `json:"tickprefix,omitempty"`
	TickFormat     string    `json:"tickformat,omitempty"`
	DTick          string    `json:"dtick,omitempty"`
	Tick0          string    `json:"tick0,omitempty"`
	TickLabelMode  string    `json:"ticklabelmode,omitempty"`
	TickLabelShift int       `json:"ticklabelshift,omitempty"`
}

type Legend struct {
	Title       *Title  `json:"title,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	XAnchor     string  `json:"xanchor,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

type HoverLabel struct {
	BgColor     string `json:"bgcolor,omitempty"`
	BorderColor string `json:"bordercolor,omitempty"`
}

// Annotation is used for the subplot row titles.
type Annotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	XAnchor   string  `json:"xanchor"`
	YAnchor   string  `json:"yanchor"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
}

type Layout struct {
	Font          *Font        `json:"font,omitempty"`
	PaperBgColor  string       `json:"paper_bgcolor,omitempty"`
	PlotBgColor   string       `json:"plot_bgcolor,omitempty"`
	XAxis         *Axis        `json:"xaxis,omitempty"`
	YAxis         *Axis        `json:"yaxis,omitempty"`
	XAxis2        *Axis        `json:"xaxis2,omitempty"`
	YAxis2        *Axis        `json:"yaxis2,omitempty"`
	ShowLegend    *bool        `json:"showlegend,omitempty"`
	Legend        *Legend      `json:"legend,omitempty"`
	Margin        *Margin      `json:"margin,omitempty"`
	BarMode       string       `json:"barmode,omitempty"`
	HoverSubplots string       `json:"hoversubplots,omitempty"`
	HoverMode     string       `json:"hovermode,omitempty"`
	HoverLabel    *HoverLabel  `json:"hoverlabel,omitempty"`
	DragMode      string       `json:"dragmode,omitempty"`
	Annotations   []Annotation `json:"annotations,omitempty"`
}

func boolPtr(value bool) *bool {
	return &value
}
