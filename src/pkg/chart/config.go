package chart

import (
	"fmt"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"funding-report/src/pkg/config"
)

type Margin struct {
	Left   int `json:"l"`
	Right  int `json:"r"`
	Top    int `json:"t"`
	Bottom int `json:"b"`
}

/*
Config is the visual identity of the report.

Every literal of the figure lives here; the builders never hardcode a color,
range or format. Ranges are [min, max].
*/
type Config struct {
	FontFamily      string `json:"font_family,omitempty"`
	FontColor       string `json:"font_color,omitempty"`
	PaperBackground string `json:"paper_background,omitempty"`
	PlotBackground  string `json:"plot_background,omitempty"`

	FundsColor     string  `json:"funds_color,omitempty"`
	GoalColor      string  `json:"goal_color,omitempty"`
	NetIncomeColor string  `json:"net_income_color,omitempty"`
	BarOpacity     float64 `json:"bar_opacity,omitempty"`

	RowHeights       []float64 `json:"row_heights,omitempty"`
	VerticalSpacing  float64   `json:"vertical_spacing,omitempty"`
	BalanceTitle     string    `json:"balance_title,omitempty"`
	NetIncomeTitle   string    `json:"net_income_title,omitempty"`
	SubplotTitleSize int       `json:"subplot_title_size,omitempty"`

	BalanceRange   []float64 `json:"balance_range,omitempty"`
	NetIncomeRange []float64 `json:"net_income_range,omitempty"`
	CurrencyPrefix string    `json:"currency_prefix,omitempty"`
	CurrencyFormat string    `json:"currency_format,omitempty"`

	WindowStart       string `json:"window_start,omitempty"`
	WindowPaddingDays int    `json:"window_padding_days,omitempty"` // window ends this many days after now
	MinAllowedDate    string `json:"min_allowed_date,omitempty"`
	TickAnchor        string `json:"tick_anchor,omitempty"`
	TickInterval      string `json:"tick_interval,omitempty"`
	DateTickFormat    string `json:"date_tick_format,omitempty"`
	TickLabelMode     string `json:"tick_label_mode,omitempty"`
	TickLabelShift    int    `json:"tick_label_shift,omitempty"`

	LegendX       float64 `json:"legend_x,omitempty"`
	LegendY       float64 `json:"legend_y,omitempty"`
	Margin        Margin  `json:"margin,omitempty"`
	HoverMode     string  `json:"hover_mode,omitempty"`
	HoverSubplots string  `json:"hover_subplots,omitempty"`
	HoverBgColor  string  `json:"hover_bg_color,omitempty"`
	HoverBorder   string  `json:"hover_border,omitempty"`
	HoverTemplate string  `json:"hover_template,omitempty"` // "{name}" is replaced by the trace name
	DragMode      string  `json:"drag_mode,omitempty"`

	SnapshotWidth  int `json:"snapshot_width,omitempty"`
	SnapshotHeight int `json:"snapshot_height,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		FontFamily:      "Trebuchet MS",
		FontColor:       "white",
		PaperBackground: "#27182B",
		PlotBackground:  "#392340",

		FundsColor:     "#00cc96",
		GoalColor:      "#ef553b",
		NetIncomeColor: "#636efa",
		BarOpacity:     0.75,

		RowHeights:       []float64{0.6, 0.4},
		VerticalSpacing:  0.1,
		BalanceTitle:     "Funds Raised vs. Goal",
		NetIncomeTitle:   "Net Income",
		SubplotTitleSize: 16,

		BalanceRange:   []float64{0, 7600},
		NetIncomeRange: []float64{-1250, 1100},
		CurrencyPrefix: "$",
		CurrencyFormat: ",.0f",

		WindowStart:       "2024-01-15",
		WindowPaddingDays: 5,
		MinAllowedDate:    "2022-05-01",
		TickAnchor:        "2025-01-01",
		TickInterval:      "M1",
		DateTickFormat:    "%b\n%Y",
		TickLabelMode:     "period",
		TickLabelShift:    20,

		LegendX:       0.13,
		LegendY:       1.02,
		Margin:        Margin{Left: 20, Right: 20, Top: 5, Bottom: 20},
		HoverMode:     "x unified",
		HoverSubplots: "axis",
		HoverBgColor:  "#472C59",
		HoverBorder:   "#000000",
		HoverTemplate: "Net Income: $%{y:,.0f}",
		DragMode:      "pan",

		SnapshotWidth:  1200,
		SnapshotHeight: 480,
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "chart", "not provided", "default chart style")
		return
	}

	defaultConfig := DefaultValueConfig()

	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "chart", "provided", "local chart style")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

/*
Validate catches style values that would produce a broken figure.
*/
func (style Config) Validate() error {
	problems := make([]string, 0)

	ranges := []struct {
		name       string
		valueRange []float64
	}{
		{"balance_range", style.BalanceRange},
		{"net_income_range", style.NetIncomeRange},
	}
	for _, axisRange := range ranges {
		if len(axisRange.valueRange) != 2 || axisRange.valueRange[0] >= axisRange.valueRange[1] {
			problems = append(problems, fmt.Sprintf("%s must be [min, max], got %v", axisRange.name, axisRange.valueRange))
		}
	}
	if len(style.RowHeights) != 2 {
		problems = append(problems, fmt.Sprintf("row_heights must have 2 values, got %v", style.RowHeights))
	}
	if style.VerticalSpacing < 0 || style.VerticalSpacing >= 1 {
		problems = append(problems, fmt.Sprintf("vertical_spacing must be in [0, 1), got %v", style.VerticalSpacing))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid chart config: %s", strings.Join(problems, "; "))
	}
	return nil
}
