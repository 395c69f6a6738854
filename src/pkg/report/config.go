package report

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"funding-report/src/pkg/config"
	"funding-report/src/pkg/funds"
	"funding-report/src/pkg/months"
)

// StartDateLayout is the layout of Config.StartDate.
const StartDateLayout = "2006-01-02"

/*
Config for the report as a whole.

StartDate is the first month with data. Timezone decides which month "now"
falls into. An empty ExcludedTimestamps list falls back to the default rule;
ExcludedMonths is empty unless set.
*/
type Config struct {
	StartDate          string      `json:"start_date,omitempty"`
	Timezone           string      `json:"timezone,omitempty"`
	OutputPath         string      `json:"output_path,omitempty"`
	Title              string      `json:"title,omitempty"`
	ExcludedTimestamps []string    `json:"excluded_timestamps,omitempty"`
	ExcludedMonths     []months.ID `json:"excluded_months,omitempty"`
}

func DefaultValueConfig() Config {
	defaultRules := funds.DefaultExclusionRules()
	return Config{
		StartDate:          "2022-05-01",
		Timezone:           "America/New_York",
		OutputPath:         "auto_monthly_graph.html",
		Title:              "Monthly Funding",
		ExcludedTimestamps: defaultRules.Timestamps,
		ExcludedMonths:     defaultRules.Months,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "report", "not provided", "default report config")
		return
	}

	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, DefaultValueConfig(), func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "report", "provided", "local report config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// ExclusionRules turns the excluded_* fields into aggregation rules.
func (reportConfig Config) ExclusionRules() funds.ExclusionRules {
	return funds.ExclusionRules{
		Timestamps: reportConfig.ExcludedTimestamps,
		Months:     reportConfig.ExcludedMonths,
	}
}
