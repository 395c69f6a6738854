package fetch

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"funding-report/src/pkg/config"
)

// DefaultBaseURL is where the monthly funds-YYYY-MM.csv files live.
const DefaultBaseURL = "https://raw.githubusercontent.com/anacedragon/pf-funding-data/refs/heads/main"

type Config struct {
	BaseURL           string  `json:"base_url,omitempty"`
	TimeoutSeconds    int     `json:"timeout_seconds,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
	Burst             int     `json:"burst,omitempty"`
	Parallelism       int     `json:"parallelism,omitempty"` // 1 keeps fetches strictly sequential
	UserAgent         string  `json:"user_agent,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		TimeoutSeconds:    30,
		RequestsPerSecond: 5,
		Burst:             1,
		Parallelism:       1,
		UserAgent:         "funding-report/1.0",
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
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "fetch", "not provided", "default fetch config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "fetch", "provided", "local fetch config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
