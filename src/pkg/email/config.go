package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"funding-report/src/pkg/config"
)

/*
Config for report delivery.

MailgunAPIBase switches between the US and EU mailgun regions.
*/
type Config struct {
	Provider       Provider `json:"provider,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	TimeoutSeconds int      `json:"timeout_seconds,omitempty"`
	MailgunAPIBase string   `json:"mailgun_api_base,omitempty"`
	Tag            string   `json:"tag,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Provider:       ProviderSES,
		Subject:        "Monthly funding report",
		TimeoutSeconds: 30,
		MailgunAPIBase: "https://api.mailgun.net/v3",
		Tag:            "funding-report",
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "email", "not provided", "default email config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "email", "provided", "local email config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}
