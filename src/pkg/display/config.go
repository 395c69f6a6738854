package display

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"funding-report/src/pkg/config"
)

type Config struct {
	Address                string `json:"address,omitempty"`
	Port                   int    `json:"port,omitempty"`
	ReadTimeoutSeconds     int    `json:"read_timeout_seconds,omitempty"`
	WriteTimeoutSeconds    int    `json:"write_timeout_seconds,omitempty"`
	ShutdownTimeoutSeconds int    `json:"shutdown_timeout_seconds,omitempty"`
}

func DefaultValueConfig() Config {
	return Config{
		Address:                "127.0.0.1",
		Port:                   8401,
		ReadTimeoutSeconds:     10,
		WriteTimeoutSeconds:    10,
		ShutdownTimeoutSeconds: 10,
	}
}

var Cfg Config = DefaultValueConfig()

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "display", "not provided", "default display config")
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

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "display", "provided", "local display config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

// ListenAddress is address:port.
func (displayConfig Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", displayConfig.Address, displayConfig.Port)
}
