package config

import (
	"encoding/json"
	"errors"
	"os"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

/*
Config mirrors the JSON configuration file.

Every package owns its own section. Sections are kept raw here and decoded by
the entrypoint with Section, so this package never imports the packages it
configures.
*/
type Config struct {
	Logger         *tl.Config      `json:"logger,omitempty"`
	Report         json.RawMessage `json:"report,omitempty"`
	Fetch          json.RawMessage `json:"fetch,omitempty"`
	Chart          json.RawMessage `json:"chart,omitempty"`
	Display        json.RawMessage `json:"display,omitempty"`
	EchoMiddleware json.RawMessage `json:"echo_middleware,omitempty"`
	Email          json.RawMessage `json:"email,omitempty"`
}

var Cfg Config // file configuration, populated by InitializeConfig

/*
InitializeConfig reads the configuration file and initializes the logger.

A missing file is not an error: every package falls back to its defaults.
A file that exists but can't be parsed stops the program.
*/
func InitializeConfig(configPath string) {
	fileConfig, e := LoadFile(configPath)
	if e != nil {
		if errors.Is(e.Err, os.ErrNotExist) {
			tl.Log(tl.Notice, palette.Purple, "Config file '%s' %s, using %s", configPath, "not found", "default values")
			tl.InitializeConfig(nil)
			return
		}
		e.QuitIf(xerr.ErrorTypeError)
	}

	Cfg = fileConfig
	tl.InitializeConfig(Cfg.Logger)
	tl.Log(tl.Info, palette.Green, "Loaded config file '%s'", configPath)
}

/*
LoadFile reads and unmarshals a configuration file without touching global state.
*/
func LoadFile(configPath string) (fileConfig Config, e *xerr.Error) {
	fileBytes, readErr := os.ReadFile(configPath)
	if readErr != nil {
		e = xerr.NewErrorECOL(readErr, "read config file", "path", configPath)
		return fileConfig, e
	}

	unmarshalErr := json.Unmarshal(fileBytes, &fileConfig)
	if unmarshalErr != nil {
		e = xerr.NewErrorECOL(unmarshalErr, "unmarshal config file", "path", configPath)
		return fileConfig, e
	}

	return fileConfig, e
}

/*
Section decodes one raw config section into a package Config.

Returns nil when the section is absent, which tells the package's
InitializeConfig to keep its default values.
*/
func Section[T any](raw json.RawMessage) (section *T) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	section = new(T)
	unmarshalErr := json.Unmarshal(raw, section)
	xerr.QuitIfError(unmarshalErr, "unmarshal config section")

	return section
}

/*
CheckIfEnvVarsPresent loads .env (if there is one) and exits if any of the
required environment variables is missing or empty.
*/
func CheckIfEnvVarsPresent(names ...string) {
	loadErr := godotenv.Load()
	if loadErr != nil {
		tl.Log(tl.Verbose, palette.PurpleDim, "No %s file loaded: %s", ".env", loadErr)
	}

	missing := false
	for _, name := range names {
		if strings.TrimSpace(os.Getenv(name)) == "" {
			tl.Log(tl.Warning, palette.YellowBold, "%s env var is %s", name, "required")
			missing = true
		}
	}
	if missing {
		os.Exit(1)
	}
}

/*
GetPackageName returns the name of the package that called it.

Used in config log lines, e.g. "fetch" for funding-report/src/pkg/fetch.
*/
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	function := runtime.FuncForPC(pc)
	if function == nil {
		return "unknown"
	}

	fullName := function.Name()
	lastSlash := strings.LastIndex(fullName, "/")
	if lastSlash >= 0 {
		fullName = fullName[lastSlash+1:]
	}

	firstDot := strings.Index(fullName, ".")
	if firstDot >= 0 {
		fullName = fullName[:firstDot]
	}

	return fullName
}
