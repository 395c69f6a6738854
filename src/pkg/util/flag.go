package util

import (
	"os"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

type requiredFlag struct {
	value   *string
	cliName string
}

// RequiredFlags in registration order, so missing flags are reported in a stable order.
var RequiredFlags = []requiredFlag{}

// RequiredFlag(senderPtr, "sender"); "-sender" and "--sender" work too.
func RequiredFlag(flagPointer *string, cliName string) {
	RequiredFlags = append(RequiredFlags, requiredFlag{value: flagPointer, cliName: normalizeFlagName(cliName)})
}

func normalizeFlagName(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "--") {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-" + s
	}
	return "--" + s
}

// MissingFlags returns the names of required flags that are unset or blank.
func MissingFlags() (missing []string) {
	for _, flag := range RequiredFlags {
		if flag.value == nil || strings.TrimSpace(*flag.value) == "" {
			missing = append(missing, flag.cliName)
		}
	}
	return missing
}

// EnsureFlags logs every missing required flag and exits(1) if any were missing.
func EnsureFlags() {
	missing := MissingFlags()
	for _, cliName := range missing {
		tl.Log(tl.Warning, palette.YellowBold, "%s parameter is %s", cliName, "required")
	}
	if len(missing) > 0 {
		os.Exit(1)
	}
}
