// Package echomw holds the echo middlewares used by the report display server.
package echomw

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
RouteAccessLogger logs every request twice: once on the way in and once with
the status and latency on the way out. Chart pages are logged at a lower level
than the report itself.
*/
func RouteAccessLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		startedAt := time.Now()
		LogRouteAccess(c, tl.Info, "Accessing route", palette.Blue)

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		logLevel, colorizer := routeLogLevel(c, tl.Info1, palette.Green)
		if c.Response().Status >= 400 {
			logLevel, colorizer = tl.Warning, palette.Yellow
		}
		tl.Log(
			logLevel, colorizer,
			"%s: Method='%s', Path='%s', Status='%d', Latency='%s'",
			"Route served", c.Request().Method, c.Path(), c.Response().Status, time.Since(startedAt).Round(time.Microsecond),
		)
		return nil
	}
}

// LogRouteAccess logs a single line about the current request.
func LogRouteAccess(c echo.Context, logLevel tl.LogLevel, actionName string, colorizer palette.Colorizer) {
	logLevel, colorizer = routeLogLevel(c, logLevel, colorizer)
	tl.Log(logLevel, colorizer, "%s: Method='%s', Path='%s', ClientIP='%s'", actionName, c.Request().Method, c.Path(), c.RealIP())
}

func routeLogLevel(c echo.Context, logLevel tl.LogLevel, colorizer palette.Colorizer) (tl.LogLevel, palette.Colorizer) {
	if isChartPath(c.Path()) {
		return tl.Verbose, palette.CyanDim
	}
	return logLevel, colorizer
}

func isChartPath(path string) bool {
	return strings.HasPrefix(path, "/charts/")
}
