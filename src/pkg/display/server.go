// Package display serves the rendered report over HTTP on the local machine.
package display

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	echomw "funding-report/src/pkg/echo-middleware"
)

// Routes.
const (
	ReportPath    = "/"
	BalancePath   = "/charts/balance"
	NetIncomePath = "/charts/net-income"
)

/*
Pages are the already rendered HTML documents the server hands out.
*/
type Pages struct {
	Report    string
	Balance   string
	NetIncome string
}

type Server struct {
	echo    *echo.Echo
	limiter *echomw.IPRateLimiter
	config  Config
}

/*
NewServer wires the routes and middlewares. Nothing listens until Serve.
*/
func NewServer(pages Pages, displayConfig Config, middlewareConfig echomw.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(displayConfig.ReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(displayConfig.WriteTimeoutSeconds) * time.Second

	limiter := echomw.NewIPRateLimiter(middlewareConfig)
	e.Use(echomw.RouteAccessLogger)
	e.Use(limiter.Middleware)

	e.GET(ReportPath, htmlPage(pages.Report))
	e.GET(BalancePath, htmlPage(pages.Balance))
	e.GET(NetIncomePath, htmlPage(pages.NetIncome))

	return &Server{echo: e, limiter: limiter, config: displayConfig}
}

func htmlPage(htmlText string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if htmlText == "" {
			return echo.NewHTTPError(http.StatusNotFound, "page was not rendered")
		}
		c.Response().Header().Set("Cache-Control", "no-store")
		return c.HTML(http.StatusOK, htmlText)
	}
}

// Handler exposes the router, mostly for tests.
func (server *Server) Handler() http.Handler {
	return server.echo
}

/*
Serve listens on the configured address and blocks until ctx is cancelled,
then shuts the server down gracefully.
*/
func (server *Server) Serve(ctx context.Context) (e *xerr.Error) {
	address := server.config.ListenAddress()

	sweeperDone := make(chan struct{})
	defer close(sweeperDone)
	go server.limiter.RunSweeper(sweeperDone)

	startErrors := make(chan error, 1)
	go func() {
		startErrors <- server.echo.Start(address)
	}()
	tl.Log(tl.Notice, palette.BlueBold, "Serving report at %s", "http://"+address+ReportPath)

	select {
	case startErr := <-startErrors:
		if startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			e = xerr.NewErrorECOL(startErr, "start display server", "address", address)
		}
		return e
	case <-ctx.Done():
	}

	tl.Log(tl.Info, palette.Blue, "Shutting down display server at '%s'", address)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(server.config.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	shutdownErr := server.echo.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		e = xerr.NewErrorECOL(shutdownErr, "shut down display server", "address", address)
		return e
	}

	startErr := <-startErrors
	if startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
		e = xerr.NewErrorECOL(startErr, "run display server", "address", address)
		return e
	}

	tl.Log(tl.Info1, palette.Green, "Display server %s", "stopped")
	return e
}
