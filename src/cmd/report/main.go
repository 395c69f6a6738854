package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // report.timezone must load on hosts without a zoneinfo database

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"funding-report/src/pkg/chart"
	"funding-report/src/pkg/config"
	"funding-report/src/pkg/display"
	echomw "funding-report/src/pkg/echo-middleware"
	"funding-report/src/pkg/fetch"
	"funding-report/src/pkg/report"
)

/*
reportOptions are the command line overrides on top of the config file.
*/
type reportOptions struct {
	ConfigPath   string `json:"config_path"`
	OutputPath   string `json:"output_path"`
	SnapshotsDir string `json:"snapshots_dir"`
	Parallelism  int    `json:"parallelism"`
	Serve        bool   `json:"serve"`
}

/*
main is the CLI entry point.

Example:

	go run ./src/cmd/report -o ./auto_monthly_graph.html -parallel 4 -serve
*/
func main() {
	options := parseFlags()

	config.InitializeConfig(options.ConfigPath)
	initializePackageConfigs(options)

	fetcher := fetch.NewClient(fetch.Cfg)

	result, e := report.Build(context.Background(), time.Now(), report.Cfg, fetcher, chart.Cfg)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}

	snapshotPaths, e := report.Write(result, report.Cfg.OutputPath, options.SnapshotsDir, chart.Cfg)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
	for _, snapshotPath := range snapshotPaths {
		tl.Log(tl.Info1, palette.Green, "Saved snapshot to '%s'", snapshotPath)
	}

	if !options.Serve {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := display.NewServer(display.Pages{
		Report:    result.ReportHTML,
		Balance:   result.BalanceHTML,
		NetIncome: result.NetIncomeHTML,
	}, display.Cfg, echomw.Cfg)

	e = server.Serve(ctx)
	if e != nil {
		e.QuitIf(xerr.ErrorTypeError)
	}
}

/*
parseFlags parses CLI flags. Zero values leave the config file in charge.
*/
func parseFlags() reportOptions {
	configPathFlag := flag.String("config", "./cfg/config.json", "Path to your configuration file (missing file means defaults)")
	outputFlag := flag.String("o", "", "Output HTML path (default: report.output_path, auto_monthly_graph.html)")
	snapshotsFlag := flag.String("snapshots", "", "Directory for PNG snapshots of both charts (default: none)")
	parallelFlag := flag.Int("parallel", 0, "Months fetched at once (default: fetch.parallelism, 1)")
	serveFlag := flag.Bool("serve", false, "Serve the report on display.address:display.port until interrupted")

	flag.Parse()

	options := reportOptions{
		ConfigPath:   *configPathFlag,
		OutputPath:   *outputFlag,
		SnapshotsDir: *snapshotsFlag,
		Parallelism:  *parallelFlag,
		Serve:        *serveFlag,
	}

	return options
}

/*
initializePackageConfigs hands every config file section to its package, then
applies the command line overrides.
*/
func initializePackageConfigs(options reportOptions) {
	report.InitializeConfig(config.Section[report.Config](config.Cfg.Report))
	fetch.InitializeConfig(config.Section[fetch.Config](config.Cfg.Fetch))
	chart.InitializeConfig(config.Section[chart.Config](config.Cfg.Chart))
	display.InitializeConfig(config.Section[display.Config](config.Cfg.Display))
	echomw.InitializeConfig(config.Section[echomw.Config](config.Cfg.EchoMiddleware))

	if options.OutputPath != "" {
		report.Cfg.OutputPath = options.OutputPath
	}
	if options.Parallelism > 0 {
		fetch.Cfg.Parallelism = options.Parallelism
	}

	tl.LogJSON(tl.Verbose, palette.CyanDim, "report options", options)
}
