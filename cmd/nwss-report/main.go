// Command nwss-report reads a CDC NWSS wastewater metric export and reports,
// per monitoring site, whether any sample ending inside a date window carried
// valid trend data.
//
// Usage:
//
//	nwss-report [flags] <nwss.csv|nwss.xlsx> <YYYY-MM-DD:YYYY-MM-DD>
//	nwss-report [flags] -last-days 14 <nwss.csv|nwss.xlsx>
//
// The window's begin date is inclusive and its end date exclusive. Flags may
// appear before or after the positional arguments.
//
// Exit codes: 0 on success, 1 when the run fails or no row matched,
// 2 on invalid arguments.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/nwss-report/internal/adapter/file"
	"github.com/couchcryptid/nwss-report/internal/config"
	"github.com/couchcryptid/nwss-report/internal/domain"
	"github.com/couchcryptid/nwss-report/internal/observability"
	"github.com/couchcryptid/nwss-report/internal/pipeline"
	"github.com/couchcryptid/nwss-report/internal/report"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "nwss-report: %v\n", err)
		return exitFail
	}
	logger := observability.NewLogger(cfg, stderr)

	var profile *config.Profile
	if cfg.ProfilePath != "" {
		profile, err = config.LoadProfile(cfg.ProfilePath)
		if err != nil {
			logger.Error("failed to load profile", "path", cfg.ProfilePath, "error", err)
			return exitFail
		}
	}

	opts, err := parseArgs(args, config.NewOptions(profile), stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "nwss-report: %v\n", err)
		return exitUsage
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "nwss-report: %v\n", err)
		return exitUsage
	}
	window, err := opts.DateWindow()
	if err != nil {
		fmt.Fprintf(stderr, "nwss-report: %v\n", err)
		return exitUsage
	}

	metrics := observability.NewMetrics()
	if cfg.MetricsTextfile != "" {
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
				logger.Error("failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
				if code == exitOK {
					code = exitFail
				}
			}
		}()
	}

	return execute(ctx, opts, window, logger, metrics, stdout)
}

func execute(ctx context.Context, opts config.Options, window domain.DateWindow, logger *slog.Logger, metrics *observability.Metrics, stdout io.Writer) int {
	reader, err := file.Open(opts.InputPath)
	if err != nil {
		logger.Error("failed to open input", "path", opts.InputPath, "error", err)
		return exitFail
	}
	defer reader.Close()

	p := pipeline.New(logger, metrics)
	res, err := p.Run(ctx, reader, pipeline.Params{Window: window, Filters: opts.Filters()})
	if errors.Is(err, domain.ErrNoMatchedRows) {
		if err := report.WriteNoMatch(stdout, opts.InputPath, window); err != nil {
			logger.Error("failed to write report", "error", err)
		}
		return exitFail
	}
	if err != nil {
		logger.Error("report failed", "path", opts.InputPath, "error", err)
		return exitFail
	}

	rep, err := report.Build(res, report.Options{
		Input:      opts.InputPath,
		TotalsOnly: opts.TotalsOnly,
		Verbose:    opts.Verbose,
	})
	if err != nil {
		logger.Error("failed to build report", "error", err)
		return exitFail
	}
	if err := report.Write(stdout, opts.Format, rep); err != nil {
		logger.Error("failed to write report", "error", err)
		return exitFail
	}
	return exitOK
}
