package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/codereview"
	"github.com/TFMV/codereview/analysis"
	"github.com/TFMV/codereview/config"
	"github.com/TFMV/codereview/logging"
	"github.com/TFMV/codereview/output"
	"github.com/docopt/docopt-go"
)

const usage = `codereview - heuristic review of Python sources.

Usage:
  codereview analyze <path>... [--config=<file>] [--format=<fmt>] [--out=<file>] [--store] [--no-color] [--log-level=<level>]
  codereview serve [--config=<file>] [--addr=<addr>] [--debug] [--log-level=<level>]
  codereview -h | --help
  codereview --version

Options:
  -h --help            Show this screen.
  --version            Show version.
  --config=<file>      Config file (toml, yaml or json). Searched for in . and .codereview/ when omitted.
  --format=<fmt>       Output format: text, json or markdown [default: text].
  --out=<file>         Write output to a file instead of stdout.
  --store              Store reports in SurrealDB.
  --no-color           Disable colored output.
  --addr=<addr>        Listen address, overriding server.addr.
  --debug              Run the HTTP server in debug mode.
  --log-level=<level>  Override log.level.
`

// errFailedFiles signals that analysis completed but some files failed.
var errFailedFiles = errors.New("some files could not be analyzed")

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	opts, err := docopt.ParseArgs(usage, argv, codereview.Version)
	if err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if level, _ := opts.String("--log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON})

	if serve, _ := opts.Bool("serve"); serve {
		return runServe(opts, cfg, logger)
	}
	return runAnalyze(opts, cfg, logger)
}

func loadConfig(opts docopt.Opts) (*config.Config, error) {
	path, _ := opts.String("--config")
	if path == "" {
		return config.LoadOrDefault(), nil
	}
	return config.Load(path)
}

func runAnalyze(opts docopt.Opts, cfg *config.Config, logger *slog.Logger) error {
	if store, _ := opts.Bool("--store"); store {
		cfg.Store.Enabled = true
	}

	app, err := codereview.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	if err := app.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	paths, _ := opts["<path>"].([]string)
	results, err := analyzePaths(ctx, app.Analyzer, paths)
	if err != nil {
		return err
	}

	if err := app.Analyzer.StoreResults(ctx, results); err != nil {
		logger.Warn("failed to store analysis results", "error", err)
	}

	format, _ := opts.String("--format")
	out, _ := opts.String("--out")
	noColor, _ := opts.Bool("--no-color")

	formatter, err := output.NewFormatter(output.ParseFormat(format), out, !noColor)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Write(results); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	for _, res := range results {
		if res.Err != nil {
			return errFailedFiles
		}
	}
	return nil
}

// analyzePaths walks directories and analyzes plain files as given.
func analyzePaths(ctx context.Context, analyzer *analysis.Analyzer, paths []string) ([]analysis.FileResult, error) {
	var results []analysis.FileResult
	var plain []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !info.IsDir() {
			plain = append(plain, path)
			continue
		}
		dirResults, err := analyzer.AnalyzeDirectory(ctx, path)
		if err != nil {
			return nil, err
		}
		results = append(results, dirResults...)
	}
	return append(analyzer.AnalyzePaths(ctx, plain), results...), nil
}

func runServe(opts docopt.Opts, cfg *config.Config, logger *slog.Logger) error {
	if addr, _ := opts.String("--addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	debug, _ := opts.Bool("--debug")
	debug = debug || cfg.Server.Debug

	app, err := codereview.New(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	return app.Server(cfg.Server.Addr, debug).Run(ctx)
}
