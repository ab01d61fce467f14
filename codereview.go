// Package codereview assembles the analysis engine, its complexity scorer,
// the report cache and the report store from one configuration.
package codereview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/TFMV/codereview/analysis"
	"github.com/TFMV/codereview/cache"
	"github.com/TFMV/codereview/config"
	"github.com/TFMV/codereview/db"
	"github.com/TFMV/codereview/scorer"
	"github.com/TFMV/codereview/server"
)

// Version is reported by the CLI.
const Version = "0.3.0"

// App owns every long-lived component. Call Close when done.
type App struct {
	Config   *config.Config
	Engine   *analysis.Engine
	Analyzer *analysis.Analyzer
	Logger   *slog.Logger

	closers []io.Closer
}

// New builds an App from cfg. A nil cfg uses the defaults.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{Config: cfg, Logger: logger}

	s, err := NewScorer(cfg)
	if err != nil {
		return nil, err
	}
	app.Engine = analysis.NewEngine(s, cfg.AnalysisThresholds())

	c, err := app.openCache()
	if err != nil {
		return nil, err
	}

	store, err := app.openStore()
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Analyzer = analysis.NewAnalyzer(app.Engine, c, store, logger)
	if len(cfg.Server.Extensions) > 0 {
		app.Analyzer.Extensions = cfg.Server.Extensions
	}
	return app, nil
}

// NewScorer returns the remote scorer when a URL is configured and the fixed
// default score otherwise, bounded by the configured timeout.
func NewScorer(cfg *config.Config) (analysis.Scorer, error) {
	var s scorer.Scorer = scorer.Static(cfg.Scorer.Default)
	if cfg.Scorer.URL != "" {
		remote, err := scorer.NewHTTP(scorer.HTTPConfig{
			URL:      cfg.Scorer.URL,
			Timeout:  cfg.ScorerTimeout(),
			MaxChars: cfg.Scorer.MaxChars,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create scorer: %w", err)
		}
		s = remote
	}
	return scorer.WithTimeout(s, cfg.ScorerTimeout()), nil
}

func (a *App) openCache() (cache.Cache, error) {
	cc := a.Config.Cache
	if !cc.Enabled {
		return nil, nil
	}
	if !cc.Persistent {
		return cache.NewLRU(cc.Size), nil
	}

	b, err := cache.OpenBadger(cache.BadgerConfig{
		Dir:    cc.Dir,
		TTL:    a.Config.CacheTTL(),
		Logger: a.Logger.With("component", "badger"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	a.closers = append(a.closers, b)
	return b, nil
}

func (a *App) openStore() (db.DB, error) {
	sc := a.Config.Store
	if !sc.Enabled {
		return nil, nil
	}

	store, err := db.NewSurrealDB(db.Config{
		URL:       sc.URL,
		Namespace: sc.Namespace,
		Database:  sc.Database,
		Username:  sc.Username,
		Password:  sc.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// Initialize prepares the report store, if any.
func (a *App) Initialize(ctx context.Context) error {
	return a.Analyzer.Initialize(ctx)
}

// Server returns an HTTP server for the App's analyzer.
func (a *App) Server(addr string, debug bool) *server.Server {
	return server.New(server.Config{
		Addr:      addr,
		Debug:     debug,
		MaxUpload: a.Config.Server.MaxUpload,
	}, a.Analyzer, a.Logger)
}

// Close releases the cache and store.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
