// Package server exposes the analyzer over HTTP: an upload page, single and
// batch file analysis, raw-text analysis, health and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/TFMV/codereview/analysis"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Config controls the HTTP front end.
type Config struct {
	Addr  string
	Debug bool

	// MaxUpload caps the size of one uploaded file in bytes. Zero means 10 MiB.
	MaxUpload int64
}

// Server serves the analysis API.
type Server struct {
	analyzer   *analysis.Analyzer
	logger     *slog.Logger
	router     *gin.Engine
	httpServer *http.Server
	maxUpload  int64
}

// New builds a Server around analyzer.
func New(cfg Config, analyzer *analysis.Analyzer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = 10 << 20
	}

	s := &Server{
		analyzer:  analyzer,
		logger:    logger,
		maxUpload: cfg.MaxUpload,
	}
	s.router = s.routes()
	s.router.MaxMultipartMemory = cfg.MaxUpload

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
	}()
	s.logger.Info("server listening", "addr", s.httpServer.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
