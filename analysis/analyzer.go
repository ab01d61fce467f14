package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/TFMV/codereview/cache"
	"github.com/TFMV/codereview/db"
	"github.com/TFMV/codereview/types"
	"golang.org/x/sync/errgroup"
)

// DefaultExtensions are the file extensions treated as analyzable source.
var DefaultExtensions = []string{".py"}

// SourceFile is a named blob of source handed to the Analyzer.
type SourceFile struct {
	Name    string
	Content []byte
}

// FileResult is the outcome of analyzing one SourceFile. Exactly one of
// Report and Err is set.
type FileResult struct {
	Name   string
	Hash   string
	Size   int
	Report *types.AnalysisReport
	Err    error
}

// Analyzer provides a high-level interface for code analysis, caching and storage
type Analyzer struct {
	Engine     *Engine
	Cache      cache.Cache
	DB         db.DB
	Logger     *slog.Logger
	Extensions []string
	Workers    int
}

// NewAnalyzer creates an Analyzer around engine. c and store may be nil.
func NewAnalyzer(engine *Engine, c cache.Cache, store db.DB, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Analyzer{
		Engine:     engine,
		Cache:      c,
		DB:         store,
		Logger:     logger,
		Extensions: DefaultExtensions,
		Workers:    runtime.NumCPU(),
	}
}

// Initialize sets up the report store when one is configured
func (a *Analyzer) Initialize(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Initialize(ctx)
}

// IsSourceFile reports whether name carries one of the analyzable extensions
func (a *Analyzer) IsSourceFile(name string) bool {
	exts := a.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// AnalyzeSource analyzes code, consulting and populating the cache if present
func (a *Analyzer) AnalyzeSource(ctx context.Context, code string) (*types.AnalysisReport, error) {
	return a.analyze(ctx, code)
}

// CacheKey is the cache key for code under the engine's current thresholds
// and scorer, so changing either never serves an older report.
func (a *Analyzer) CacheKey(code string) string {
	return cache.Key(a.Engine.Fingerprint() + "\x00" + code)
}

// analyze runs the engine through the cache. Cached reports are cloned on
// the way in and out, so callers own what they get.
func (a *Analyzer) analyze(ctx context.Context, code string) (*types.AnalysisReport, error) {
	var key string
	if a.Cache != nil {
		key = a.CacheKey(code)
		if cached, ok := a.Cache.Get(key); ok {
			a.logger().Debug("cache hit", "key", key)
			report := cached.Clone()
			return &report, nil
		}
	}

	start := time.Now()
	report, err := a.Engine.Analyze(ctx, code)
	if err != nil {
		return nil, err
	}
	a.logger().Debug("analysis complete",
		"lines", report.LineCount,
		"issues", len(report.Issues),
		"duration", time.Since(start))

	if a.Cache != nil {
		if err := a.Cache.Put(key, report.Clone()); err != nil {
			a.logger().Warn("cache write failed", "key", key, "error", err)
		}
	}
	return report, nil
}

// AnalyzeFiles analyzes files concurrently. Results keep the input order and
// one file's failure never affects its siblings.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, files []SourceFile) []FileResult {
	results := make([]FileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if a.Workers > 0 {
		g.SetLimit(a.Workers)
	}

	for i, f := range files {
		g.Go(func() error {
			res := FileResult{
				Name: f.Name,
				Size: len(f.Content),
			}
			if err := ctx.Err(); err != nil {
				res.Err = err
				results[i] = res
				return nil
			}

			code := string(f.Content)
			res.Hash = cache.Key(code)
			res.Report, res.Err = a.analyze(ctx, code)
			if res.Err != nil {
				a.logger().Warn("analysis failed", "file", f.Name, "error", res.Err)
			}
			results[i] = res
			return nil
		})
	}

	// Workers report failures through their FileResult, never through the group.
	_ = g.Wait()

	return results
}

// AnalyzeDirectory scans a directory tree for source files and analyzes them
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) ([]FileResult, error) {
	var filePaths []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk directory: %w", err)
		}
		if !d.IsDir() && a.IsSourceFile(path) {
			filePaths = append(filePaths, path)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to scan directory %s: %w", dir, err)
	}

	return a.AnalyzePaths(ctx, filePaths), nil
}

// AnalyzePaths reads and analyzes the given files. Unreadable files produce
// an errored FileResult.
func (a *Analyzer) AnalyzePaths(ctx context.Context, paths []string) []FileResult {
	files := make([]SourceFile, 0, len(paths))
	var unreadable []FileResult
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			unreadable = append(unreadable, FileResult{
				Name: path,
				Err:  fmt.Errorf("error reading %s: %w", path, err),
			})
			continue
		}
		files = append(files, SourceFile{Name: path, Content: content})
	}

	return append(a.AnalyzeFiles(ctx, files), unreadable...)
}

// StoreResults persists every successful result. It is a no-op without a DB.
func (a *Analyzer) StoreResults(ctx context.Context, results []FileResult) error {
	if a.DB == nil {
		return nil
	}

	var errs []error
	now := time.Now().UTC()
	for _, res := range results {
		if res.Err != nil || res.Report == nil {
			continue
		}
		record := types.AnalysisRecord{
			File:      res.Name,
			Hash:      res.Hash,
			Size:      res.Size,
			CreatedAt: now,
			Report:    *res.Report,
		}
		if err := a.DB.StoreAnalysis(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("failed to store analysis results: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (a *Analyzer) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}
