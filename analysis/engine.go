package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/TFMV/codereview/parser"
	"github.com/TFMV/codereview/types"
)

// DuplicateBlockSize is the number of consecutive lines compared by the
// duplicate-block rule.
const DuplicateBlockSize = 3

// Scorer maps source text to a learned complexity score in [0,1].
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Thresholds are the fixed limits the rules compare against.
type Thresholds struct {
	ComplexityThreshold float64
	// MaxLineLength is reserved for a line-length rule and is not enforced.
	MaxLineLength     int
	MaxFunctionLength int
	MaxNestedDepth    int
}

// DefaultThresholds returns the stock rule limits
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplexityThreshold: 0.7,
		MaxLineLength:       80,
		MaxFunctionLength:   50,
		MaxNestedDepth:      3,
	}
}

// Identifier is implemented by scorers whose output is determined by a
// stable configuration, such as a fixed value or a model endpoint.
type Identifier interface {
	Identity() string
}

var errNoScorer = errors.New("no scorer configured")

// Engine runs the heuristic passes over a snippet and assembles one report.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	scorer      Scorer
	thresholds  Thresholds
	fingerprint string
}

// NewEngine creates an Engine. Non-positive thresholds fall back to defaults.
func NewEngine(scorer Scorer, thresholds Thresholds) *Engine {
	defaults := DefaultThresholds()
	if thresholds.ComplexityThreshold <= 0 {
		thresholds.ComplexityThreshold = defaults.ComplexityThreshold
	}
	if thresholds.MaxLineLength <= 0 {
		thresholds.MaxLineLength = defaults.MaxLineLength
	}
	if thresholds.MaxFunctionLength <= 0 {
		thresholds.MaxFunctionLength = defaults.MaxFunctionLength
	}
	if thresholds.MaxNestedDepth <= 0 {
		thresholds.MaxNestedDepth = defaults.MaxNestedDepth
	}
	return &Engine{
		scorer:      scorer,
		thresholds:  thresholds,
		fingerprint: fingerprint(scorer, thresholds),
	}
}

// Fingerprint identifies the configuration that shapes a report: the
// thresholds and the scorer. Reports cached under one fingerprint are not
// valid under another.
func (e *Engine) Fingerprint() string {
	return e.fingerprint
}

func fingerprint(scorer Scorer, t Thresholds) string {
	id := fmt.Sprintf("%T", scorer)
	if ident, ok := scorer.(Identifier); ok {
		id = ident.Identity()
	}
	return fmt.Sprintf("complexity=%g;line=%d;function=%d;depth=%d;scorer=%s",
		t.ComplexityThreshold, t.MaxLineLength, t.MaxFunctionLength, t.MaxNestedDepth, id)
}

// Thresholds returns the limits the engine was built with
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Analyze scores code once and runs every rule over it.
//
// The only error returned is *types.AnalysisFailure: the scorer failed or
// produced an unusable value, or code is not valid UTF-8. Text that matches
// no rule yields an empty, fully populated report.
func (e *Engine) Analyze(ctx context.Context, code string) (*types.AnalysisReport, error) {
	if !utf8.ValidString(code) {
		return nil, &types.AnalysisFailure{Cause: types.ErrInvalidText}
	}

	score, err := e.score(ctx, code)
	if err != nil {
		return nil, &types.AnalysisFailure{Cause: err}
	}

	lines := parser.SplitLines(code)
	functions := parser.FindFunctions(code)

	report := types.NewAnalysisReport()
	report.ComplexityScore = score
	report.LineCount = len(lines)
	report.Metrics = CalculateMetrics(lines, functions)
	report.Issues = e.IdentifyIssues(lines, functions)
	report.Practices = e.CheckBestPractices(code, functions)
	report.Suggestions = e.GenerateSuggestions(score, report.Issues, report.Practices)

	return report, nil
}

func (e *Engine) score(ctx context.Context, code string) (float64, error) {
	if e.scorer == nil {
		return 0, errNoScorer
	}

	score, err := e.scorer.Score(ctx, code)
	if err != nil {
		return 0, fmt.Errorf("scorer unavailable: %w", err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 || score > 1 {
		return 0, fmt.Errorf("%w: %v", types.ErrInvalidScore, score)
	}
	return score, nil
}
