// Package scorer provides implementations of the learned complexity scorer
// consumed by the analysis engine.
//
// A scorer maps source text to a value in [0,1]. How the value is computed
// is opaque to the engine; this package only supplies transports (a remote
// model server), fixed stubs and a caller-side deadline wrapper.
package scorer

import (
	"context"
	"strconv"
)

// Scorer maps text to a complexity score in [0,1].
type Scorer interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Static always returns the same score.
type Static float64

func (s Static) Score(ctx context.Context, text string) (float64, error) {
	return float64(s), nil
}

// Identity distinguishes static scorers by their value.
func (s Static) Identity() string {
	return "static:" + strconv.FormatFloat(float64(s), 'g', -1, 64)
}

// Func adapts an ordinary function to the Scorer interface.
type Func func(ctx context.Context, text string) (float64, error)

func (f Func) Score(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}
