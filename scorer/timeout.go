package scorer

import (
	"context"
	"fmt"
	"time"
)

type timeoutScorer struct {
	next    Scorer
	timeout time.Duration
}

type scoreResult struct {
	score float64
	err   error
}

// WithTimeout bounds every call to next by d. When the deadline passes the
// call fails immediately even if next ignores its context; the late result
// is discarded. A non-positive d returns next unchanged.
func WithTimeout(next Scorer, d time.Duration) Scorer {
	if d <= 0 {
		return next
	}
	return &timeoutScorer{next: next, timeout: d}
}

// Identity is that of the wrapped scorer; the deadline does not change scores.
func (t *timeoutScorer) Identity() string {
	if ident, ok := t.next.(interface{ Identity() string }); ok {
		return ident.Identity()
	}
	return fmt.Sprintf("%T", t.next)
}

func (t *timeoutScorer) Score(ctx context.Context, text string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	done := make(chan scoreResult, 1)
	go func() {
		score, err := t.next.Score(ctx, text)
		done <- scoreResult{score: score, err: err}
	}()

	select {
	case res := <-done:
		return res.score, res.err
	case <-ctx.Done():
		return 0, fmt.Errorf("scorer did not answer within %s: %w", t.timeout, ctx.Err())
	}
}
