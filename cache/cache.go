// Package cache memoizes analysis reports by a hash of the analyzed text.
//
// The analysis engine never consults a cache itself; callers check and
// populate one around Engine.Analyze.
package cache

import (
	"encoding/hex"

	"github.com/TFMV/codereview/types"
	"github.com/zeebo/blake3"
)

// Cache stores reports keyed by Key(code).
type Cache interface {
	Get(key string) (types.AnalysisReport, bool)
	Put(key string, report types.AnalysisReport) error
}

// Key computes the BLAKE3 hash of code as a hex string.
func Key(code string) string {
	sum := blake3.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
