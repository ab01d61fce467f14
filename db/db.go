package db

import (
	"context"

	"github.com/TFMV/codereview/types"
)

// DB persists analysis records.
type DB interface {
	Initialize(ctx context.Context) error
	StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error
	Close() error
}
