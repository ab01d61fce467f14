package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/TFMV/codereview/db"
	"github.com/TFMV/codereview/types"
	"github.com/stretchr/testify/assert"
)

func TestMockDB_Defaults(t *testing.T) {
	m := db.NewMockDB()

	assert.NoError(t, m.Initialize(context.Background()))
	assert.NoError(t, m.StoreAnalysis(context.Background(), types.AnalysisRecord{File: "a.py"}))
	assert.NoError(t, m.Close())
}

func TestMockDB_Overrides(t *testing.T) {
	var stored []string
	m := &db.MockDB{
		InitializeFunc: func(ctx context.Context) error {
			return errors.New("unreachable")
		},
		StoreAnalysisFunc: func(ctx context.Context, record types.AnalysisRecord) error {
			stored = append(stored, record.File)
			return nil
		},
	}

	assert.Error(t, m.Initialize(context.Background()))
	assert.NoError(t, m.StoreAnalysis(context.Background(), types.AnalysisRecord{File: "a.py"}))
	assert.NoError(t, m.StoreAnalysis(context.Background(), types.AnalysisRecord{File: "b.py"}))
	assert.Equal(t, []string{"a.py", "b.py"}, stored)
}

var _ db.DB = (*db.MockDB)(nil)
var _ db.DB = (*db.SurrealDB)(nil)
