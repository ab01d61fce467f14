package db

import (
	"context"

	"github.com/TFMV/codereview/types"
)

type MockDB struct {
	InitializeFunc    func(ctx context.Context) error
	StoreAnalysisFunc func(ctx context.Context, record types.AnalysisRecord) error
	CloseFunc         func() error
}

func NewMockDB() *MockDB {
	return &MockDB{
		InitializeFunc: func(ctx context.Context) error {
			return nil
		},
	}
}

func (m *MockDB) Initialize(ctx context.Context) error {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx)
	}
	return nil
}

func (m *MockDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	if m.StoreAnalysisFunc != nil {
		return m.StoreAnalysisFunc(ctx, record)
	}
	return nil
}

func (m *MockDB) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
