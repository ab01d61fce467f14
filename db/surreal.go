package db

import (
	"context"
	"fmt"

	"github.com/TFMV/codereview/schema"
	"github.com/TFMV/codereview/types"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

func NewSurrealDB(config Config) (*SurrealDB, error) {
	db, err := surrealdb.New(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SurrealDB{
		db:     db,
		config: config,
	}, nil
}

func (s *SurrealDB) Initialize(ctx context.Context) error {
	if err := s.db.Use(s.config.Namespace, s.config.Database); err != nil {
		return fmt.Errorf("failed to set namespace/database: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: s.config.Username,
		Password: s.config.Password,
	}
	token, err := s.db.SignIn(authData)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := s.db.Authenticate(token); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := schema.InitializeSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (s *SurrealDB) StoreAnalysis(ctx context.Context, record types.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := surrealdb.Create[types.AnalysisRecord](s.db, models.Table(schema.ReportsTable), record); err != nil {
		return fmt.Errorf("error storing report for %s: %w", record.File, err)
	}
	return nil
}

func (s *SurrealDB) Close() error {
	return s.db.Close()
}
