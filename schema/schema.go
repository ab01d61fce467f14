package schema

import (
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
)

// ReportsTable holds one row per stored analysis report.
const ReportsTable = "reports"

// InitializeSchema sets up the tables and indexes for stored reports
func InitializeSchema(db *surrealdb.DB) error {
	schemas := []string{
		// Reports are schemaless: the nested report keeps its wire field names.
		`DEFINE TABLE IF NOT EXISTS reports SCHEMALESS;
		 DEFINE FIELD IF NOT EXISTS file ON reports TYPE string;
		 DEFINE FIELD IF NOT EXISTS hash ON reports TYPE string;
		 DEFINE FIELD IF NOT EXISTS size ON reports TYPE int;
		 DEFINE INDEX IF NOT EXISTS report_hash ON reports FIELDS hash;
		 DEFINE INDEX IF NOT EXISTS report_file ON reports FIELDS file;`,
	}

	for _, schema := range schemas {
		if _, err := surrealdb.Query[any](db, schema, map[string]interface{}{}); err != nil {
			return fmt.Errorf("schema initialization error: %w", err)
		}
	}

	return nil
}
