package types

import (
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// FunctionDeclaration represents a discovered `def name(params):` site
type FunctionDeclaration struct {
	Name   string   `json:"name"`
	Params string   `json:"params"`
	Offset int      `json:"offset"`
	Body   []string `json:"body"`
}

// Finding is a single issue or best-practice note produced by a rule
type Finding struct {
	Kind    FindingKind `json:"type"`
	Name    string      `json:"name,omitempty"`
	Message string      `json:"message"`
}

// DuplicateGroup is a block of identical consecutive lines and every offset it starts at
type DuplicateGroup struct {
	Block   string `json:"block"`
	Offsets []int  `json:"offsets"`
}

// Metrics holds the structural line and declaration counts of a snippet.
// The JSON names match the original service's wire format.
type Metrics struct {
	TotalLines    int `json:"total lines"`
	BlankLines    int `json:"blank lines"`
	CommentLines  int `json:"comment lines"`
	FunctionCount int `json:"function_count"`
}

// AnalysisReport contains the complete analysis results for one snippet
type AnalysisReport struct {
	ComplexityScore float64   `json:"Complexity_Score"`
	LineCount       int       `json:"Line Count"`
	Suggestions     []string  `json:"Suggestions"`
	Metrics         Metrics   `json:"code metrics"`
	Issues          []Finding `json:"potential issues"`
	Practices       []Finding `json:"best practices"`
}

// NewAnalysisReport returns a report with every sequence initialized
func NewAnalysisReport() *AnalysisReport {
	return &AnalysisReport{
		Suggestions: make([]string, 0),
		Issues:      make([]Finding, 0),
		Practices:   make([]Finding, 0),
	}
}

// AnalysisRecord is a stored report together with where it came from
type AnalysisRecord struct {
	ID        *models.RecordID `json:"id,omitempty"`
	File      string           `json:"file"`
	Hash      string           `json:"hash"`
	Size      int              `json:"size"`
	CreatedAt time.Time        `json:"created_at"`
	Report    AnalysisReport   `json:"report"`
}

// Clone returns a deep copy of the report.
func (r AnalysisReport) Clone() AnalysisReport {
	out := r
	out.Suggestions = append(make([]string, 0, len(r.Suggestions)), r.Suggestions...)
	out.Issues = append(make([]Finding, 0, len(r.Issues)), r.Issues...)
	out.Practices = append(make([]Finding, 0, len(r.Practices)), r.Practices...)
	return out
}
