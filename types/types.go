package types

import (
	"errors"
	"fmt"
)

// FindingKind tags the rule that produced a Finding
type FindingKind string

const (
	KindLongFunction         FindingKind = "long_function"
	KindDeepNesting          FindingKind = "deep_nesting"
	KindCodeDuplication      FindingKind = "code_duplication"
	KindNamingConvention     FindingKind = "naming_convention"
	KindMissingDocumentation FindingKind = "missing_documentation"
)

var (
	// ErrInvalidText is the cause used when the input is not valid UTF-8.
	ErrInvalidText = errors.New("input is not valid UTF-8 text")

	// ErrInvalidScore is the cause used when the scorer returns NaN, ±Inf or
	// a value outside [0,1].
	ErrInvalidScore = errors.New("scorer returned an unusable value")
)

// AnalysisFailure is the only error the analysis engine returns.
type AnalysisFailure struct {
	Cause error
}

func (e *AnalysisFailure) Error() string {
	if e.Cause == nil {
		return "analysis failed"
	}
	return fmt.Sprintf("analysis failed: %v", e.Cause)
}

func (e *AnalysisFailure) Unwrap() error {
	return e.Cause
}

// IsAnalysisFailure reports whether err is or wraps an AnalysisFailure
func IsAnalysisFailure(err error) bool {
	var failure *AnalysisFailure
	return errors.As(err, &failure)
}
