package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TFMV/codereview/parser"
	"github.com/TFMV/codereview/types"
)

const (
	docMarker = `"""`

	complexitySuggestion = "Code is too complex, consider breaking it down into smaller functions"
)

// IdentifyIssues runs the long-function, nesting and duplication rules.
func (e *Engine) IdentifyIssues(lines []string, functions []types.FunctionDeclaration) []types.Finding {
	issues := make([]types.Finding, 0)

	for _, fn := range functions {
		if n := len(fn.Body); n > e.thresholds.MaxFunctionLength {
			issues = append(issues, types.Finding{
				Kind:    types.KindLongFunction,
				Name:    fn.Name,
				Message: fmt.Sprintf("Function '%s' has too many lines (%d lines)", fn.Name, n),
			})
		}
	}

	if depth := NestingDepth(lines); depth > e.thresholds.MaxNestedDepth {
		issues = append(issues, types.Finding{
			Kind:    types.KindDeepNesting,
			Message: fmt.Sprintf("Code contains deep nesting (depth %d, max %d)", depth, e.thresholds.MaxNestedDepth),
		})
	}

	if groups := FindDuplicates(lines); len(groups) > 0 {
		issues = append(issues, types.Finding{
			Kind:    types.KindCodeDuplication,
			Message: fmt.Sprintf("Found %d duplicated code blocks", len(groups)),
		})
	}

	return issues
}

// CheckBestPractices runs the naming and documentation rules.
func (e *Engine) CheckBestPractices(code string, functions []types.FunctionDeclaration) []types.Finding {
	practices := make([]types.Finding, 0)

	for _, name := range parser.FindClasses(code) {
		if !IsCapWords(name) {
			practices = append(practices, types.Finding{
				Kind:    types.KindNamingConvention,
				Name:    name,
				Message: "Class names should use the CapWords convention",
			})
			break
		}
	}

	for _, fn := range functions {
		if !HasDocstring(fn.Body) {
			practices = append(practices, types.Finding{
				Kind:    types.KindMissingDocumentation,
				Name:    fn.Name,
				Message: fmt.Sprintf("Function '%s' is missing documentation", fn.Name),
			})
		}
	}

	return practices
}

// GenerateSuggestions turns the score and findings into suggestion strings.
func (e *Engine) GenerateSuggestions(score float64, issues, practices []types.Finding) []string {
	suggestions := make([]string, 0, len(issues)+len(practices)+1)

	if score > e.thresholds.ComplexityThreshold {
		suggestions = append(suggestions, complexitySuggestion)
	}
	for _, issue := range issues {
		suggestions = append(suggestions, issue.Message)
	}
	for _, practice := range practices {
		suggestions = append(suggestions, practice.Message)
	}

	return suggestions
}

// IsCapWords reports whether a captured class name starts with an uppercase
// letter. Class discovery only captures such names, so the naming rule never
// fires on names like my_class; they are not captured in the first place.
func IsCapWords(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return r != utf8.RuneError && unicode.IsUpper(r)
}

// HasDocstring reports whether the first body line opens a docstring
func HasDocstring(body []string) bool {
	return len(body) > 0 && strings.Contains(body[0], docMarker)
}
