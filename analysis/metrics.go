package analysis

import (
	"strings"

	"github.com/TFMV/codereview/parser"
	"github.com/TFMV/codereview/types"
)

const commentMarker = "#"

var (
	blockOpeners = []string{"if ", "for ", "while ", "def ", "class "}
	blockClosers = []string{"return", "break", "continue"}
)

// CalculateMetrics counts total, blank and comment lines plus declarations.
func CalculateMetrics(lines []string, functions []types.FunctionDeclaration) types.Metrics {
	metrics := types.Metrics{
		TotalLines:    len(lines),
		FunctionCount: len(functions),
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			metrics.BlankLines++
			continue
		}
		if strings.HasPrefix(trimmed, commentMarker) {
			metrics.CommentLines++
		}
	}

	return metrics
}

// NestingDepth returns the deepest block nesting seen while scanning lines.
//
// This is a token-prefix approximation, not block tracking: an opener keyword
// raises the running depth and a return/break/continue lowers it by one,
// floored at zero, regardless of which block it actually closes.
func NestingDepth(lines []string) int {
	maxDepth := 0
	depth := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case parser.HasAnyPrefix(trimmed, blockOpeners...):
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case parser.HasAnyPrefix(trimmed, blockClosers...):
			if depth > 0 {
				depth--
			}
		}
	}

	return maxDepth
}
