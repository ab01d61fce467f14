package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitLines splits text on line feeds. A trailing line feed yields a final
// empty line, and the empty string yields one empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// IsBlank reports whether line contains only whitespace
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Indent returns the number of leading whitespace characters of line
func Indent(line string) int {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	return utf8.RuneCountInString(line) - utf8.RuneCountInString(trimmed)
}

// ExtractBody returns the indentation-delimited block that follows the
// declaration line starting at offset.
//
// Blank lines are skipped. The first non-blank line fixes the reference
// indent; extraction stops at the first line indented less than it.
func ExtractBody(text string, offset int) []string {
	body := make([]string, 0)
	if offset < 0 || offset > len(text) {
		return body
	}

	lines := SplitLines(text[offset:])
	indent := -1
	for _, line := range lines[1:] {
		if IsBlank(line) {
			continue
		}
		current := Indent(line)
		if indent < 0 {
			indent = current
		} else if current < indent {
			break
		}
		body = append(body, line)
	}
	return body
}

// HasAnyPrefix reports whether s starts with one of prefixes
func HasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
