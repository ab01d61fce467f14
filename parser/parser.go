package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/TFMV/codereview/types"
)

const (
	defKeyword   = "def"
	classKeyword = "class"
)

// FindFunctions returns every `def <name>(<params>):` site in text, in order.
//
// Matching follows the surface pattern def\s+(\w+)\s*\(([^)]*)\): applied
// left to right without overlap. The parameter text may span lines and is
// kept verbatim.
func FindFunctions(text string) []types.FunctionDeclaration {
	decls := make([]types.FunctionDeclaration, 0)
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], defKeyword)
		if idx < 0 {
			break
		}
		start := i + idx

		decl, end, ok := matchDef(text, start)
		if !ok {
			i = start + 1
			continue
		}
		decl.Body = ExtractBody(text, start)
		decls = append(decls, decl)
		i = end
	}
	return decls
}

// FindClasses returns the names captured by class\s+([A-Z]\w*), in order.
// Declarations whose name starts with anything but an ASCII capital are not
// captured at all.
func FindClasses(text string) []string {
	names := make([]string, 0)
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], classKeyword)
		if idx < 0 {
			break
		}
		start := i + idx

		name, end, ok := matchClass(text, start)
		if !ok {
			i = start + 1
			continue
		}
		names = append(names, name)
		i = end
	}
	return names
}

// matchDef tries the declaration pattern at pos, which must point at "def".
// It returns the declaration (without body) and the offset just past the colon.
func matchDef(text string, pos int) (types.FunctionDeclaration, int, bool) {
	nameStart := skipSpace(text, pos+len(defKeyword))
	if nameStart == pos+len(defKeyword) {
		return types.FunctionDeclaration{}, 0, false
	}

	nameEnd := scanWord(text, nameStart)
	if nameEnd == nameStart {
		return types.FunctionDeclaration{}, 0, false
	}

	open := skipSpace(text, nameEnd)
	if open >= len(text) || text[open] != '(' {
		return types.FunctionDeclaration{}, 0, false
	}

	rel := strings.IndexByte(text[open+1:], ')')
	if rel < 0 {
		return types.FunctionDeclaration{}, 0, false
	}
	closing := open + 1 + rel
	if closing+1 >= len(text) || text[closing+1] != ':' {
		return types.FunctionDeclaration{}, 0, false
	}

	return types.FunctionDeclaration{
		Name:   text[nameStart:nameEnd],
		Params: text[open+1 : closing],
		Offset: pos,
	}, closing + 2, true
}

func matchClass(text string, pos int) (string, int, bool) {
	nameStart := skipSpace(text, pos+len(classKeyword))
	if nameStart == pos+len(classKeyword) || nameStart >= len(text) {
		return "", 0, false
	}
	if c := text[nameStart]; c < 'A' || c > 'Z' {
		return "", 0, false
	}
	nameEnd := scanWord(text, nameStart+1)
	return text[nameStart:nameEnd], nameEnd, true
}

// skipSpace returns the first offset at or after pos that is not whitespace.
func skipSpace(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// scanWord returns the end offset of the run of word characters at pos.
func scanWord(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !isWordRune(r) {
			break
		}
		pos += size
	}
	return pos
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
