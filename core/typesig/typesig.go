// Package typesig decomposes textual type expressions into the identifier
// tokens they reference.
//
// The split is purely lexical: `Outer<Inner<A,B>,C>` yields Outer, Inner,
// A, B and C as siblings. Nesting is not tracked and brackets are not
// balanced; that flattening is intentional and keeps output reproducible.
package typesig

import (
	"strings"
	"unicode"
)

func isDelimiter(r rune) bool {
	return r == ',' || r == '<' || r == '>'
}

// Canonical removes every whitespace rune from a type expression.
func Canonical(expr string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)
}

// HasDependencies reports whether typeStr contains any of `,`, `<`, `>`.
func HasDependencies(typeStr string) bool {
	return strings.ContainsFunc(typeStr, isDelimiter)
}

// Decompose splits typeStr on `,`, `<` and `>` and returns the non-empty
// fragments in first-occurrence order. Duplicates are kept.
func Decompose(typeStr string) []string {
	fragments := strings.FieldsFunc(typeStr, isDelimiter)
	tokens := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = Canonical(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// TokenSet is the set form of Decompose.
func TokenSet(typeStr string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Decompose(typeStr) {
		set[t] = struct{}{}
	}
	return set
}

// Intersects reports whether any token of typeStr is in names.
func Intersects(typeStr string, names map[string]struct{}) bool {
	for _, t := range Decompose(typeStr) {
		if _, ok := names[t]; ok {
			return true
		}
	}
	return false
}
