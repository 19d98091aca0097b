// Package query splits raw launcher input into an optional routing keyword and the remaining query text.
package query

import (
	"strings"
	"unicode"
)

// Query is the parsed form of one raw input string.
// Keyword is set only when the input contains a space; Query is set only when Keyword is.
type Query struct {
	FullText string
	Keyword  *string
	Query    *string
}

// Parse splits text on ASCII spaces and derives the keyword and query.
// It never fails: at worst both optional fields are nil.
func Parse(text string) Query {
	q := Query{FullText: text}

	// Empty tokens from consecutive spaces are kept, so "x  y" has three parts.
	parts := strings.Split(text, " ")
	if len(parts) <= 1 {
		return q
	}

	keyword := strings.TrimLeftFunc(parts[0], unicode.IsSpace)
	rest, found := strings.CutPrefix(text, keyword)
	if !found {
		// Leading whitespace other than a space, as in "\tx y", leaves no keyword.
		return q
	}
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)

	q.Keyword = &keyword
	q.Query = &rest
	return q
}

// HasKeyword reports whether a keyword was detected.
func (q Query) HasKeyword() bool {
	return q.Keyword != nil
}

// KeywordOr returns the keyword, or fallback when none was detected.
func (q Query) KeywordOr(fallback string) string {
	if q.Keyword == nil {
		return fallback
	}
	return *q.Keyword
}

// GetQuery returns the query text, falling back to the full input when no keyword was detected.
func (q Query) GetQuery() string {
	if q.Query != nil {
		return *q.Query
	}
	return q.FullText
}

// Tokens returns the non-empty words of GetQuery.
func (q Query) Tokens() []string {
	return strings.Fields(q.GetQuery())
}
