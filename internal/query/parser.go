// Package query parses the search query language and implements pattern
// matching over normalized text.
//
// A query is a whitespace-separated list of tokens. Tokens prefixed with
// '@' or the case-insensitive "at:" narrow by filename, tokens prefixed
// with '>' or "in:" narrow by section heading, and everything else is free
// text. Arguments may be single- or double-quoted to span whitespace, and
// may contain '*' wildcards.
package query

import (
	"strings"

	"github.com/notedex/notedex/internal/normalize"
)

// Kind classifies a parsed predicate.
type Kind int

const (
	// FreeText matches a word anywhere in the evaluation scope.
	FreeText Kind = iota
	// PathFilter matches against the note's filename stem.
	PathFilter
	// SectionFilter matches against section heading titles.
	SectionFilter
)

// String returns a human-readable predicate kind.
func (k Kind) String() string {
	switch k {
	case PathFilter:
		return "path"
	case SectionFilter:
		return "section"
	default:
		return "text"
	}
}

// Predicate is one parsed query clause. Pattern is normalized with
// wildcards preserved; Raw keeps the original argument for display.
type Predicate struct {
	Kind    Kind
	Pattern string
	Raw     string
}

const (
	sectionChar   = ">"
	sectionPrefix = "in:"
	pathChar      = "@"
	pathPrefix    = "at:"
)

// Parse tokenizes a query string into typed predicates. Parsing never
// fails: unrecognized prefixes fall through to free text, and a quoted
// argument that is never closed discards that token.
func Parse(q string) []Predicate {
	var preds []Predicate
	rest := strings.TrimSpace(q)
	for rest != "" {
		var p Predicate
		var ok bool
		p, rest, ok = nextToken(rest)
		if !ok {
			continue
		}
		preds = append(preds, expand(p)...)
	}
	return preds
}

// nextToken extracts one token from the front of the query and returns the
// remainder. ok is false when the token must be discarded (unclosed quote).
func nextToken(q string) (p Predicate, rest string, ok bool) {
	q = strings.TrimSpace(q)

	kind := FreeText
	lower := strings.ToLower(q)
	switch {
	case strings.HasPrefix(lower, sectionPrefix):
		kind = SectionFilter
		q = q[len(sectionPrefix):]
	case strings.HasPrefix(q, sectionChar):
		kind = SectionFilter
		q = q[len(sectionChar):]
	case strings.HasPrefix(lower, pathPrefix):
		kind = PathFilter
		q = q[len(pathPrefix):]
	case strings.HasPrefix(q, pathChar):
		kind = PathFilter
		q = q[len(pathChar):]
	}

	// Quoted arguments span whitespace.
	if strings.HasPrefix(q, `"`) || strings.HasPrefix(q, `'`) {
		quote := q[:1]
		body := q[1:]
		end := strings.Index(body, quote)
		if end < 0 {
			// Unclosed quote consumes the rest of the query.
			return Predicate{}, "", false
		}
		arg := body[:end]
		rest = strings.TrimSpace(body[end+1:])
		return makePredicate(kind, arg), rest, arg != ""
	}

	arg := q
	rest = ""
	if i := strings.IndexFunc(q, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		arg = q[:i]
		rest = strings.TrimSpace(q[i:])
	}
	return makePredicate(kind, arg), rest, arg != ""
}

func makePredicate(kind Kind, raw string) Predicate {
	return Predicate{
		Kind:    kind,
		Pattern: normalize.Pattern(raw),
		Raw:     raw,
	}
}

// expand splits a multi-word free-text pattern into one predicate per word
// (AND semantics). Path and section arguments keep internal spaces since
// their comparison units may contain them. Tokens that normalize to
// nothing drop out.
func expand(p Predicate) []Predicate {
	if p.Pattern == "" {
		return nil
	}
	if p.Kind != FreeText || !strings.Contains(p.Pattern, " ") {
		return []Predicate{p}
	}
	words := strings.Fields(p.Pattern)
	out := make([]Predicate, 0, len(words))
	for _, w := range words {
		out = append(out, Predicate{Kind: FreeText, Pattern: w, Raw: p.Raw})
	}
	return out
}
