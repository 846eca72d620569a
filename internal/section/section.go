// Package section parses a note's Markdown content into an ordered tree of
// heading-delimited sections used for section-scoped search.
package section

import (
	"strings"

	"github.com/notedex/notedex/internal/errors"
	"github.com/notedex/notedex/internal/normalize"
)

// FrontMatterTitle is the synthetic title of the section holding YAML/TOML
// frontmatter content, kept out of the Markdown body.
const FrontMatterTitle = "FrontMatter"

// Section is one heading-delimited span of a note. Level 0 is the implicit
// root (and the synthetic frontmatter section); levels 1-6 mirror Markdown
// headings. A section's own words cover the text strictly within its span,
// excluding descendant sections; Aggregate unions its own words with all
// descendants' words and titles, so narrowing to a section includes its
// subsections.
type Section struct {
	Level     int
	Title     string
	NormTitle string
	Words     map[string]struct{}
	Aggregate map[string]struct{}
	Children  []*Section

	// body accumulates raw text fragments during parsing.
	body []string
}

// HasWord reports whether the normalized word is in the section's own span.
func (s *Section) HasWord(w string) bool {
	_, ok := s.Words[w]
	return ok
}

// Walk visits the section and all descendants in document order.
// Returning false from fn stops the walk.
func (s *Section) Walk(fn func(*Section) bool) bool {
	if !fn(s) {
		return false
	}
	for _, c := range s.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// finalize computes normalized word sets bottom-up. The parent aggregate
// includes each child's aggregate plus the child's title words, so heading
// text is searchable from every enclosing scope.
func (s *Section) finalize() {
	s.Words = normalize.WordSet(strings.Join(s.body, " "))
	s.body = nil

	agg := make(map[string]struct{}, len(s.Words))
	for w := range s.Words {
		agg[w] = struct{}{}
	}
	for _, c := range s.Children {
		c.finalize()
		for _, w := range normalize.Words(c.Title) {
			agg[w] = struct{}{}
		}
		for w := range c.Aggregate {
			agg[w] = struct{}{}
		}
	}
	s.Aggregate = agg
}

// newSection builds a section for a heading, clamping out-of-range levels
// rather than crashing: goldmark only emits 1-6, so anything else is an
// internal defect.
func newSection(level int, title string) *Section {
	if !errors.Invariant(level >= 1 && level <= 6, "heading level %d out of range for %q", level, title) {
		if level < 1 {
			level = 1
		} else {
			level = 6
		}
	}
	return &Section{
		Level:     level,
		Title:     title,
		NormTitle: normalize.Normalize(title),
	}
}
