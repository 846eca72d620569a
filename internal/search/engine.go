// Package search evaluates parsed queries against index snapshots.
package search

import (
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/notedex/notedex/internal/query"
	"github.com/notedex/notedex/internal/section"
	"github.com/notedex/notedex/internal/store"
)

// DefaultCacheSize is the default number of query results to keep cached.
const DefaultCacheSize = 256

// Result is one matching note, optionally with the section that satisfied
// a section filter.
type Result struct {
	Note    *store.Note
	Section *section.Section

	// exact is true when every predicate matched without needing a
	// wildcard; exact matches rank ahead of wildcard-only matches.
	exact bool
}

// Exact reports whether every predicate matched without a wildcard.
func (r Result) Exact() bool { return r.exact }

// Engine evaluates predicate lists against store snapshots. Results for a
// (snapshot version, query) pair are cached; a new snapshot version
// naturally invalidates stale entries.
type Engine struct {
	store *store.Store
	cache *lru.Cache[string, []Result]
}

// NewEngine creates an engine reading from the given store.
func NewEngine(st *store.Store, cacheSize int) *Engine {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, _ := lru.New[string, []Result](cacheSize)
	return &Engine{store: st, cache: cache}
}

// Search parses and evaluates a query against the current snapshot. It
// never fails: malformed fragments degrade to free-text literals and an
// empty query matches every note.
func (e *Engine) Search(q string) []Result {
	snap := e.store.Snapshot()
	key := fmt.Sprintf("%d|%s", snap.Version(), q)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}
	results := Evaluate(snap, query.Parse(q))
	e.cache.Add(key, results)
	return results
}

// Evaluate runs the predicate list against one snapshot, producing matching
// notes in rank order. All predicates must hold (AND); an empty predicate
// list matches every note by vacuous truth.
func Evaluate(snap *store.Snapshot, preds []query.Predicate) []Result {
	var paths, sections, texts []query.Predicate
	for _, p := range preds {
		switch p.Kind {
		case query.PathFilter:
			paths = append(paths, p)
		case query.SectionFilter:
			sections = append(sections, p)
		default:
			texts = append(texts, p)
		}
	}

	var results []Result
	for _, note := range snap.Notes() {
		if r, ok := evaluateNote(note, paths, sections, texts); ok {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].exact != results[j].exact {
			return results[i].exact
		}
		ti, tj := strings.ToLower(results[i].Note.Title), strings.ToLower(results[j].Note.Title)
		if ti != tj {
			return ti < tj
		}
		return results[i].Note.Path < results[j].Note.Path
	})
	return results
}

func evaluateNote(note *store.Note, paths, sections, texts []query.Predicate) (Result, bool) {
	exact := true

	// Path filters short-circuit: a failing note skips all further work.
	for _, p := range paths {
		matched, ex := matchUnit(p.Pattern, note.NormStem)
		if !matched {
			return Result{}, false
		}
		exact = exact && ex
	}

	// Section filters each select their own matching sections; the free
	// text scope is the intersection of each filter's aggregate union.
	scope := note.Words
	var matchedSection *section.Section
	for i, p := range sections {
		union, first, ex := sectionScope(note.Root, p.Pattern)
		if first == nil {
			return Result{}, false
		}
		if i == 0 {
			matchedSection = first
			if len(sections) == 1 {
				scope = union
			} else {
				scope = cloneSet(union)
			}
		} else {
			intersect(scope, union)
		}
		exact = exact && ex
	}
	for _, p := range texts {
		matched, ex := matchScope(p.Pattern, scope)
		if !matched {
			return Result{}, false
		}
		exact = exact && ex
	}

	return Result{Note: note, Section: matchedSection, exact: exact}, true
}

// matchUnit matches a pattern against a normalized comparison unit: the
// whole unit, or any single word of a multi-word unit. The second return
// is true when some matching candidate needed no wildcard.
func matchUnit(pattern, unit string) (matched, exact bool) {
	wild := query.HasWildcard(pattern)
	lit := query.Literal(pattern)

	try := func(candidate string) {
		if !query.Match(pattern, candidate) {
			return
		}
		matched = true
		if !wild || candidate == lit {
			exact = true
		}
	}

	try(unit)
	if strings.Contains(unit, " ") {
		for _, w := range strings.Fields(unit) {
			if matched && exact {
				break
			}
			try(w)
		}
	}
	return matched, exact
}

// matchScope reports whether any word in scope satisfies the pattern.
func matchScope(pattern string, scope map[string]struct{}) (matched, exact bool) {
	wild := query.HasWildcard(pattern)
	if !wild {
		_, ok := scope[pattern]
		return ok, ok
	}
	lit := query.Literal(pattern)
	if _, ok := scope[lit]; ok {
		return true, true
	}
	for w := range scope {
		if query.Match(pattern, w) {
			return true, false
		}
	}
	return false, false
}

// sectionScope collects the union of aggregate words over all sections
// whose title matches the pattern, plus the first matching section in
// document order for display.
func sectionScope(root *section.Section, pattern string) (map[string]struct{}, *section.Section, bool) {
	union := make(map[string]struct{})
	var first *section.Section
	exact := false

	root.Walk(func(s *section.Section) bool {
		if s.NormTitle == "" {
			return true
		}
		m, ex := matchUnit(pattern, s.NormTitle)
		if !m {
			return true
		}
		if first == nil {
			first = s
		}
		exact = exact || ex
		for w := range s.Aggregate {
			union[w] = struct{}{}
		}
		return true
	})
	return union, first, exact
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for w := range set {
		out[w] = struct{}{}
	}
	return out
}

func intersect(dst, other map[string]struct{}) {
	for w := range dst {
		if _, ok := other[w]; !ok {
			delete(dst, w)
		}
	}
}
