// Package store holds the in-memory note index: an immutable note record
// per path with copy-on-write snapshots for readers.
package store

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/notedex/notedex/internal/normalize"
	"github.com/notedex/notedex/internal/section"
)

// Note is one indexed Markdown file. Notes are immutable once installed:
// every visible change is a whole-note replacement through the store, so a
// reader holding a *Note never observes a partial update.
type Note struct {
	// Path is the note's identity, relative to the notes root.
	Path string

	// Title is the first level-1 heading text, falling back to the
	// filename stem.
	Title string

	// Content is the raw note text.
	Content string

	// ModTime is the last-modified marker supplied by the event source.
	ModTime time.Time

	// Stem is the filename without directory or extension; NormStem its
	// normalized form, the comparison unit for path filters.
	Stem     string
	NormStem string

	// Words is the flat normalized word index for whole-note free-text
	// queries (the root section's aggregate).
	Words map[string]struct{}

	// Root is the note's section tree (implicit level-0 root).
	Root *section.Section
}

// HasWord reports whether the normalized word occurs anywhere in the note.
func (n *Note) HasWord(w string) bool {
	_, ok := n.Words[w]
	return ok
}

// Stem returns the filename stem for a note path: the base name without
// its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// NewNote parses content into an immutable note record.
func NewNote(path string, content []byte, modTime time.Time) *Note {
	root := section.Parse(content)
	stem := Stem(path)

	title := section.ExtractTitle(content)
	if title == "" {
		title = stem
	}

	return &Note{
		Path:     path,
		Title:    title,
		Content:  string(content),
		ModTime:  modTime,
		Stem:     stem,
		NormStem: normalize.Normalize(stem),
		Words:    root.Aggregate,
		Root:     root,
	}
}

// NewEmptyNote builds a note with no body, used when content cannot be
// decoded as text. The title degrades to the filename stem.
func NewEmptyNote(path string, modTime time.Time) *Note {
	return NewNote(path, nil, modTime)
}
