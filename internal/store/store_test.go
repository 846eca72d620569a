package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func note(path, content string) *Note {
	return NewNote(path, []byte(content), time.Now())
}

func TestStem_StripsDirAndExtension(t *testing.T) {
	assert.Equal(t, "grocery-list", Stem("daily/grocery-list.md"))
	assert.Equal(t, "tasks", Stem("tasks.markdown"))
	assert.Equal(t, "plain", Stem("plain"))
}

func TestNewNote_TitleFromFirstHeading(t *testing.T) {
	n := note("notes/wine.md", "# Wine Journal\n\nred wine\n")

	assert.Equal(t, "Wine Journal", n.Title)
	assert.Equal(t, "wine", n.Stem)
	assert.Equal(t, "wine", n.NormStem)
}

func TestNewNote_NoHeading_TitleFallsBackToStem(t *testing.T) {
	n := note("daily/Grocery-List.md", "milk, eggs\n")

	assert.Equal(t, "Grocery-List", n.Title)
	assert.Equal(t, "grocery list", n.NormStem)
}

func TestNewNote_WordsAreWholeNoteAggregate(t *testing.T) {
	n := note("a.md", "# Top\n\nalpha\n\n## Sub\n\nbeta\n")

	assert.True(t, n.HasWord("alpha"))
	assert.True(t, n.HasWord("beta"))
	assert.True(t, n.HasWord("sub"))
	assert.False(t, n.HasWord("gamma"))
}

func TestNewEmptyNote_NoWords(t *testing.T) {
	n := NewEmptyNote("broken/data.md", time.Now())

	assert.Equal(t, "data", n.Title)
	assert.Empty(t, n.Words)
	require.NotNil(t, n.Root)
}

func TestStore_UpsertAndRemove(t *testing.T) {
	s := New()

	s.Upsert(note("a.md", "alpha"))
	s.Upsert(note("b.md", "beta"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a.md", "b.md"}, s.Paths())

	assert.True(t, s.Remove("a.md"))
	assert.False(t, s.Remove("a.md"))
	assert.Equal(t, 1, s.Len())
}

func TestStore_Upsert_ReplacesSamePath(t *testing.T) {
	s := New()
	s.Upsert(note("a.md", "old words"))
	s.Upsert(note("a.md", "new words"))

	assert.Equal(t, 1, s.Len())
	n, ok := s.Snapshot().Get("a.md")
	require.True(t, ok)
	assert.True(t, n.HasWord("new"))
	assert.False(t, n.HasWord("old"))
}

func TestSnapshot_IsolatedFromLaterWrites(t *testing.T) {
	// Given: a snapshot taken before a write
	s := New()
	s.Upsert(note("a.md", "alpha"))
	snap := s.Snapshot()

	// When: the store changes afterwards
	s.Upsert(note("b.md", "beta"))
	s.Remove("a.md")

	// Then: the snapshot still sees the old state
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Get("a.md")
	assert.True(t, ok)
	_, ok = snap.Get("b.md")
	assert.False(t, ok)
}

func TestSnapshot_VersionAdvancesPerWrite(t *testing.T) {
	s := New()
	v0 := s.Snapshot().Version()

	s.Upsert(note("a.md", "x"))
	v1 := s.Snapshot().Version()
	s.Remove("a.md")
	v2 := s.Snapshot().Version()

	assert.Greater(t, v1, v0)
	assert.Greater(t, v2, v1)
}

func TestSnapshot_Notes_SortedByPath(t *testing.T) {
	s := New()
	s.Upsert(note("c.md", "x"))
	s.Upsert(note("a.md", "x"))
	s.Upsert(note("b.md", "x"))

	notes := s.Snapshot().Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, "a.md", notes[0].Path)
	assert.Equal(t, "b.md", notes[1].Path)
	assert.Equal(t, "c.md", notes[2].Path)
}
