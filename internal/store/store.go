package store

import (
	"sort"
	"sync"
)

// Store maps note paths to immutable note records. Writers install whole
// new table versions (copy-on-write), so a snapshot taken before a write
// never reflects it and no reader blocks on, or is blocked by, the writer.
type Store struct {
	mu      sync.RWMutex
	notes   map[string]*Note
	version uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{notes: make(map[string]*Note)}
}

// Upsert atomically replaces or inserts the note at its path.
func (s *Store) Upsert(n *Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]*Note, len(s.notes)+1)
	for p, v := range s.notes {
		next[p] = v
	}
	next[n.Path] = n
	s.notes = next
	s.version++
}

// Remove atomically deletes the note at path, reporting whether it existed.
func (s *Store) Remove(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[path]; !ok {
		return false
	}
	next := make(map[string]*Note, len(s.notes)-1)
	for p, v := range s.notes {
		if p != path {
			next[p] = v
		}
	}
	s.notes = next
	s.version++
	return true
}

// Len returns the current number of indexed notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Paths returns the currently indexed paths, sorted.
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.notes))
	for p := range s.notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Snapshot returns an immutable point-in-time view. The returned table is
// never mutated: later writes install a fresh table instead.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Snapshot{notes: s.notes, version: s.version}
}

// Snapshot is a consistent read-only view of the store used by one query
// evaluation.
type Snapshot struct {
	notes   map[string]*Note
	version uint64
}

// Get returns the note at path, if present.
func (sn *Snapshot) Get(path string) (*Note, bool) {
	n, ok := sn.notes[path]
	return n, ok
}

// Len returns the number of notes in the snapshot.
func (sn *Snapshot) Len() int {
	return len(sn.notes)
}

// Version identifies the write generation this snapshot reflects.
func (sn *Snapshot) Version() uint64 {
	return sn.version
}

// Notes returns the snapshot's notes sorted by path for deterministic
// iteration.
func (sn *Snapshot) Notes() []*Note {
	out := make([]*Note, 0, len(sn.notes))
	for _, n := range sn.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
