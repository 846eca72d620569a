package index

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/notedex/notedex/internal/errors"
	"github.com/notedex/notedex/internal/store"
)

// EventKind classifies a note-change event.
type EventKind int

const (
	// Added indicates a previously-unseen note path.
	Added EventKind = iota
	// Changed indicates new content for an indexed path.
	Changed
	// Removed indicates the path is gone; Content is ignored.
	Removed
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// NoteEvent is one note-change notification from the event source. The
// indexer never reads the filesystem itself; content arrives here.
type NoteEvent struct {
	Path    string
	Kind    EventKind
	Content []byte
	ModTime time.Time
}

// Input is one (path, content) pair supplied to a full rescan.
type Input struct {
	Path    string
	Content []byte
	ModTime time.Time
}

// Indexer is the single-writer ingestion pipeline: events are processed
// one at a time, each producing one atomic upsert or remove. Readers query
// store snapshots and are never blocked by the writer.
type Indexer struct {
	store    *store.Store
	progress *Progress

	// writeMu serializes Apply and Reindex so interleaved upserts for the
	// same path cannot occur even with multiple ingestion sources.
	writeMu sync.Mutex
}

// New creates an indexer writing into the given store.
func New(st *store.Store) *Indexer {
	return &Indexer{
		store:    st,
		progress: NewProgress(),
	}
}

// Progress returns the indexing progress tracker.
func (ix *Indexer) Progress() *Progress {
	return ix.progress
}

// Run consumes note events until the context is cancelled or the channel
// closes. A failure on one note never aborts processing of later events.
func (ix *Indexer) Run(ctx context.Context, events <-chan NoteEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			ix.Apply(ev)
		}
	}
}

// Apply processes one note-change event atomically.
func (ix *Indexer) Apply(ev NoteEvent) {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()
	ix.apply(ev)
}

func (ix *Indexer) apply(ev NoteEvent) {
	defer func() {
		if r := recover(); r != nil {
			if errors.Strict() {
				panic(r)
			}
			slog.Error("note ingestion failed",
				slog.String("path", ev.Path),
				slog.Any("panic", r))
		}
	}()

	switch ev.Kind {
	case Removed:
		if ix.store.Remove(ev.Path) {
			slog.Debug("note removed", slog.String("path", ev.Path))
		}
	default:
		note := ix.build(ev.Path, ev.Content, ev.ModTime)
		ix.store.Upsert(note)
		slog.Debug("note indexed",
			slog.String("path", ev.Path),
			slog.String("kind", ev.Kind.String()))
	}
}

// build parses content into a note. Content that does not decode as text
// is indexed as an empty body with the stem as title, never as a fatal
// error.
func (ix *Indexer) build(path string, content []byte, modTime time.Time) *store.Note {
	if !utf8.Valid(content) {
		err := errors.NoteError("content is not valid UTF-8", nil).WithDetail("path", path)
		slog.Warn("indexing note as empty", slog.String("path", path), slog.String("code", err.Code))
		return store.NewEmptyNote(path, modTime)
	}
	return store.NewNote(path, content, modTime)
}

// Reindex rebuilds the index from a full set of inputs. Paths currently
// indexed but absent from inputs are removed. Parsing fans out across
// CPUs; installation stays serialized on the writer, so queries see a
// progressively more up-to-date index, never a torn one. Cancellation
// between note-level steps leaves the store consistent.
func (ix *Indexer) Reindex(ctx context.Context, inputs []Input) error {
	ix.writeMu.Lock()
	defer ix.writeMu.Unlock()

	run := uuid.NewString()
	slog.Info("rescan started", slog.String("run", run), slog.Int("notes", len(inputs)))
	ix.progress.BeginScan(len(inputs))

	notes := make([]*store.Note, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in := inputs[i]
			notes[i] = ix.build(in.Path, in.Content, in.ModTime)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		ix.progress.SetError(err.Error())
		slog.Warn("rescan abandoned", slog.String("run", run), slog.String("error", err.Error()))
		return err
	}

	seen := make(map[string]struct{}, len(inputs))
	for _, n := range notes {
		if err := ctx.Err(); err != nil {
			ix.progress.SetError(err.Error())
			return err
		}
		ix.store.Upsert(n)
		seen[n.Path] = struct{}{}
		ix.progress.NoteDone()
	}

	// Implicit removes for paths no longer present.
	for _, p := range ix.store.Paths() {
		if _, ok := seen[p]; !ok {
			ix.store.Remove(p)
		}
	}

	ix.progress.SetReady()
	slog.Info("rescan complete", slog.String("run", run), slog.Int("notes", len(inputs)))
	return nil
}
