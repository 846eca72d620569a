// Package vault ties the filesystem to the in-memory note index. It scans
// a directory of Markdown notes, holds an exclusive lock on the vault,
// reacts to file changes, and answers structured queries.
package vault

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/notedex/notedex/internal/config"
	nerrors "github.com/notedex/notedex/internal/errors"
	"github.com/notedex/notedex/internal/index"
	"github.com/notedex/notedex/internal/search"
	"github.com/notedex/notedex/internal/store"
)

// Vault is a directory of Markdown notes with a live in-memory index.
type Vault struct {
	root    string
	cfg     *config.Config
	lock    *vaultLock
	store   *store.Store
	indexer *index.Indexer
	engine  *search.Engine
	scanner *Scanner
}

// Open validates the vault directory, acquires the vault lock and wires
// the store, indexer and search engine. It does not scan; call Rescan.
func Open(cfg *config.Config) (*Vault, error) {
	root := cfg.Vault.Dir
	info, err := os.Stat(root)
	if err != nil {
		return nil, nerrors.New(nerrors.ErrCodeVaultInvalid,
			"vault directory does not exist", err).WithDetail("dir", root)
	}
	if !info.IsDir() {
		return nil, nerrors.New(nerrors.ErrCodeVaultInvalid,
			"vault path is not a directory", nil).WithDetail("dir", root)
	}

	lock, err := acquireLock(root)
	if err != nil {
		return nil, err
	}

	st := store.New()
	v := &Vault{
		root:    root,
		cfg:     cfg,
		lock:    lock,
		store:   st,
		indexer: index.New(st),
		engine:  search.NewEngine(st, cfg.Search.CacheSize),
		scanner: NewScanner(root, cfg.Vault.MaxFileSizeKB),
	}
	slog.Info("vault opened", slog.String("dir", root))
	return v, nil
}

// Root returns the vault directory.
func (v *Vault) Root() string { return v.root }

// Store exposes the underlying note store for snapshot access.
func (v *Vault) Store() *store.Store { return v.store }

// Rescan walks the vault and rebuilds the index from what is on disk.
// Notes no longer present are dropped from the index.
func (v *Vault) Rescan(ctx context.Context) error {
	started := time.Now()
	inputs, err := v.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	if err := v.indexer.Reindex(ctx, inputs); err != nil {
		return err
	}
	slog.Info("vault rescan complete",
		slog.Int("notes", len(inputs)),
		slog.Duration("elapsed", time.Since(started)))
	return nil
}

// Watch blocks, applying filesystem changes to the index until the
// context is cancelled.
func (v *Vault) Watch(ctx context.Context) error {
	w, err := newWatcher(v.root, v.cfg.Vault.WatchDebounce)
	if err != nil {
		return nerrors.New(nerrors.ErrCodeVaultInvalid, "cannot start watcher", err)
	}

	go func() {
		for batch := range w.Batches() {
			for _, ev := range batch {
				v.applyFileEvent(ev)
			}
		}
	}()

	err = w.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}

// applyFileEvent reads the changed file and feeds it to the indexer.
func (v *Vault) applyFileEvent(ev fileEvent) {
	switch ev.op {
	case opDelete:
		v.indexer.Apply(index.NoteEvent{Path: ev.path, Kind: index.Removed})
	case opCreate, opModify:
		input, err := v.scanner.ReadNote(ev.path)
		if err != nil {
			// The file may have vanished between the event and the read.
			slog.Debug("skipping changed note",
				slog.String("path", ev.path), slog.String("error", err.Error()))
			return
		}
		kind := index.Changed
		if ev.op == opCreate {
			kind = index.Added
		}
		v.indexer.Apply(index.NoteEvent{
			Path:    input.Path,
			Kind:    kind,
			Content: input.Content,
			ModTime: input.ModTime,
		})
	}
}

// Search runs a structured query and caps the results at the configured
// maximum.
func (v *Vault) Search(q string) []search.Result {
	results := v.engine.Search(q)
	if max := v.cfg.Search.MaxResults; len(results) > max {
		results = results[:max]
	}
	return results
}

// Progress reports the state of any running scan.
func (v *Vault) Progress() index.ProgressSnapshot {
	return v.indexer.Progress().Snapshot()
}

// Close releases the vault lock.
func (v *Vault) Close() error {
	return v.lock.release()
}
