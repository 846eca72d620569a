package vault

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher converts raw fsnotify events under the vault root into debounced
// note-file event batches.
type watcher struct {
	root      string
	fsWatcher *fsnotify.Watcher
	debouncer *debouncer
}

func newWatcher(root string, debounce time.Duration) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{
		root:      root,
		fsWatcher: fsw,
		debouncer: newDebouncer(debounce),
	}, nil
}

// Run watches the root recursively until the context is cancelled.
// Discovered subdirectories are added to the watch as they appear.
func (w *watcher) Run(ctx context.Context) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}

// Batches returns debounced note-file event batches.
func (w *watcher) Batches() <-chan []fileEvent {
	return w.debouncer.Output()
}

func (w *watcher) handle(event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		rel = event.Name
	}
	rel = filepath.ToSlash(rel)

	if isIgnoredPath(rel) {
		return
	}

	// New directories join the watch so notes created inside them are seen.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}

	if !IsNotePath(rel) {
		return
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		w.debouncer.add(fileEvent{path: rel, op: opCreate})
	case event.Op.Has(fsnotify.Write):
		w.debouncer.add(fileEvent{path: rel, op: opModify})
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.debouncer.add(fileEvent{path: rel, op: opDelete})
	}
}

// addRecursive watches dir and every non-hidden subdirectory beneath it.
func (w *watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != dir && (strings.HasPrefix(name, ".") || name == DataDirName) {
			return filepath.SkipDir
		}
		if err := w.fsWatcher.Add(path); err != nil {
			slog.Warn("cannot watch directory", slog.String("path", path), slog.String("error", err.Error()))
		}
		return nil
	})
}

func (w *watcher) close() {
	_ = w.fsWatcher.Close()
	w.debouncer.stop()
}

// isIgnoredPath reports whether the relative path is hidden or inside the
// vault data directory.
func isIgnoredPath(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") || part == DataDirName {
			return true
		}
	}
	return false
}
