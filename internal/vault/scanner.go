// Package vault is the filesystem-facing collaborator around the indexing
// core: it discovers note files, watches for changes, and feeds note-change
// events into the indexer. The core itself never touches the filesystem.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/notedex/notedex/internal/index"
)

// DataDirName is the vault-local directory holding notedex state (lock
// file). It is never indexed.
const DataDirName = ".notedex"

// noteExtensions lists the file extensions treated as notes.
var noteExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
}

// IsNotePath reports whether the path looks like a note file.
func IsNotePath(path string) bool {
	return noteExtensions[strings.ToLower(filepath.Ext(path))]
}

// Scanner discovers note files under a root directory.
type Scanner struct {
	root        string
	maxFileSize int64
}

// NewScanner creates a scanner for the given root. maxFileSizeKB bounds
// the size of note files to read; larger files are skipped with a warning.
func NewScanner(root string, maxFileSizeKB int) *Scanner {
	return &Scanner{root: root, maxFileSize: int64(maxFileSizeKB) * 1024}
}

// Scan walks the root collecting every note file into rescan inputs.
// Hidden directories and the vault data directory are skipped. Unreadable
// files are skipped, not fatal: per-note failures never abort a scan.
func (s *Scanner) Scan(ctx context.Context) ([]index.Input, error) {
	var inputs []index.Input

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("scan entry failed", slog.String("path", path), slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != s.root && (strings.HasPrefix(name, ".") || name == DataDirName) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !IsNotePath(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			slog.Warn("stat failed", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}
		if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
			slog.Warn("note exceeds size limit, skipping",
				slog.String("path", path), slog.Int64("size", info.Size()))
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("read failed", slog.String("path", path), slog.String("error", err.Error()))
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}

		inputs = append(inputs, index.Input{
			Path:    filepath.ToSlash(rel),
			Content: content,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// ReadNote reads one note by vault-relative path, applying the same size
// limit as a full scan.
func (s *Scanner) ReadNote(rel string) (index.Input, error) {
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if err != nil {
		return index.Input{}, err
	}
	if s.maxFileSize > 0 && info.Size() > s.maxFileSize {
		return index.Input{}, fmt.Errorf("note exceeds size limit: %d bytes", info.Size())
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return index.Input{}, err
	}
	return index.Input{Path: rel, Content: content, ModTime: info.ModTime()}, nil
}
