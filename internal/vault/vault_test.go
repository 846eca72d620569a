package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedex/notedex/internal/config"
	nerrors "github.com/notedex/notedex/internal/errors"
	"github.com/notedex/notedex/internal/index"
)

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Vault.Dir = dir
	return cfg
}

func openVault(t *testing.T, dir string) *Vault {
	t.Helper()
	v, err := Open(testConfig(dir))
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

func TestOpen_MissingDirectory_VaultInvalid(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "nope"))

	_, err := Open(cfg)

	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeVaultInvalid, nerrors.GetCode(err))
}

func TestOpen_PathIsFile_VaultInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := Open(testConfig(file))

	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeVaultInvalid, nerrors.GetCode(err))
}

func TestOpen_SecondOpen_VaultLocked(t *testing.T) {
	// Given: an open vault holding the lock
	dir := t.TempDir()
	openVault(t, dir)

	// When: a second open on the same directory
	_, err := Open(testConfig(dir))

	// Then: the lock is reported, not silently shared
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeVaultLocked, nerrors.GetCode(err))
}

func TestClose_ReleasesLockForReopen(t *testing.T) {
	dir := t.TempDir()
	v, err := Open(testConfig(dir))
	require.NoError(t, err)
	require.NoError(t, v.Close())

	v2, err := Open(testConfig(dir))
	require.NoError(t, err)
	_ = v2.Close()
}

func TestRescan_IndexesNotesOnDisk(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tasks.md", "# Tasks\n\n## Urgent\n\ndentist appointment\n")
	writeFile(t, dir, "daily/wine.md", "# Wine\n\nchilean cabernet\n")
	v := openVault(t, dir)

	require.NoError(t, v.Rescan(context.Background()))

	assert.Equal(t, 2, v.Store().Len())
	assert.Equal(t, index.StateReady, v.Progress().State)
}

func TestRescan_DeletedFile_DroppedFromIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.md", "keep")
	writeFile(t, dir, "gone.md", "gone")
	v := openVault(t, dir)
	require.NoError(t, v.Rescan(context.Background()))
	require.Equal(t, 2, v.Store().Len())

	require.NoError(t, os.Remove(filepath.Join(dir, "gone.md")))
	require.NoError(t, v.Rescan(context.Background()))

	assert.Equal(t, []string{"keep.md"}, v.Store().Paths())
}

func TestSearch_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tasks.md", "# Tasks\n\n## Urgent\n\npay the bill\n")
	writeFile(t, dir, "personal-thoughts.md", "# Personal Thoughts\n\n## Entry\n\nred wine\n")
	v := openVault(t, dir)
	require.NoError(t, v.Rescan(context.Background()))

	results := v.Search("@thoughts wine")

	require.Len(t, results, 1)
	assert.Equal(t, "personal-thoughts.md", results[0].Note.Path)
}

func TestSearch_CapsAtMaxResults(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		writeFile(t, dir, name, "# N\n\ncommon\n")
	}
	cfg := testConfig(dir)
	cfg.Search.MaxResults = 2
	v, err := Open(cfg)
	require.NoError(t, err)
	defer func() { _ = v.Close() }()
	require.NoError(t, v.Rescan(context.Background()))

	results := v.Search("common")

	assert.Len(t, results, 2)
}

func TestApplyFileEvent_CreateModifyDelete(t *testing.T) {
	dir := t.TempDir()
	v := openVault(t, dir)
	require.NoError(t, v.Rescan(context.Background()))

	// Create
	writeFile(t, dir, "new.md", "# New\n\nfresh words\n")
	v.applyFileEvent(fileEvent{path: "new.md", op: opCreate})
	assert.Equal(t, 1, v.Store().Len())

	// Modify
	writeFile(t, dir, "new.md", "# New\n\nreplacement\n")
	v.applyFileEvent(fileEvent{path: "new.md", op: opModify})
	n, ok := v.Store().Snapshot().Get("new.md")
	require.True(t, ok)
	assert.True(t, n.HasWord("replacement"))
	assert.False(t, n.HasWord("fresh"))

	// Delete
	require.NoError(t, os.Remove(filepath.Join(dir, "new.md")))
	v.applyFileEvent(fileEvent{path: "new.md", op: opDelete})
	assert.Equal(t, 0, v.Store().Len())
}

func TestApplyFileEvent_VanishedFile_Ignored(t *testing.T) {
	dir := t.TempDir()
	v := openVault(t, dir)

	v.applyFileEvent(fileEvent{path: "ghost.md", op: opModify})

	assert.Equal(t, 0, v.Store().Len())
}
