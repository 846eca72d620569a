package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIsNotePath(t *testing.T) {
	assert.True(t, IsNotePath("a.md"))
	assert.True(t, IsNotePath("dir/b.MD"))
	assert.True(t, IsNotePath("c.markdown"))
	assert.False(t, IsNotePath("d.txt"))
	assert.False(t, IsNotePath("e"))
}

func TestScan_CollectsNotesRecursively(t *testing.T) {
	// Given: notes in nested directories plus a non-note file
	root := t.TempDir()
	writeFile(t, root, "tasks.md", "# Tasks")
	writeFile(t, root, "daily/today.md", "# Today")
	writeFile(t, root, "daily/notes.txt", "not a note")

	// When: scanning
	s := NewScanner(root, 1024)
	inputs, err := s.Scan(context.Background())

	// Then: only note files, with slash-relative paths
	require.NoError(t, err)
	var got []string
	for _, in := range inputs {
		got = append(got, in.Path)
	}
	assert.ElementsMatch(t, []string{"tasks.md", "daily/today.md"}, got)
}

func TestScan_SkipsHiddenAndDataDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "visible.md", "x")
	writeFile(t, root, ".obsidian/theme.md", "x")
	writeFile(t, root, DataDirName+"/internal.md", "x")
	writeFile(t, root, ".hidden.md", "x")

	s := NewScanner(root, 1024)
	inputs, err := s.Scan(context.Background())

	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "visible.md", inputs[0].Path)
}

func TestScan_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.md", "tiny")
	big := make([]byte, 2*1024)
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.md"), big, 0o644))

	s := NewScanner(root, 1) // 1 KB limit
	inputs, err := s.Scan(context.Background())

	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "small.md", inputs[0].Path)
}

func TestScan_CancelledContext_Aborts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.md", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(root, 1024).Scan(ctx)

	assert.Error(t, err)
}

func TestReadNote_ReturnsContentAndModTime(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "daily/today.md", "# Today\n\nplans\n")

	in, err := NewScanner(root, 1024).ReadNote("daily/today.md")

	require.NoError(t, err)
	assert.Equal(t, "daily/today.md", in.Path)
	assert.Contains(t, string(in.Content), "plans")
	assert.False(t, in.ModTime.IsZero())
}

func TestReadNote_Missing_Error(t *testing.T) {
	_, err := NewScanner(t.TempDir(), 1024).ReadNote("ghost.md")

	assert.Error(t, err)
}

func TestReadNote_Oversized_Error(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.md"), make([]byte, 2048), 0o644))

	_, err := NewScanner(root, 1).ReadNote("big.md")

	assert.Error(t, err)
}
