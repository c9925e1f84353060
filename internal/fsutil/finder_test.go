package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("# test"), 0o644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.hcl", "nested/b.hcl", "c.txt")

	files, err := FindFilesByExtension(root, ".hcl")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "a.hcl"),
		filepath.Join(root, "nested", "b.hcl"),
	}, files)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root, "") })
}

func TestFindAll(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	writeFiles(t, root, "models/a.hcl", "models/b.hcl", "fits/c.hcl", "notes.md")
	single := filepath.Join(root, "models", "a.hcl")

	// --- Act ---
	files, err := FindAll([]string{
		filepath.Join(root, "models"),
		single,
		filepath.Join(root, "missing"),
		filepath.Join(root, "notes.md"),
		filepath.Join(root, "fits"),
	}, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.Len(t, files, 3)
	assert.ElementsMatch(t, []string{
		single,
		filepath.Join(root, "models", "b.hcl"),
		filepath.Join(root, "fits", "c.hcl"),
	}, files)
}
