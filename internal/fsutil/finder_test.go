package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	for _, name := range []string{"b.hcl", "a.yaml", "nested/c.hcl", "readme.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	files, err := FindFilesByExtension(root, ".hcl", ".yaml")

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.hcl"),
	}, files)
}

func TestResolve(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "jar.hcl"), nil, 0o644))

	path, err := Resolve("jar.hcl", []string{first, second})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(second, "jar.hcl"), path)

	_, err = Resolve("rss.hcl", []string{first, second})
	require.ErrorIs(t, err, ErrNotFound)

	abs := filepath.Join(second, "jar.hcl")
	path, err = Resolve(abs, []string{first})
	require.NoError(t, err)
	assert.Equal(t, abs, path)
}
