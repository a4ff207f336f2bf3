package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"main.dzl", "notes.txt", "billing/core.dzl", "billing/deep/tax.dzl"} {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o644))
	}

	files, err := FindFilesByExtension(dir, ".dzl")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "billing", "core.dzl"),
		filepath.Join(dir, "billing", "deep", "tax.dzl"),
		filepath.Join(dir, "main.dzl"),
	}, files)
}

func TestFindFilesByExtension_NoMatches(t *testing.T) {
	files, err := FindFilesByExtension(t.TempDir(), ".dzl")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".dzl")
	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(".", "")
	})
}
