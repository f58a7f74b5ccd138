package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Song - Artist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Song - Artist", "Map.osu"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Song - Artist", "bg.jpg"), []byte("x"), 0o644))

	return root
}

func TestNewFileMapErrorsOnMissingDir(t *testing.T) {
	_, err := NewFileMap(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGetFileIsCaseInsensitive(t *testing.T) {
	root := buildTree(t)

	fm, err := NewFileMap(root)
	require.NoError(t, err)

	resolved, err := fm.GetFile(filepath.Join(root, "SONG - ARTIST", "MAP.OSU"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Song - Artist", "Map.osu"), resolved)
}

func TestGetFileMissingReturnsErrNotExist(t *testing.T) {
	root := buildTree(t)

	fm, err := NewFileMap(root)
	require.NoError(t, err)

	_, err = fm.GetFile(filepath.Join(root, "nothing.osu"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEntriesListsEveryDiscoveredFile(t *testing.T) {
	root := buildTree(t)

	fm, err := NewFileMap(root)
	require.NoError(t, err)

	entries := fm.Entries()
	assert.GreaterOrEqual(t, len(entries), 2)

	found := map[string]bool{}
	for _, e := range entries {
		found[e] = true
	}

	assert.True(t, found["Song - Artist/Map.osu"])
}
