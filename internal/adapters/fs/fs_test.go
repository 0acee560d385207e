package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/fs"
	"go.trai.ch/cppm/internal/core/domain"
)

// goldenInterfaceHash is the XXHash of the fixed artifact content below.
// If this changes, every recorded interface hash becomes stale.
const goldenInterfaceHash = "10181a6ede8547ca"

func TestHasher_ComputeFileHash_Golden(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.pcm")
	require.NoError(t, os.WriteFile(path, []byte("export module A;\nexport int answer();\n"), domain.FilePerm))

	hash, err := fs.NewHasher().ComputeFileHash(path)
	require.NoError(t, err)
	assert.Equal(t, goldenInterfaceHash, hash)
}

func TestHasher_ComputeFileHash(t *testing.T) {
	t.Parallel()

	t.Run("content change", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "b.pcm")
		hasher := fs.NewHasher()

		require.NoError(t, os.WriteFile(path, []byte("one"), domain.FilePerm))
		first, err := hasher.ComputeFileHash(path)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(path, []byte("two"), domain.FilePerm))
		second, err := hasher.ComputeFileHash(path)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rewrite with identical bytes", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "c.pcm")
		hasher := fs.NewHasher()

		require.NoError(t, os.WriteFile(path, []byte("same"), domain.FilePerm))
		first, err := hasher.ComputeFileHash(path)
		require.NoError(t, err)

		later := time.Now().Add(time.Hour)
		require.NoError(t, os.WriteFile(path, []byte("same"), domain.FilePerm))
		require.NoError(t, os.Chtimes(path, later, later))
		second, err := hasher.ComputeFileHash(path)
		require.NoError(t, err)

		assert.Equal(t, first, second, "timestamps must not affect content hashes")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := fs.NewHasher().ComputeFileHash(filepath.Join(t.TempDir(), "missing.pcm"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrFileOpenFailed.Error())
	})
}

func TestOS_ModTimeAndTouch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.o")
	osfs := fs.NewOS()

	_, ok, err := osfs.ModTime(path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("obj"), domain.FilePerm))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	before, ok, err := osfs.ModTime(path)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, osfs.Touch(path))

	after, ok, err := osfs.ModTime(path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, after.After(before))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "obj", string(content), "touch must not rewrite content")
}

func TestOS_TouchMissing(t *testing.T) {
	t.Parallel()

	err := fs.NewOS().Touch(filepath.Join(t.TempDir(), "missing.o"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTouchFailed.Error())
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "map.json")
	require.NoError(t, fs.WriteFileAtomic(path, []byte(`{"a":1}`)))
	require.NoError(t, fs.WriteFileAtomic(path, []byte(`{"a":2}`)))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestOS_ReadWriteRemove(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "int")
	path := filepath.Join(dir, "pp", "pp_commands.json")
	osfs := fs.NewOS()

	data, ok, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	require.NoError(t, osfs.WriteFile(path, []byte("[]")))
	data, ok, err = osfs.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(data))

	require.NoError(t, osfs.RemoveAll(dir))
	require.NoError(t, osfs.RemoveAll(dir), "removing a missing path succeeds")
	_, ok, err = osfs.ModTime(path)
	require.NoError(t, err)
	assert.False(t, ok)
}
