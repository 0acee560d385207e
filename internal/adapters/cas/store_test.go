package cas_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cppm/internal/adapters/cas"
	"go.trai.ch/cppm/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()

	info := domain.BuildInfo{
		Source:        "/src/A.ixx",
		Command:       `"clang++" -c "/src/A.ixx"`,
		InterfaceHash: "10181a6ede8547ca",
		ImportHashes:  map[string]string{"base": "0000000000000001"},
		// Truncate because JSON round trips drop the monotonic clock.
		Timestamp: time.Now().Truncate(time.Second).UTC(),
	}

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(root, info))

		got, err := store.Get(root, "/src/A.ixx")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, info, *got)
	})

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, store.Put(root, info))

		got, err := store.Get(root, "/SRC/a.IXX")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, info.InterfaceHash, got.InterfaceHash)
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(root, "/src/missing.cpp")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestStore_GetCorrupt(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := cas.NewStore()
	require.NoError(t, store.Put(root, domain.BuildInfo{Source: "/src/B.ixx"}))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	//nolint:gosec // test fixture
	require.NoError(t, os.WriteFile(filepath.Join(root, entries[0].Name()), []byte("{ invalid json"), 0o600))

	_, err = store.Get(root, "/src/B.ixx")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreUnmarshalFailed.Error())
}
