package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store := Open(path, nil)
	require.NoError(t, store.Save(KeyCart, []entry{{Name: "ring", Quantity: 2}}))

	reloaded := Open(path, nil)
	var lines []entry
	require.True(t, reloaded.Load(KeyCart, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "ring", lines[0].Name)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestStoreMissingFileStartsEmpty(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "absent.json"), nil)
	var lines []entry
	assert.False(t, store.Load(KeyCart, &lines))
	assert.Empty(t, lines)
}

func TestStoreCorruptedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := Open(path, nil)
	var lines []entry
	assert.False(t, store.Load(KeyCart, &lines))
}

func TestStoreMalformedEntryDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cart": "not-a-list"}`), 0o644))

	store := Open(path, nil)
	var lines []entry
	assert.False(t, store.Load(KeyCart, &lines))

	// The store stays usable after hitting the malformed entry.
	require.NoError(t, store.Save(KeyCart, []entry{{Name: "kada", Quantity: 1}}))
	require.True(t, store.Load(KeyCart, &lines))
	assert.Len(t, lines, 1)
}

func TestStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := Open(path, nil)
	require.NoError(t, store.Save(KeyWishlist, []entry{{Name: "studs"}}))
	require.NoError(t, store.Delete(KeyWishlist))

	var entries []entry
	assert.False(t, Open(path, nil).Load(KeyWishlist, &entries))
}
