package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	fs := NewFileStore(path)

	_, err := fs.Get(KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, fs.Set(KeyToken, "abc123"))
	require.NoError(t, fs.Set(KeyUser, `{"id":"u1"}`))

	token, err := fs.Get(KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, fs.Delete(KeyToken))
	_, err = fs.Get(KeyToken)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error.
	require.NoError(t, fs.Delete(KeyToken))

	user, err := fs.Get(KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, user)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	fs := NewFileStore(path)
	require.NoError(t, fs.Set(KeySession, `{"authenticated":true}`))

	reopened := NewFileStore(path)
	value, err := reopened.Get(KeySession)
	require.NoError(t, err)
	assert.Equal(t, `{"authenticated":true}`, value)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	fs := NewFileStore(path)
	_, err := fs.Get(KeyToken)
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ms := NewMemoryStore()

	_, err := ms.Get("missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, ms.Set("k", "v"))
	value, err := ms.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, ms.Delete("k"))
	_, err = ms.Get("k")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
