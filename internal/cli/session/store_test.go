package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/shiptrack-go/internal/telemetry/logger"
)

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, store Store) {
	t.Helper()

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token, "fresh store should be empty")

	require.NoError(t, store.Delete(), "delete on empty store")

	require.NoError(t, store.Save("abc"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Save("xyz"))
	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	require.NoError(t, store.Delete())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	storeContract(t, NewFileStore(path))
}

func TestFileStore_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	store := NewFileStore(path)

	require.NoError(t, store.Save("secret-token"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStore_SurvivesNewInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, NewFileStore(path).Save("tok123"))

	m := NewManager(NewFileStore(path))
	token, ok := m.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok123", token)
}

func TestFileStore_DefaultPath(t *testing.T) {
	store := NewFileStore("")
	assert.Equal(t, filepath.Join(".shiptrack", "session"), filepath.Join(filepath.Base(filepath.Dir(store.Path())), filepath.Base(store.Path())))
}

func TestBadgerStore(t *testing.T) {
	store, err := OpenBadgerStore(t.TempDir(), logger.Discard())
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestBadgerStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(dir, logger.Discard())
	require.NoError(t, err)
	require.NoError(t, store.Save("persisted"))
	require.NoError(t, store.Close())

	store, err = OpenBadgerStore(dir, logger.Discard())
	require.NoError(t, err)
	defer store.Close()

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}
