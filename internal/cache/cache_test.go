package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Cache {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), 16)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestLookupMissReturnsFalse(t *testing.T) {
	c := openTest(t)
	_, ok := c.Lookup("does/not/exist.txt")
	require.False(t, ok)
}

func TestRememberThenLookupHitsLRU(t *testing.T) {
	c := openTest(t)
	entry := Entry{Size: 42, ModTime: 1000, Hash: HashContent([]byte("hello"))}

	require.NoError(t, c.Remember("a.txt", entry))

	got, ok := c.Lookup("a.txt")
	require.True(t, ok)
	require.Equal(t, entry, got)
}

func TestRememberPersistsToBadgerAfterLRUEviction(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"), 1)
	require.NoError(t, err)
	defer c.Close()

	entry := Entry{Size: 1, ModTime: 1, Hash: HashContent([]byte("one"))}
	require.NoError(t, c.Remember("one.txt", entry))

	// evict "one.txt" from the in-process LRU by adding a second key
	require.NoError(t, c.Remember("two.txt", Entry{Size: 2, ModTime: 2, Hash: HashContent([]byte("two"))}))

	got, ok := c.Lookup("one.txt")
	require.True(t, ok, "badger should still have the entry even after LRU eviction")
	require.Equal(t, entry, got)
}

func TestForgetRemovesEntry(t *testing.T) {
	c := openTest(t)
	require.NoError(t, c.Remember("a.txt", Entry{Size: 1, ModTime: 1, Hash: "x"}))

	require.NoError(t, c.Forget("a.txt"))

	_, ok := c.Lookup("a.txt")
	require.False(t, ok)
}

func TestHashContentIsDeterministic(t *testing.T) {
	h1 := HashContent([]byte("same content"))
	h2 := HashContent([]byte("same content"))
	require.Equal(t, h1, h2)

	h3 := HashContent([]byte("different content"))
	require.NotEqual(t, h1, h3)
}

func TestEntryFresh(t *testing.T) {
	e := Entry{Size: 100, ModTime: 500, Hash: "abc"}
	require.True(t, e.Fresh(100, 500))
	require.False(t, e.Fresh(101, 500))
	require.False(t, e.Fresh(100, 501))
}
