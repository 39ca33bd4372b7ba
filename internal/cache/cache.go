// Package cache is the advisory diagnostics cache status/doctor consult
// before re-hashing a managed file's content. It is a two-tier lookup —
// an in-process LRU in front of a badger-backed table — the same shape
// as a content-addressed store, just keyed by path instead of hash and
// carrying no authority: a miss or staleness always falls back to
// reading the real file, and deleting the cache file loses nothing a
// caller couldn't recompute.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Entry is what the cache remembers about one managed path. BaselineHash,
// Insertions, and Deletions let an overlay's last-computed diff stats be
// reused outright on a cache hit, rather than only skipping the hash.
type Entry struct {
	Size         int64  `json:"size"`
	ModTime      int64  `json:"mod_time"`
	Hash         string `json:"hash"`
	BaselineHash string `json:"baseline_hash,omitempty"`
	Insertions   int    `json:"insertions,omitempty"`
	Deletions    int    `json:"deletions,omitempty"`
}

// Cache is a disposable, path-keyed lookup of (size, mtime, hash).
type Cache struct {
	db    *badger.DB
	inmem *lru.Cache[string, Entry]
}

// Open opens (creating if absent) the badger store at dir and wraps it
// with an in-process LRU front of the given size.
func Open(dir string, lruSize int) (*Cache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening diagnostics cache: %w", err)
	}

	inmem, err := lru.New[string, Entry](lruSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	return &Cache{db: db, inmem: inmem}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func key(path string) []byte {
	return []byte("path:" + path)
}

// Lookup returns the remembered entry for path, if any.
func (c *Cache) Lookup(path string) (Entry, bool) {
	if e, ok := c.inmem.Get(path); ok {
		return e, true
	}

	var entry Entry
	found := false
	_ = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(path))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &entry); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if found {
		c.inmem.Add(path, entry)
	}
	return entry, found
}

// Remember records an entry for path, overwriting any prior one.
func (c *Cache) Remember(path string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(path), data)
	}); err != nil {
		return err
	}
	c.inmem.Add(path, entry)
	return nil
}

// Forget drops any cached entry for path.
func (c *Cache) Forget(path string) error {
	c.inmem.Remove(path)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(path))
	})
}

// HashContent returns the hex-encoded sha256 of content, the primitive
// status and doctor hash file content with for their cache entries.
func HashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether a cached entry still matches the file's current
// size and modification time, meaning its stored hash can be trusted
// without rereading the file.
func (e Entry) Fresh(size, modTime int64) bool {
	return e.Size == size && e.ModTime == modTime
}
