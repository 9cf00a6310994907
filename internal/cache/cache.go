// Package cache keeps analysis reports on disk, keyed by a content digest of
// everything that can change them.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the payload format changes
const schemaVersion uint16 = 1

// Cache хранит отчёты анализа по Digest на диске.
// Safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type envelope struct {
	Schema  uint16 `msgpack:"schema"`
	Payload []byte `msgpack:"payload"`
}

// Open returns the cache under $XDG_CACHE_HOME/<app> (or ~/.cache/<app>).
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDir(filepath.Join(base, app))
}

// OpenDir returns a cache rooted at dir, creating it if needed.
func OpenDir(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir reports where entries are stored.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key Digest) string {
	// подкаталог "reports", чтобы было проще чистить
	return filepath.Join(c.dir, "reports", key.String()+".mp")
}

// Put serializes v and stores it under key, replacing any previous entry.
func (c *Cache) Put(key Digest, v any) error {
	if c == nil {
		return nil
	}
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := msgpack.NewEncoder(f).Encode(&envelope{Schema: schemaVersion, Payload: payload}); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get decodes the entry stored under key into out. A missing entry or one
// written with another schema is a miss, not an error.
func (c *Cache) Get(key Digest, out any) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var env envelope
	if err := msgpack.NewDecoder(f).Decode(&env); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if env.Schema != schemaVersion {
		return false, nil
	}
	if err := msgpack.Unmarshal(env.Payload, out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return true, nil
}

// Clear removes every stored entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "reports"))
}
