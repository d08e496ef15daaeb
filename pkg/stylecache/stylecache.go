// Package stylecache memoizes library style imports for the duration of a
// run.
//
// The first [Cache.Get] for a key imports the style through an [Importer];
// later calls return the stored handle. Concurrent first calls for the same
// key share a single import. Failed imports are not stored, so a later call
// retries. Nothing is persisted.
package stylecache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/avatarshuffle/pkg/observability"
)

// Handle is a resolved style as seen by the host: the id to assign to a
// node's fill style.
type Handle struct {
	Key string
	ID  string
}

// Importer resolves a library style key into a host style.
type Importer interface {
	ImportStyle(ctx context.Context, key string) (Handle, error)
}

// ImporterFunc adapts a function to Importer.
type ImporterFunc func(ctx context.Context, key string) (Handle, error)

// ImportStyle calls f.
func (f ImporterFunc) ImportStyle(ctx context.Context, key string) (Handle, error) {
	return f(ctx, key)
}

const keyType = "style"

// Cache is a run-scoped memo of imported styles.
type Cache struct {
	importer Importer
	group    singleflight.Group

	mu      sync.RWMutex
	handles map[string]Handle
}

// New creates an empty cache over importer.
func New(importer Importer) *Cache {
	return &Cache{importer: importer, handles: make(map[string]Handle)}
}

// Get returns the style handle for key, importing it on first use.
func (c *Cache) Get(ctx context.Context, key string) (Handle, error) {
	if h, ok := c.lookup(key); ok {
		observability.Cache().OnCacheHit(ctx, keyType)
		return h, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	v, err, _ := c.group.Do(key, func() (any, error) {
		if h, ok := c.lookup(key); ok {
			return h, nil
		}
		h, err := c.importer.ImportStyle(ctx, key)
		if err != nil {
			return Handle{}, err
		}
		c.mu.Lock()
		c.handles[key] = h
		c.mu.Unlock()
		observability.Cache().OnCacheSet(ctx, keyType, 1)
		return h, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return v.(Handle), nil
}

func (c *Cache) lookup(key string) (Handle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.handles[key]
	return h, ok
}

// Len returns the number of stored handles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handles)
}
