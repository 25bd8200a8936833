// Package cache is a keyed in-memory cache of server responses. Entries live
// until explicitly invalidated; a mutation invalidates its resource collection
// after the server acknowledges success, which is the only consistency
// mechanism the client has.
package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/taskdeck/taskdeck/internal/api"
)

// Resource identifies a cached server collection.
type Resource string

const (
	ResourceTasks        Resource = "tasks"
	ResourceUsers        Resource = "users"
	ResourceManagedUsers Resource = "users/managed"
)

// Key addresses a cache entry: a whole collection, or a single entity when ID
// is set.
type Key struct {
	Resource Resource
	ID       string
}

// Collection returns the key for a whole resource collection.
func Collection(r Resource) Key {
	return Key{Resource: r}
}

// Cache stores decoded responses keyed by Key. Writes only happen from the
// event loop's completion handlers, the mutex just keeps command-line call
// sites safe too.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]any
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[Key]any)}
}

// Options control how Fetch treats failures.
type Options struct {
	// EmptyOnUnauthenticated makes a 401 produce the zero value instead of an
	// error, for queries where "not logged in" simply means "no data".
	EmptyOnUnauthenticated bool
}

// Fetch returns the cached value for key, or runs load and caches its result.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error), opts ...Options) (T, error) {
	if v, ok := c.get(key); ok {
		return v.(T), nil
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, api.ErrUnauthenticated) && len(opts) > 0 && opts[0].EmptyOnUnauthenticated {
			return zero, nil
		}
		return zero, err
	}

	c.set(key, v)
	return v, nil
}

// Invalidate discards the entry for key, if any.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidateResource discards every entry of the given resource, collection
// and single entities alike, so subsequent reads refetch.
func (c *Cache) InvalidateResource(r Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Resource == r {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache) set(key Key, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}
