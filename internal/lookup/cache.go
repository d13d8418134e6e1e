package lookup

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a lookup result is reused.
const DefaultCacheTTL = 5 * time.Minute

// cachedEntry stores one lookup result.
type cachedEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// Cache memoizes object and document lookups for a TTL. Concurrent misses
// for the same key share one upstream call. Failures are not cached.
type Cache struct {
	objects ObjectService
	docs    DocumentService
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedEntry
	group   singleflight.Group
}

// NewCache wraps objects and docs. A non-positive ttl uses DefaultCacheTTL.
func NewCache(objects ObjectService, docs DocumentService, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		objects: objects,
		docs:    docs,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedEntry),
	}
}

// ByID implements ObjectService.
func (c *Cache) ByID(ctx context.Context, id string) (ObjectDetail, error) {
	v, err := c.do(ctx, "id:"+id, func(ctx context.Context) (interface{}, error) {
		return c.objects.ByID(ctx, id)
	})
	if err != nil {
		return ObjectDetail{}, err
	}
	return v.(ObjectDetail), nil
}

// ByName implements ObjectService.
func (c *Cache) ByName(ctx context.Context, name string) (ObjectDetail, error) {
	v, err := c.do(ctx, "name:"+name, func(ctx context.Context) (interface{}, error) {
		return c.objects.ByName(ctx, name)
	})
	if err != nil {
		return ObjectDetail{}, err
	}
	return v.(ObjectDetail), nil
}

// Document implements DocumentService.
func (c *Cache) Document(ctx context.Context, ref string) (Document, error) {
	v, err := c.do(ctx, "doc:"+ref, func(ctx context.Context) (interface{}, error) {
		return c.docs.Document(ctx, ref)
	})
	if err != nil {
		return Document{}, err
	}
	return v.(Document), nil
}

// Len returns the number of cached entries, including expired ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) do(ctx context.Context, key string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.value, nil
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && c.now().Sub(e.fetchedAt) < c.ttl {
			return e.value, nil
		}

		// Shared by every waiter, so one caller's cancellation must not abort it.
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = cachedEntry{value: v, fetchedAt: c.now()}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.Val, r.Err
	}
}
