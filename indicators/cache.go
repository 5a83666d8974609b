package indicators

import (
	"container/list"
	"sync"
)

// DefaultCacheCapacity is the LRU entry cap when none is configured.
const DefaultCacheCapacity = 100

// Cache memoizes indicator computations keyed by
// indicator|params|data-fingerprint. It is safe for concurrent use and
// collapses concurrent GetOrCompute calls for the same key into exactly one
// computation: late callers block on the in-flight entry instead of
// recomputing.
//
// Construct explicitly and inject; there is no package-level instance.
type Cache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List // front = most recently used
	entries map[string]*list.Element
}

type cacheEntry struct {
	key  string
	done chan struct{} // closed when val is set
	val  any
}

// NewCache creates an LRU cache. Non-positive capacity falls back to
// DefaultCacheCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		cap:     capacity,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// GetOrCompute returns the cached value for key, computing it with compute
// on a miss. If another goroutine is already computing the same key, the
// caller waits for that result rather than duplicating the work.
func (c *Cache) GetOrCompute(key string, compute func() any) any {
	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		e := el.Value.(*cacheEntry)
		c.mu.Unlock()
		<-e.done
		return e.val
	}

	e := &cacheEntry{key: key, done: make(chan struct{})}
	el := c.order.PushFront(e)
	c.entries[key] = el
	c.evictLocked()
	c.mu.Unlock()

	e.val = compute()
	close(e.done)
	return e.val
}

// evictLocked removes least-recently-used completed entries until the cache
// fits its capacity. In-flight entries are never evicted, so the cache may
// briefly exceed capacity under heavy concurrent misses.
func (c *Cache) evictLocked() {
	for len(c.entries) > c.cap {
		var victim *list.Element
		for el := c.order.Back(); el != nil; el = el.Prev() {
			e := el.Value.(*cacheEntry)
			select {
			case <-e.done:
				victim = el
			default:
				continue
			}
			break
		}
		if victim == nil {
			return
		}
		e := victim.Value.(*cacheEntry)
		c.order.Remove(victim)
		delete(c.entries, e.key)
	}
}

// Len reports the number of cached (including in-flight) entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every completed entry. In-flight computations finish normally
// but are forgotten.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = make(map[string]*list.Element)
}
