// Package cache provides the compiled-statement cache. Statement trees
// hash to a structural key that excludes literal values, so repeated
// executions of the same statement shape reuse one compiled form.
package cache

import (
	"container/list"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tidesql/tidesql/src/compile"
	"github.com/tidesql/tidesql/src/stmt"
)

// DefaultCapacity is used when a cache is created with a non-positive
// capacity.
const DefaultCapacity = 500

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
}

// StatementCache is a thread-safe LRU cache of compiled statements
// keyed by structural cache key.
type StatementCache struct {
	mu       sync.Mutex
	capacity int
	items    map[stmt.Key]*list.Element
	lru      *list.List

	hits      uint64
	misses    uint64
	evictions uint64

	group singleflight.Group
}

type entry struct {
	key stmt.Key
	cs  *compile.CompiledStatement
}

// New creates a StatementCache holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func New(capacity int) *StatementCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &StatementCache{
		capacity: capacity,
		items:    make(map[stmt.Key]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get returns the cached statement for key and marks it most recently
// used.
func (c *StatementCache) Get(key stmt.Key) (*compile.CompiledStatement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.lru.MoveToFront(el)
		c.hits++
		return el.Value.(*entry).cs, true
	}
	c.misses++
	return nil, false
}

// GetOrCompile returns the cached statement for key, compiling it with
// fn on a miss. Concurrent callers with the same key share a single
// compilation; a compile error is returned to every waiter and nothing
// is cached.
func (c *StatementCache) GetOrCompile(key stmt.Key, fn func() (*compile.CompiledStatement, error)) (*compile.CompiledStatement, error) {
	if cs, ok := c.Get(key); ok {
		return cs, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Another flight may have populated the cache between our miss
		// and this call.
		c.mu.Lock()
		if el, ok := c.items[key]; ok {
			c.lru.MoveToFront(el)
			cs := el.Value.(*entry).cs
			c.mu.Unlock()
			return cs, nil
		}
		c.mu.Unlock()

		cs, err := fn()
		if err != nil {
			return nil, err
		}
		c.put(key, cs)
		return cs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*compile.CompiledStatement), nil
}

func (c *StatementCache) put(key stmt.Key, cs *compile.CompiledStatement) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.lru.MoveToFront(el)
		el.Value.(*entry).cs = cs
		return
	}
	if c.lru.Len() >= c.capacity {
		back := c.lru.Back()
		if back != nil {
			c.lru.Remove(back)
			delete(c.items, back.Value.(*entry).key)
			c.evictions++
		}
	}
	c.items[key] = c.lru.PushFront(&entry{key: key, cs: cs})
}

// Invalidate removes all entries. Counters are preserved.
func (c *StatementCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[stmt.Key]*list.Element, c.capacity)
	c.lru.Init()
}

// Len returns the number of cached statements.
func (c *StatementCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *StatementCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      c.lru.Len(),
		Capacity:  c.capacity,
	}
}
