package schema

import (
	"container/list"
	"crypto/sha256"
	"sync"
)

// DefaultCacheSize is the number of compiled schemas an Adapter keeps.
const DefaultCacheSize = 64

type digest [sha256.Size]byte

type cacheEntry struct {
	key      digest
	compiled *Compiled
}

// compileCache keeps the most recently used compiled schemas, keyed by the
// digest of their source document.
type compileCache struct {
	capacity int
	mu       sync.Mutex
	items    map[digest]*list.Element
	order    *list.List
}

func newCompileCache(capacity int) *compileCache {
	return &compileCache{
		capacity: capacity,
		items:    make(map[digest]*list.Element),
		order:    list.New(),
	}
}

func (c *compileCache) get(key digest) (*Compiled, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).compiled, true
}

// put stores compiled under key and reports whether an older schema had
// to be evicted to make room.
func (c *compileCache) put(key digest, compiled *Compiled) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).compiled = compiled
		return false
	}

	c.items[key] = c.order.PushFront(&cacheEntry{key: key, compiled: compiled})
	if c.order.Len() <= c.capacity {
		return false
	}
	oldest := c.order.Back()
	c.order.Remove(oldest)
	delete(c.items, oldest.Value.(*cacheEntry).key)
	return true
}

func (c *compileCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
