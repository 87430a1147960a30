package search

import "container/list"

// Cache is a fixed-size LRU of ranked orderings keyed by query.
type Cache struct {
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
}

type cacheEntry struct {
	query string
	order []int
}

// NewCache creates a cache holding at most maxSize orderings.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get returns the ordering cached for query and marks it recently used.
func (c *Cache) Get(query string) ([]int, bool) {
	elem, ok := c.items[query]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return elem.Value.(*cacheEntry).order, true //nolint:errcheck // list only holds *cacheEntry
}

// Set stores the ordering for query, evicting the least recently used
// entry when full. Callers must not modify order afterwards.
func (c *Cache) Set(query string, order []int) {
	if elem, ok := c.items[query]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).order = order //nolint:errcheck // list only holds *cacheEntry
		return
	}

	for c.lru.Len() >= c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).query) //nolint:errcheck // list only holds *cacheEntry
	}

	c.items[query] = c.lru.PushFront(&cacheEntry{query: query, order: order})
}

// Len returns the number of cached orderings.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Clear drops every cached ordering.
func (c *Cache) Clear() {
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}
