package server

import (
	"sync"

	"github.com/ohmkit/resistor-search/pkg/engine"
)

// resultCache keeps complete result lists of finished searches keyed by
// request identity. Entries are immutable once stored; pagination happens on
// top of the cached list. Bounded FIFO: when full, the oldest entry leaves.
// A zero bound disables the cache, a negative bound removes the limit.
type resultCache struct {
	mu    sync.RWMutex
	max   int
	items map[string][]engine.Result
	order []string
}

func newResultCache(max int) *resultCache {
	return &resultCache{
		max:   max,
		items: make(map[string][]engine.Result),
	}
}

func (c *resultCache) get(key string) ([]engine.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	results, ok := c.items[key]
	return results, ok
}

func (c *resultCache) put(key string, results []engine.Result) {
	if c.max == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; exists {
		return
	}
	if c.max > 0 {
		for len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.items, oldest)
		}
	}
	c.items[key] = results
	c.order = append(c.order, key)
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
