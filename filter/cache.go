package filter

import (
	"container/list"
	"sync"
)

// programCache keeps the most recently used compiled filters, keyed by
// their trimmed expression text.
type programCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recent; values are *Filter
	byExpr   map[string]*list.Element
}

func newProgramCache(capacity int) *programCache {
	return &programCache{
		capacity: max(capacity, 1),
		order:    list.New(),
		byExpr:   make(map[string]*list.Element, capacity),
	}
}

// lookup returns the cached filter for expression and marks it as used
func (c *programCache) lookup(expression string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.byExpr[expression]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*Filter), true
}

// store adds f, evicting the least recently used filter when full
func (c *programCache) store(f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.byExpr[f.expression]; ok {
		el.Value = f
		c.order.MoveToFront(el)
		return
	}

	c.byExpr[f.expression] = c.order.PushFront(f)
	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.byExpr, oldest.Value.(*Filter).expression)
	}
}

func (c *programCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
