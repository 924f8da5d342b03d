// internal/cache/lru.go
//
// Tiny LRU cache used by the session store to bound the number of live
// contact forms.  No external deps; good for a few thousand entries.  Not
// safe for concurrent use; callers hold their own lock.
package cache

import "container/list"

// LRU is a non‑generic least‑recently‑used cache.
// Keys must be comparable; values can be any.
type LRU struct {
	cap     int
	ll      *list.List
	dict    map[any]*list.Element
	onEvict func(key, val any)
}

type pair struct {
	key any
	val any
}

// New returns an LRU with the given capacity.  Panics on cap < 1.
func New(capacity int) *LRU {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[any]*list.Element, capacity),
	}
}

// OnEvict registers fn to run when Add pushes the oldest entry out.  Explicit
// Remove calls do not trigger it.
func (c *LRU) OnEvict(fn func(key, val any)) { c.onEvict = fn }

// Get retrieves a value or nil and marks it MRU.
func (c *LRU) Get(key any) (val any, ok bool) {
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair).val, true
	}
	return nil, false
}

// Add inserts or updates a value.
func (c *LRU) Add(key, val any) {
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	ele := c.ll.PushFront(pair{key, val})
	c.dict[key] = ele
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		p := last.Value.(pair)
		delete(c.dict, p.key)
		if c.onEvict != nil {
			c.onEvict(p.key, p.val)
		}
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRU) Remove(key any) bool {
	ele, hit := c.dict[key]
	if !hit {
		return false
	}
	c.ll.Remove(ele)
	delete(c.dict, key)
	return true
}

// Each calls fn for every entry from least to most recently used, without
// changing the order.  fn must not modify the cache.
func (c *LRU) Each(fn func(key, val any)) {
	for ele := c.ll.Back(); ele != nil; ele = ele.Prev() {
		p := ele.Value.(pair)
		fn(p.key, p.val)
	}
}

// Len reports current size.
func (c *LRU) Len() int { return c.ll.Len() }
