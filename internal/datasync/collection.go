package datasync

import "sync"

// Collection is an ordered, key-unique in-memory cache. New keys append in
// insertion order; existing keys are replaced in place. All operations are
// synchronous and touch only the in-memory state. Rollback works by pairing
// every mutation with a Snapshot taken immediately before it.
type Collection[K comparable, V any] struct {
	mu    sync.Mutex
	order []K
	items map[K]V
	keyOf func(V) K
}

// Snapshot is an immutable copy of a collection's contents, suitable for a
// later Restore.
type Snapshot[K comparable, V any] struct {
	order []K
	items map[K]V
}

// NewCollection builds a collection whose entries are keyed by keyOf.
func NewCollection[K comparable, V any](keyOf func(V) K) *Collection[K, V] {
	return &Collection[K, V]{
		items: map[K]V{},
		keyOf: keyOf,
	}
}

// Upsert inserts item at the end when its key is absent, or replaces the
// existing entry in place when present.
func (c *Collection[K, V]) Upsert(item V) {
	key := c.keyOf(item)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = item
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (c *Collection[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Get returns the entry for key.
func (c *Collection[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

// Len returns the number of entries.
func (c *Collection[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// List returns the entries in insertion order.
func (c *Collection[K, V]) List() []V {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]V, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

// Snapshot copies the current contents. The copy is detached: later
// mutations of the collection do not affect it.
func (c *Collection[K, V]) Snapshot() Snapshot[K, V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	order := make([]K, len(c.order))
	copy(order, c.order)
	items := make(map[K]V, len(c.items))
	for k, v := range c.items {
		items[k] = v
	}
	return Snapshot[K, V]{order: order, items: items}
}

// Restore replaces the contents wholesale with the given snapshot.
func (c *Collection[K, V]) Restore(snap Snapshot[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = make([]K, len(snap.order))
	copy(c.order, snap.order)
	c.items = make(map[K]V, len(snap.items))
	for k, v := range snap.items {
		c.items[k] = v
	}
}

// Equal reports whether two snapshots hold the same entries in the same
// order, using eq to compare values.
func (s Snapshot[K, V]) Equal(other Snapshot[K, V], eq func(a, b V) bool) bool {
	if len(s.order) != len(other.order) {
		return false
	}
	for i, k := range s.order {
		if other.order[i] != k {
			return false
		}
		if !eq(s.items[k], other.items[k]) {
			return false
		}
	}
	return true
}
