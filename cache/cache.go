package cache

import (
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

// cache is the unexported implementation returned by New. Keeping the
// concrete type unexported and returning the Cache interface matches how
// the teacher structures its own single-policy store.
type cache[K comparable, V any] struct {
	capacity int
	kind     policy.Kind

	entries map[K]*Entry[K, V]
	idx     policy.Index[K]
	pinned  map[K]struct{}

	stats Statistics
	opt   Options[K, V]
}

// New constructs a single-policy cache per opt. A zero Capacity is valid:
// per invariant 7, Put and Prefetch become silent no-ops and entries stays
// permanently empty.
func New[K comparable, V any](opt Options[K, V]) Cache[K, V] {
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Clock == nil {
		opt.Clock = realClock{}
	}

	return &cache[K, V]{
		capacity: opt.Capacity,
		kind:     opt.Kind,
		entries:  make(map[K]*Entry[K, V]),
		idx:      newIndex[K](opt.Kind),
		pinned:   make(map[K]struct{}),
		stats:    Statistics{LastReset: opt.Clock.Now()},
		opt:      opt,
	}
}

func (c *cache[K, V]) now() time.Time { return c.opt.Clock.Now() }

func (c *cache[K, V]) isPinned(k K) bool {
	_, ok := c.pinned[k]
	return ok
}

// evictOne asks the policy for a victim and removes it. Returns false if
// every resident key is pinned, i.e. there was nothing evictable.
func (c *cache[K, V]) evictOne() bool {
	victim, ok := c.idx.Victim(c.isPinned)
	if !ok {
		return false
	}
	c.removeInternal(victim, EvictPolicy)
	c.stats.Evictions++
	return true
}

func (c *cache[K, V]) removeInternal(k K, reason EvictReason) {
	e, ok := c.entries[k]
	if !ok {
		return
	}
	delete(c.entries, k)
	delete(c.pinned, k)
	c.idx.Delete(k)
	if c.opt.OnEvict != nil {
		c.opt.OnEvict(k, e.Val, reason)
	}
	c.opt.Metrics.Evict(reason)
}

func (c *cache[K, V]) Put(k K, v V) {
	if c.capacity == 0 {
		return
	}
	now := c.now()
	if e, ok := c.entries[k]; ok {
		e.Val = v
		e.LastAccess = now
		c.idx.Touch(k)
		return
	}
	if len(c.entries) >= c.capacity {
		if !c.evictOne() {
			// Every resident entry is pinned: nothing can be freed, so
			// the insert is refused silently. See invariant 6 and the
			// §4.5 failure-semantics entry for this exact case.
			return
		}
	}
	c.entries[k] = &Entry[K, V]{Key: k, Val: v, CreatedAt: now, LastAccess: now}
	c.idx.Insert(k)
	c.opt.Metrics.Size(len(c.entries))
}

func (c *cache[K, V]) Get(k K) (V, error) {
	e, ok := c.entries[k]
	if !ok {
		c.stats.recordMiss()
		c.opt.Metrics.Miss()
		var zero V
		return zero, errNotFound(k)
	}
	c.stats.recordHit()
	c.opt.Metrics.Hit()
	e.AccessCount++
	e.LastAccess = c.now()
	c.idx.Touch(k)
	return e.Val, nil
}

func (c *cache[K, V]) Contains(k K) bool {
	_, ok := c.entries[k]
	return ok
}

func (c *cache[K, V]) Remove(k K) bool {
	if _, ok := c.entries[k]; !ok {
		return false
	}
	c.removeInternal(k, EvictRemove)
	c.opt.Metrics.Size(len(c.entries))
	return true
}

func (c *cache[K, V]) Clear() {
	for k, e := range c.entries {
		if c.opt.OnEvict != nil {
			c.opt.OnEvict(k, e.Val, EvictClear)
		}
	}
	c.entries = make(map[K]*Entry[K, V])
	c.pinned = make(map[K]struct{})
	c.idx.Clear()
	c.opt.Metrics.Size(0)
}

func (c *cache[K, V]) Pin(k K) {
	if _, ok := c.entries[k]; !ok {
		return
	}
	c.pinned[k] = struct{}{}
}

func (c *cache[K, V]) Unpin(k K) {
	delete(c.pinned, k)
}

func (c *cache[K, V]) Prefetch(k K, v V) {
	if c.capacity == 0 {
		return
	}
	now := c.now()
	if e, ok := c.entries[k]; ok {
		e.Val = v
		e.LastAccess = now
		c.idx.Touch(k)
		c.stats.PrefetchedItems++
		return
	}
	if len(c.entries) >= c.capacity {
		if !c.evictOne() {
			return
		}
	}
	c.entries[k] = &Entry[K, V]{Key: k, Val: v, CreatedAt: now, LastAccess: now}
	c.idx.Insert(k)
	c.stats.PrefetchedItems++
	c.opt.Metrics.Size(len(c.entries))
}

func (c *cache[K, V]) Keys() []K { return c.idx.Keys() }

func (c *cache[K, V]) Len() int { return len(c.entries) }

func (c *cache[K, V]) Capacity() int { return c.capacity }

func (c *cache[K, V]) Statistics() Statistics {
	s := c.stats
	s.PinnedItems = len(c.pinned)
	return s
}

func (c *cache[K, V]) ResetStatistics() {
	c.stats.reset(c.now())
}

func (c *cache[K, V]) EntryMeta(k K) (EntryMeta, bool) {
	e, ok := c.entries[k]
	if !ok {
		return EntryMeta{}, false
	}
	return EntryMeta{
		AccessCount: e.AccessCount,
		CreatedAt:   e.CreatedAt,
		LastAccess:  e.LastAccess,
		Pinned:      c.isPinned(k),
	}, true
}
