package cache

import "time"

// Entry is the per-key record owned by a single-policy cache. It holds the
// value alongside the bookkeeping every eviction discipline and the
// statistics layer need: how many times it has been accessed, when it was
// created, and when it was last touched. Pinning is tracked separately in
// the cache's own pinned set, not here — see cache.isPinned.
//
// Entries are not shared across caches; a cache owns the values it stores.
type Entry[K comparable, V any] struct {
	Key K
	Val V

	AccessCount uint64
	CreatedAt   time.Time
	LastAccess  time.Time
}
