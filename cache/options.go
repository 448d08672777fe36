package cache

import (
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictPolicy — removed by the active eviction discipline to make room.
	EvictPolicy EvictReason = iota
	// EvictRemove — explicitly removed by the caller via Remove.
	EvictRemove
	// EvictClear — removed as part of a Clear.
	EvictClear
)

// Metrics exposes cache-level observability hooks. A NoopMetrics
// implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Clock provides the current time; useful for deterministic tests.
type Clock interface{ Now() time.Time }

// Options configures a single-policy cache. Capacity is the only field
// without a usable zero value — a zero-valued Options is a capacity-0
// cache, which is valid per the no-op contract documented on Put.
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. 0 means the cache never admits
	// anything: Put and Prefetch become no-ops that neither hit nor miss.
	Capacity int

	// Kind selects the eviction discipline. The zero value is policy.LRU.
	Kind policy.Kind

	// OnEvict is invoked synchronously whenever an entry leaves the cache,
	// for any reason. Keep it lightweight: it runs under the caller's lock
	// when this cache is used behind a shard.
	OnEvict func(k K, v V, reason EvictReason)

	// Metrics receives Hit/Miss/Evict/Size signals. Nil defaults to
	// NoopMetrics.
	Metrics Metrics

	// Clock overrides the time source; nil uses time.Now.
	Clock Clock
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
