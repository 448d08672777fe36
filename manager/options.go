package manager

import (
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/cache"
	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

// Options configures a Manager's inner single-policy cache. It mirrors
// cache.Options because every field here is forwarded verbatim whenever
// the inner cache is recreated by SetPolicy or Resize.
type Options[K comparable, V any] struct {
	Capacity int
	Kind     policy.Kind

	OnEvict func(k K, v V, reason cache.EvictReason)
	Metrics cache.Metrics
	Clock   cache.Clock
}

func (o Options[K, V]) toCacheOptions() cache.Options[K, V] {
	return cache.Options[K, V]{
		Capacity: o.Capacity,
		Kind:     o.Kind,
		OnEvict:  o.OnEvict,
		Metrics:  o.Metrics,
		Clock:    o.Clock,
	}
}

func (o Options[K, V]) now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock.Now()
}
