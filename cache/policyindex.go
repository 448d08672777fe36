package cache

import (
	"github.com/ankyy-yy/multi-threaded-fs/policy"
	"github.com/ankyy-yy/multi-threaded-fs/policy/fifo"
	"github.com/ankyy-yy/multi-threaded-fs/policy/lfu"
	"github.com/ankyy-yy/multi-threaded-fs/policy/lifo"
	"github.com/ankyy-yy/multi-threaded-fs/policy/lru"
)

// newIndex dispatches a Kind to its concrete policy.Index constructor. The
// zero Kind (policy.LRU) is the default, matching Options' documented
// behavior for an unset Kind field.
func newIndex[K comparable](kind policy.Kind) policy.Index[K] {
	switch kind {
	case policy.LRU:
		return lru.New[K]().New()
	case policy.LFU:
		return lfu.New[K]().New()
	case policy.FIFO:
		return fifo.New[K]().New()
	case policy.LIFO:
		return lifo.New[K]().New()
	default:
		return lru.New[K]().New()
	}
}
