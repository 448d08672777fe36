// Package fifo implements the arrival eviction discipline: keys are evicted
// in the order they were first inserted, regardless of how often or how
// recently they were accessed.
package fifo

import (
	"container/list"

	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

type index[K comparable] struct {
	queue *list.List
	elem  map[K]*list.Element
}

// New returns a Factory constructing fresh FIFO indexes.
func New[K comparable]() policy.Factory[K] {
	return policy.FactoryFunc[K](func() policy.Index[K] {
		return &index[K]{
			queue: list.New(),
			elem:  make(map[K]*list.Element),
		}
	})
}

func (x *index[K]) Insert(k K) {
	x.elem[k] = x.queue.PushBack(k)
}

// Touch is a no-op: arrival order never changes on access or update.
func (x *index[K]) Touch(K) {}

func (x *index[K]) Delete(k K) {
	if el, ok := x.elem[k]; ok {
		x.queue.Remove(el)
		delete(x.elem, k)
	}
}

// Victim walks the queue from the oldest arrival. Any key no longer tracked
// by elem is a stale queue entry (already removed elsewhere) and is
// silently skipped, per the documented tolerance for stale FIFO entries.
func (x *index[K]) Victim(pinned func(K) bool) (K, bool) {
	for el := x.queue.Front(); el != nil; el = el.Next() {
		k := el.Value.(K)
		if _, live := x.elem[k]; !live {
			continue
		}
		if !pinned(k) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

func (x *index[K]) Keys() []K {
	keys := make([]K, 0, len(x.elem))
	for el := x.queue.Front(); el != nil; el = el.Next() {
		k := el.Value.(K)
		if _, live := x.elem[k]; live {
			keys = append(keys, k)
		}
	}
	return keys
}

func (x *index[K]) Clear() {
	x.queue = list.New()
	x.elem = make(map[K]*list.Element)
}
