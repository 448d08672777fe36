// Package lru implements the recency eviction discipline: on every hit or
// update the entry moves to the most-recently-used end, and eviction always
// targets the least-recently-used end.
//
// The order is an intrusive doubly linked list, but unlike a pointer-based
// list the nodes live in a slice arena addressed by slot index, with a
// free-list for reuse. This avoids the owning-pointer cycles a naive
// Go translation of the original's std::list<CacheEntry> would need, per
// the re-architecture note on intrusive lists.
package lru

import "github.com/ankyy-yy/multi-threaded-fs/policy"

const noSlot = -1

type node[K comparable] struct {
	key        K
	prev, next int32
	used       bool
}

type index[K comparable] struct {
	arena    []node[K]
	free     []int32
	slot     map[K]int32
	head, tail int32 // head = MRU, tail = LRU; noSlot when empty
}

// New returns a Factory constructing fresh LRU indexes.
func New[K comparable]() policy.Factory[K] {
	return policy.FactoryFunc[K](func() policy.Index[K] {
		return &index[K]{
			slot: make(map[K]int32),
			head: noSlot,
			tail: noSlot,
		}
	})
}

func (x *index[K]) alloc(k K) int32 {
	if n := len(x.free); n > 0 {
		s := x.free[n-1]
		x.free = x.free[:n-1]
		x.arena[s] = node[K]{key: k, prev: noSlot, next: noSlot, used: true}
		return s
	}
	x.arena = append(x.arena, node[K]{key: k, prev: noSlot, next: noSlot, used: true})
	return int32(len(x.arena) - 1)
}

func (x *index[K]) unlink(s int32) {
	n := x.arena[s]
	if n.prev != noSlot {
		x.arena[n.prev].next = n.next
	} else {
		x.head = n.next
	}
	if n.next != noSlot {
		x.arena[n.next].prev = n.prev
	} else {
		x.tail = n.prev
	}
}

func (x *index[K]) pushFront(s int32) {
	x.arena[s].prev = noSlot
	x.arena[s].next = x.head
	if x.head != noSlot {
		x.arena[x.head].prev = s
	}
	x.head = s
	if x.tail == noSlot {
		x.tail = s
	}
}

func (x *index[K]) Insert(k K) {
	s := x.alloc(k)
	x.slot[k] = s
	x.pushFront(s)
}

func (x *index[K]) Touch(k K) {
	s, ok := x.slot[k]
	if !ok || x.head == s {
		return
	}
	x.unlink(s)
	x.pushFront(s)
}

func (x *index[K]) Delete(k K) {
	s, ok := x.slot[k]
	if !ok {
		return
	}
	x.unlink(s)
	delete(x.slot, k)
	x.arena[s].used = false
	x.free = append(x.free, s)
}

func (x *index[K]) Victim(pinned func(K) bool) (K, bool) {
	for s := x.tail; s != noSlot; s = x.arena[s].prev {
		k := x.arena[s].key
		if !pinned(k) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

func (x *index[K]) Keys() []K {
	keys := make([]K, 0, len(x.slot))
	for s := x.head; s != noSlot; s = x.arena[s].next {
		keys = append(keys, x.arena[s].key)
	}
	return keys
}

func (x *index[K]) Clear() {
	x.arena = nil
	x.free = nil
	x.slot = make(map[K]int32)
	x.head, x.tail = noSlot, noSlot
}
