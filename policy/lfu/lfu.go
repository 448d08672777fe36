// Package lfu implements the frequency eviction discipline: every hit or
// update promotes a key to the next frequency bucket, and eviction targets
// the oldest-inserted key in the lowest populated bucket.
package lfu

import (
	"container/list"

	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

type index[K comparable] struct {
	freq    map[K]uint64
	buckets map[uint64]*list.List // each bucket: front = oldest in bucket, back = newest
	elem    map[K]*list.Element
	minFreq uint64
}

// New returns a Factory constructing fresh LFU indexes.
func New[K comparable]() policy.Factory[K] {
	return policy.FactoryFunc[K](func() policy.Index[K] {
		return &index[K]{
			freq:    make(map[K]uint64),
			buckets: make(map[uint64]*list.List),
			elem:    make(map[K]*list.Element),
		}
	})
}

func (x *index[K]) bucket(f uint64) *list.List {
	b := x.buckets[f]
	if b == nil {
		b = list.New()
		x.buckets[f] = b
	}
	return b
}

// Insert admits a fresh key at frequency 1. A freshly inserted key always
// has the lowest possible frequency, so min_freq becomes 1 unconditionally.
func (x *index[K]) Insert(k K) {
	x.freq[k] = 1
	x.elem[k] = x.bucket(1).PushBack(k)
	x.minFreq = 1
}

// Touch promotes k from its current bucket to the next one up. If the
// bucket it leaves was the minimum and is now empty, min_freq advances.
func (x *index[K]) Touch(k K) {
	f, ok := x.freq[k]
	if !ok {
		return
	}
	old := x.buckets[f]
	if el, ok := x.elem[k]; ok {
		old.Remove(el)
	}
	if old.Len() == 0 && f == x.minFreq {
		x.minFreq = f + 1
	}
	nf := f + 1
	x.freq[k] = nf
	x.elem[k] = x.bucket(nf).PushBack(k)
}

func (x *index[K]) Delete(k K) {
	f, ok := x.freq[k]
	if !ok {
		return
	}
	if el, ok := x.elem[k]; ok {
		b := x.buckets[f]
		b.Remove(el)
		if b.Len() == 0 && f == x.minFreq {
			x.minFreq++
		}
	}
	delete(x.freq, k)
	delete(x.elem, k)
}

// Victim scans buckets ascending from min_freq; within a bucket it scans
// insertion order (front = oldest) and returns the first unpinned key.
func (x *index[K]) Victim(pinned func(K) bool) (K, bool) {
	maxSeen := x.minFreq
	for f, b := range x.buckets {
		if f > maxSeen && b.Len() > 0 {
			maxSeen = f
		}
	}
	for f := x.minFreq; f <= maxSeen; f++ {
		b := x.buckets[f]
		if b == nil {
			continue
		}
		for el := b.Front(); el != nil; el = el.Next() {
			k := el.Value.(K)
			if !pinned(k) {
				return k, true
			}
		}
	}
	var zero K
	return zero, false
}

func (x *index[K]) Keys() []K {
	keys := make([]K, 0, len(x.freq))
	maxSeen := x.minFreq
	for f, b := range x.buckets {
		if f > maxSeen && b.Len() > 0 {
			maxSeen = f
		}
	}
	for f := uint64(0); f <= maxSeen; f++ {
		b := x.buckets[f]
		if b == nil {
			continue
		}
		for el := b.Front(); el != nil; el = el.Next() {
			keys = append(keys, el.Value.(K))
		}
	}
	return keys
}

func (x *index[K]) Clear() {
	x.freq = make(map[K]uint64)
	x.buckets = make(map[uint64]*list.List)
	x.elem = make(map[K]*list.Element)
	x.minFreq = 0
}
