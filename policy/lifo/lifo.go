// Package lifo implements the reverse-arrival eviction discipline: eviction
// targets the most-recently-inserted (or most-recently-promoted) key, the
// opposite of FIFO.
//
// Re-promoting an existing key to the top on every put would cost O(n) if
// the stack were rebuilt from scratch, as the original implementation does.
// Instead this keeps an append-only push log plus a key→latest-index map:
// promotion is an O(1) append, and a stale (superseded) log entry is simply
// skipped when scanned. The log is compacted back down once it grows much
// larger than the live key count.
package lifo

import "github.com/ankyy-yy/multi-threaded-fs/policy"

type index[K comparable] struct {
	log    []K
	latest map[K]int // key -> index of its most recent push in log
	alive  map[K]struct{}
}

// New returns a Factory constructing fresh LIFO indexes.
func New[K comparable]() policy.Factory[K] {
	return policy.FactoryFunc[K](func() policy.Index[K] {
		return &index[K]{
			latest: make(map[K]int),
			alive:  make(map[K]struct{}),
		}
	})
}

func (x *index[K]) push(k K) {
	x.latest[k] = len(x.log)
	x.log = append(x.log, k)
	x.alive[k] = struct{}{}
	x.maybeCompact()
}

func (x *index[K]) Insert(k K) { x.push(k) }

// Touch re-promotes k to the top. The prior log entry for k becomes stale
// automatically: latest[k] no longer points at it.
func (x *index[K]) Touch(k K) {
	if _, ok := x.alive[k]; !ok {
		return
	}
	x.push(k)
}

func (x *index[K]) Delete(k K) {
	delete(x.latest, k)
	delete(x.alive, k)
	x.maybeCompact()
}

// Victim scans from the top of the stack down, skipping stale log entries
// and pinned keys. Because the scan never mutates the log, pinned entries
// keep their exact relative order — stronger than the original's
// pop/skip/push-back approach.
func (x *index[K]) Victim(pinned func(K) bool) (K, bool) {
	for i := len(x.log) - 1; i >= 0; i-- {
		k := x.log[i]
		if _, ok := x.alive[k]; !ok {
			continue
		}
		if x.latest[k] != i {
			continue
		}
		if !pinned(k) {
			return k, true
		}
	}
	var zero K
	return zero, false
}

// Keys returns resident keys in push order (bottom of the stack first).
func (x *index[K]) Keys() []K {
	keys := make([]K, 0, len(x.alive))
	for i, k := range x.log {
		if _, ok := x.alive[k]; ok && x.latest[k] == i {
			keys = append(keys, k)
		}
	}
	return keys
}

func (x *index[K]) Clear() {
	x.log = nil
	x.latest = make(map[K]int)
	x.alive = make(map[K]struct{})
}

// maybeCompact rebuilds the log once it holds more than twice the live key
// count (plus a small constant to avoid thrashing on tiny caches),
// discarding stale entries while preserving relative order.
func (x *index[K]) maybeCompact() {
	if len(x.log) <= 2*len(x.alive)+8 {
		return
	}
	fresh := make([]K, 0, len(x.alive))
	for i, k := range x.log {
		if _, ok := x.alive[k]; ok && x.latest[k] == i {
			x.latest[k] = len(fresh)
			fresh = append(fresh, k)
		}
	}
	x.log = fresh
}
