// Package cache implements the single-policy cache (C3): a generic
// key→value store that enforces one eviction discipline at a time, tracks
// pinning, and records hit/miss/eviction statistics.
//
// Design
//
//   - Storage: a map[K]*Entry plus a policy.Index that orders keys for
//     the active discipline. LRU, LFU, FIFO, and LIFO each live in their
//     own package under policy/ and are selected via Options.Kind.
//
//   - Concurrency: a Cache holds no lock of its own. It is meant to be
//     driven from inside a caller's critical section — package manager
//     wraps one per policy/capacity generation, and package shard is the
//     layer that actually takes a lock.
//
//   - Pinning: a pinned key is never chosen as an eviction victim. If
//     every resident key is pinned and the cache is full, Put and
//     Prefetch become silent no-ops rather than growing past capacity.
//
//   - Statistics: hits/misses are counted only by Get; Contains and
//     Prefetch never affect them. HitRate is recomputed on every hit or
//     miss so a Statistics snapshot never needs extra computation.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    Capacity: 1024,
//	    Kind:     policy.LRU,
//	})
//	c.Put("a", []byte("1"))
//	if v, err := c.Get("a"); err == nil {
//	    _ = v
//	}
//	c.Pin("a")
//	c.Remove("b")
package cache
