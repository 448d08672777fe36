package cache

import "time"

// Cache is a single-policy, key→value store implementing one of the four
// eviction disciplines (policy.LRU, policy.LFU, policy.FIFO, policy.LIFO).
//
// A Cache is NOT safe for concurrent use — unlike the sharded manager in
// package shard, this layer holds no lock. It is meant to be driven from
// under a single caller's lock (package manager and, transitively, package
// shard do exactly that). See package shard's doc comment for why the lock
// lives at the shard boundary and nowhere else.
type Cache[K comparable, V any] interface {
	// Put inserts or updates k→v. On update, only the value and last-access
	// timestamp change — access_count is untouched. On insert, if the
	// cache is full, one victim is evicted first; if every resident entry
	// is pinned, the put is a silent no-op.
	Put(k K, v V)

	// Get returns the value for k, promoting it per the active policy.
	// Returns a NotFound error (see IsNotFound) if k is absent.
	Get(k K) (V, error)

	// Contains reports presence without affecting statistics or order.
	Contains(k K) bool

	// Remove deletes k if present. Idempotent; reports whether k was
	// present.
	Remove(k K) bool

	// Clear empties all entries, order state, and pins. Statistics are
	// left untouched.
	Clear()

	// Pin protects k from eviction. No-op if k is absent.
	Pin(k K)

	// Unpin removes k's eviction protection. Idempotent.
	Unpin(k K)

	// Prefetch behaves like Put but records the insertion as a prefetch
	// rather than a hit/miss-affecting operation.
	Prefetch(k K, v V)

	// Keys returns a snapshot of resident keys.
	Keys() []K

	// Len returns the number of resident entries.
	Len() int

	// Capacity returns the immutable entry-count limit this cache was
	// constructed with.
	Capacity() int

	// Statistics returns a snapshot of hit/miss/eviction counters.
	Statistics() Statistics

	// ResetStatistics zeroes all counters and stamps LastReset to now.
	// Entries and pins are untouched.
	ResetStatistics()

	// EntryMeta returns the bookkeeping fields for k without affecting
	// statistics or eviction order — the read-only counterpart to
	// Contains, used by package manager to build hot-key analytics.
	EntryMeta(k K) (EntryMeta, bool)
}

// EntryMeta is a read-only snapshot of an Entry's bookkeeping fields.
type EntryMeta struct {
	AccessCount uint64
	CreatedAt   time.Time
	LastAccess  time.Time
	Pinned      bool
}
