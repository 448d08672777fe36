// Package policy defines the eviction-order contract shared by the four
// cache disciplines (LRU, LFU, FIFO, LIFO) and the Kind tag used to select
// one of them at configuration time.
//
// An Index owns whatever auxiliary data structure its discipline needs
// (an intrusive recency list, frequency buckets, a queue, a push log) and
// orders keys only — it has no notion of values and is not safe for
// concurrent use on its own. Package cache calls it without locking; the
// lock around every Index call is the one package shard holds, exactly as
// the teacher's shard holds a lock around its policy hooks.
package policy

import (
	"fmt"
	"strings"
)

// Kind identifies one of the four eviction disciplines. It is the wire form
// used by the CLI front end (out of scope here) to select a policy: the
// strings "LRU", "LFU", "FIFO", "LIFO" round-trip through String/ParseKind.
type Kind int

const (
	// LRU evicts the least-recently-used entry.
	LRU Kind = iota
	// LFU evicts the least-frequently-used entry.
	LFU
	// FIFO evicts the earliest-inserted entry, regardless of access.
	FIFO
	// LIFO evicts the most-recently-inserted entry.
	LIFO
)

// String returns the wire form of k.
func (k Kind) String() string {
	switch k {
	case LRU:
		return "LRU"
	case LFU:
		return "LFU"
	case FIFO:
		return "FIFO"
	case LIFO:
		return "LIFO"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses the wire form produced by String. It is case-insensitive.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(s) {
	case "LRU":
		return LRU, nil
	case "LFU":
		return LFU, nil
	case "FIFO":
		return FIFO, nil
	case "LIFO":
		return LIFO, nil
	default:
		return 0, fmt.Errorf("policy: unknown kind %q (want LRU, LFU, FIFO, or LIFO)", s)
	}
}

// Index encodes one discipline's eviction order over a set of keys.
//
// All methods are invoked by package cache, which holds no lock itself;
// when used behind package shard they run under that shard's lock. Index
// implementations do no locking of their own.
type Index[K comparable] interface {
	// Insert admits a brand-new key into the order (e.g. MRU for LRU,
	// freq-1 bucket for LFU, tail of the queue for FIFO, top of the
	// stack for LIFO).
	Insert(k K)

	// Touch reorders an already-admitted key following an access or an
	// in-place update (e.g. promote to MRU, bump frequency, promote to
	// stack top). FIFO's Touch is a no-op: arrival order never changes.
	Touch(k K)

	// Delete removes a key from the order. Idempotent: deleting an
	// already-absent key is a no-op.
	Delete(k K)

	// Victim scans the order for the discipline's eviction candidate,
	// skipping any key for which pinned reports true. It does not mutate
	// the index; the caller removes the returned key via Delete once it
	// has also removed it from its own entry map. Returns ok=false if no
	// unpinned candidate exists (e.g. every resident key is pinned).
	Victim(pinned func(K) bool) (k K, ok bool)

	// Keys returns a snapshot of resident keys in the discipline's
	// natural order (MRU→LRU for LRU, ascending frequency/insertion for
	// LFU, arrival order for FIFO, push order for LIFO).
	Keys() []K

	// Clear empties the index. Equivalent to deleting every key.
	Clear()
}

// Factory constructs a fresh, empty Index for one shard or cache instance.
// Each of the four discipline packages exposes a New[K]() Factory[K].
type Factory[K comparable] interface {
	New() Index[K]
}

// FactoryFunc adapts a plain function to Factory.
type FactoryFunc[K comparable] func() Index[K]

// New implements Factory.
func (f FactoryFunc[K]) New() Index[K] { return f() }
