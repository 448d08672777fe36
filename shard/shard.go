// Package shard implements the sharded concurrent manager (C5): N
// independent policy-switching managers keyed by hash(key) mod N, each
// guarded by its own reader/writer lock, plus synchronous and asynchronous
// operation surfaces and optional background maintenance.
//
// This is the only layer in the engine that takes a real lock — package
// cache and package manager are deliberately bare, exactly as the
// teacher's own shard holds the lock while its policy hooks stay
// unlocked. See DESIGN.md's C5 section for the full rationale.
package shard

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/internal/singleflight"
	"github.com/ankyy-yy/multi-threaded-fs/internal/util"
	"github.com/ankyy-yy/multi-threaded-fs/internal/workerpool"
	"github.com/ankyy-yy/multi-threaded-fs/manager"
)

// slot is one partition: a manager.Manager guarded by its own lock, padded
// to its own cache line so that hot per-shard traffic on different shards
// doesn't false-share.
type slot[K comparable, V any] struct {
	mu  sync.RWMutex
	mgr *manager.Manager[K, V]
	_   util.CacheLinePad
}

// Manager is the sharded, concurrency-safe entry point into the cache
// engine. Unlike package cache and package manager, every exported method
// here is safe for concurrent use.
type Manager[K comparable, V any] struct {
	slots []*slot[K, V]
	n     int
	hash  func(K) uint64

	pool *workerpool.Pool
	sf   singleflight.Group[K, V]

	totalAsync     util.PaddedAtomicUint64
	completedAsync util.PaddedAtomicUint64
	failedAsync    util.PaddedAtomicUint64
	latencyMu      sync.Mutex
	avgLatencyNs   float64

	optimizationFlag atomic.Bool
	optimizationStop chan struct{}
	optimizationDone chan struct{}

	cleanupMu   sync.Mutex
	cleanupFlag atomic.Bool
	cleanupStop chan struct{}
	cleanupDone chan struct{}

	closed atomic.Bool
	logger *slog.Logger
}

// New constructs a sharded manager per opt.
func New[K comparable, V any](opt Options[K, V]) *Manager[K, V] {
	n := opt.Shards
	if n <= 0 {
		n = util.ReasonableShardCount()
	}
	if n < 1 {
		n = 1
	}

	perShardCap := opt.Capacity / n
	if perShardCap < 1 {
		perShardCap = 1
	}

	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}

	slots := make([]*slot[K, V], n)
	for i := range slots {
		slots[i] = &slot[K, V]{
			mgr: manager.New[K, V](manager.Options[K, V]{
				Capacity: perShardCap,
				Kind:     opt.Kind,
				OnEvict:  opt.OnEvict,
				Metrics:  opt.Metrics,
				Clock:    opt.Clock,
			}),
		}
	}

	optInterval := opt.OptimizationInterval
	if optInterval <= 0 {
		optInterval = time.Second
	}

	m := &Manager[K, V]{
		slots:            slots,
		n:                n,
		hash:             util.Fnv64a[K],
		pool:             workerpool.New(opt.Workers, opt.Logger),
		optimizationStop: make(chan struct{}),
		optimizationDone: make(chan struct{}),
		logger:           opt.Logger,
	}
	go m.runOptimizationLoop(optInterval)
	return m
}

func (m *Manager[K, V]) slotFor(k K) *slot[K, V] {
	idx := util.ShardIndex(m.hash(k), m.n)
	return m.slots[idx]
}

// Shards returns N, the immutable shard count.
func (m *Manager[K, V]) Shards() int { return m.n }

// --- synchronous operations (§4.4) ---

func (m *Manager[K, V]) Put(k K, v V) {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.Put(k, v)
}

// Get is logically mutating — it updates statistics and reorders the
// entry — so it takes the write lock even though callers may think of it
// as a pure read.
func (m *Manager[K, V]) Get(k K) (V, error) {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Get(k)
}

func (m *Manager[K, V]) Contains(k K) bool {
	s := m.slotFor(k)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mgr.Contains(k)
}

func (m *Manager[K, V]) Remove(k K) bool {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mgr.Remove(k)
}

func (m *Manager[K, V]) Pin(k K) {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.Pin(k)
}

func (m *Manager[K, V]) Unpin(k K) {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.Unpin(k)
}

func (m *Manager[K, V]) Prefetch(k K, v V) {
	s := m.slotFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mgr.Prefetch(k, v)
}

// Clear acquires the write lock on every shard in fixed index order,
// matching §4.4's documented scheme for whole-manager operations.
func (m *Manager[K, V]) Clear() {
	for _, s := range m.slots {
		s.mu.Lock()
		s.mgr.Clear()
		s.mu.Unlock()
	}
}

// ResetStatistics uses the same fixed-index-order, per-shard write-lock
// scheme as Clear.
func (m *Manager[K, V]) ResetStatistics() {
	for _, s := range m.slots {
		s.mu.Lock()
		s.mgr.ResetStatistics()
		s.mu.Unlock()
	}
}

// Statistics aggregates every shard's cache.Statistics into one snapshot.
// HitRate is recomputed over the aggregated hits/misses rather than
// averaged per-shard.
func (m *Manager[K, V]) Statistics() AggregateStatistics {
	var agg AggregateStatistics
	for _, s := range m.slots {
		s.mu.RLock()
		st := s.mgr.Statistics()
		s.mu.RUnlock()

		agg.Hits += st.Hits
		agg.Misses += st.Misses
		agg.Evictions += st.Evictions
		agg.TotalAccesses += st.TotalAccesses
		agg.PrefetchedItems += st.PrefetchedItems
		agg.PinnedItems += st.PinnedItems
	}
	denom := agg.Hits + agg.Misses
	if denom == 0 {
		denom = 1
	}
	agg.HitRate = float64(agg.Hits) / float64(denom) * 100
	return agg
}

// AggregateStatistics sums cache.Statistics across every shard.
type AggregateStatistics struct {
	Hits            uint64
	Misses          uint64
	Evictions       uint64
	TotalAccesses   uint64
	PrefetchedItems uint64
	PinnedItems     int
	HitRate         float64
}

// Close stops the background optimization loop, any scheduled periodic
// cleanup, and the worker pool, then waits for all of them to finish.
// Queued async operations still run to completion; Close just stops
// accepting new background work.
func (m *Manager[K, V]) Close() {
	if !m.closed.CompareAndSwap(false, true) {
		return
	}
	close(m.optimizationStop)
	<-m.optimizationDone
	m.StopPeriodicCleanup()
	m.pool.Close()
}
