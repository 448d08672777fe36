package shard

import (
	"context"
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/internal/workerpool"
	"github.com/ankyy-yy/multi-threaded-fs/manager"
)

func (m *Manager[K, V]) recordAsync(start time.Time, err error) {
	if err != nil {
		m.failedAsync.Add(1)
	} else {
		m.completedAsync.Add(1)
	}

	elapsed := float64(time.Since(start))
	m.latencyMu.Lock()
	if m.avgLatencyNs == 0 {
		m.avgLatencyNs = elapsed
	} else {
		const alpha = 0.2 // exponential moving average
		m.avgLatencyNs = alpha*elapsed + (1-alpha)*m.avgLatencyNs
	}
	m.latencyMu.Unlock()
}

// ConcurrentStatistics returns a snapshot of this manager's async
// bookkeeping: how many async operations were submitted, how many
// completed or failed, and a running-average latency.
func (m *Manager[K, V]) ConcurrentStatistics() ConcurrentStats {
	m.latencyMu.Lock()
	avg := m.avgLatencyNs
	m.latencyMu.Unlock()
	return ConcurrentStats{
		TotalAsync:        m.totalAsync.Load(),
		CompletedAsync:    m.completedAsync.Load(),
		FailedAsync:       m.failedAsync.Load(),
		RunningAvgLatency: time.Duration(avg),
	}
}

// PutAsync offloads Put to the worker pool. The handle may be dropped
// without affecting completion: the task still runs and updates
// concurrent_stats regardless.
func (m *Manager[K, V]) PutAsync(k K, v V) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		m.Put(k, v)
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// GetAsync offloads Get to the worker pool.
func (m *Manager[K, V]) GetAsync(k K) *workerpool.Handle[V] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (V, error) {
		v, err := m.Get(k)
		m.recordAsync(start, err)
		return v, err
	})
}

// ContainsAsync offloads Contains to the worker pool.
func (m *Manager[K, V]) ContainsAsync(k K) *workerpool.Handle[bool] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (bool, error) {
		ok := m.Contains(k)
		m.recordAsync(start, nil)
		return ok, nil
	})
}

// RemoveAsync offloads Remove to the worker pool.
func (m *Manager[K, V]) RemoveAsync(k K) *workerpool.Handle[bool] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (bool, error) {
		ok := m.Remove(k)
		m.recordAsync(start, nil)
		return ok, nil
	})
}

// PinAsync offloads Pin to the worker pool.
func (m *Manager[K, V]) PinAsync(k K) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		m.Pin(k)
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// UnpinAsync offloads Unpin to the worker pool.
func (m *Manager[K, V]) UnpinAsync(k K) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		m.Unpin(k)
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// PrefetchAsync offloads Prefetch to the worker pool.
func (m *Manager[K, V]) PrefetchAsync(k K, v V) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		m.Prefetch(k, v)
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// PutBatchAsync performs every item in sequence, across their respective
// shards, as a single task. Not atomic: a failure partway through still
// leaves earlier items applied.
func (m *Manager[K, V]) PutBatchAsync(items []manager.KV[K, V]) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		for _, it := range items {
			m.Put(it.Key, it.Val)
		}
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// BatchResult is one element of a GetBatchAsync result: a missing key
// surfaces as a per-item NotFound error rather than failing the whole
// task, so a caller can tell which keys were absent.
type BatchResult[K comparable, V any] struct {
	Key K
	Val V
	Err error
}

// GetBatchAsync performs every lookup as a single task and returns results
// in input order.
func (m *Manager[K, V]) GetBatchAsync(keys []K) *workerpool.Handle[[]BatchResult[K, V]] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() ([]BatchResult[K, V], error) {
		out := make([]BatchResult[K, V], len(keys))
		for i, k := range keys {
			v, err := m.Get(k)
			out[i] = BatchResult[K, V]{Key: k, Val: v, Err: err}
		}
		m.recordAsync(start, nil)
		return out, nil
	})
}

// WarmupAsync applies Prefetch for every element on its shard, as a single
// task.
func (m *Manager[K, V]) WarmupAsync(data []manager.KV[K, V]) *workerpool.Handle[struct{}] {
	m.totalAsync.Add(1)
	start := time.Now()
	return workerpool.Enqueue(m.pool, func() (struct{}, error) {
		for _, it := range data {
			m.Prefetch(it.Key, it.Val)
		}
		m.recordAsync(start, nil)
		return struct{}{}, nil
	})
}

// GetOrLoad returns the value for k; on miss it loads via loader,
// coalescing concurrent loads for the same key with a singleflight group.
// This is a supplement beyond the literal §4.2/§4.4 contract — a
// façade-cooperative convenience grounded on the teacher's own
// GetOrLoad/singleflight pairing — so it is not part of the Cache or
// Manager interfaces, only this shard-level surface where coalescing
// actually matters under contention.
func (m *Manager[K, V]) GetOrLoad(ctx context.Context, k K, loader func(context.Context, K) (V, error)) (V, error) {
	if v, err := m.Get(k); err == nil {
		return v, nil
	}
	return m.sf.Do(ctx, k, func() (V, error) {
		if v, err := m.Get(k); err == nil {
			return v, nil
		}
		v, err := loader(ctx, k)
		if err != nil {
			var zero V
			return zero, err
		}
		m.Put(k, v)
		return v, nil
	})
}
