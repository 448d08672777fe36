package shard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/cache"
	"github.com/ankyy-yy/multi-threaded-fs/manager"
	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

func newManager(t *testing.T) *Manager[string, int] {
	t.Helper()
	m := New[string, int](Options[string, int]{
		Capacity: 16,
		Shards:   4,
		Kind:     policy.LRU,
		Workers:  2,
	})
	t.Cleanup(m.Close)
	return m
}

func TestShard_PutGetRemove(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Put("a", 1)
	v, err := m.Get("a")
	if err != nil || v != 1 {
		t.Fatalf("want 1, nil; got %v, %v", v, err)
	}
	if !m.Remove("a") {
		t.Fatal("want Remove true")
	}
	if m.Contains("a") {
		t.Fatal("want absent after Remove")
	}
}

func TestShard_PerShardCapacityIsFloorDivision(t *testing.T) {
	t.Parallel()

	// 10 / 4 shards = 2.5 -> floor to 2 per shard, not ceil to 3. This
	// deliberately departs from the teacher's ceiling split.
	m := New[string, int](Options[string, int]{
		Capacity: 10,
		Shards:   4,
		Kind:     policy.LRU,
		Workers:  2,
	})
	defer m.Close()

	if got := m.slots[0].mgr.Capacity(); got != 2 {
		t.Fatalf("want per-shard capacity 2, got %d", got)
	}
}

func TestShard_KeyRoutesToSameShardDeterministically(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Put("a", 1)
	first := m.slotFor("a")
	m.Put("a", 2)
	second := m.slotFor("a")
	if first != second {
		t.Fatal("same key must route to the same shard every time")
	}
}

func TestShard_PinAndUnpin(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Put("a", 1)
	m.Pin("a")
	m.Unpin("a")
	if !m.Contains("a") {
		t.Fatal("want still present")
	}
}

func TestShard_Prefetch(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Prefetch("a", 1)
	st := m.Statistics()
	if st.PrefetchedItems != 1 {
		t.Fatalf("want 1 prefetched item, got %d", st.PrefetchedItems)
	}
	if st.Hits != 0 || st.Misses != 0 {
		t.Fatal("prefetch must not affect hit/miss counters")
	}
}

func TestShard_ClearWipesEveryShard(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		m.Put(k, 1)
	}
	m.Clear()
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		if m.Contains(k) {
			t.Fatalf("want %q gone after Clear", k)
		}
	}
}

func TestShard_ResetStatisticsZeroesAggregate(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Put("a", 1)
	_, _ = m.Get("a")
	_, _ = m.Get("missing")

	m.ResetStatistics()
	st := m.Statistics()
	if st.Hits != 0 || st.Misses != 0 || st.TotalAccesses != 0 {
		t.Fatalf("want zeroed aggregate stats, got %+v", st)
	}
}

func TestShard_StatisticsAggregatesAcrossShards(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	for i := 0; i < 8; i++ {
		k := string(rune('a' + i))
		m.Put(k, i)
		_, _ = m.Get(k)
	}
	_, _ = m.Get("nope-1")
	_, _ = m.Get("nope-2")

	st := m.Statistics()
	if st.Hits != 8 {
		t.Fatalf("want 8 hits, got %d", st.Hits)
	}
	if st.Misses != 2 {
		t.Fatalf("want 2 misses, got %d", st.Misses)
	}
	wantRate := float64(8) / float64(10) * 100
	if st.HitRate != wantRate {
		t.Fatalf("want hit rate %v, got %v", wantRate, st.HitRate)
	}
}

func TestShard_AsyncPutGet(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	h := m.PutAsync("a", 1)
	if _, err := h.Wait(); err != nil {
		t.Fatalf("PutAsync failed: %v", err)
	}

	gh := m.GetAsync("a")
	v, err := gh.Wait()
	if err != nil || v != 1 {
		t.Fatalf("want 1, nil; got %v, %v", v, err)
	}

	cs := m.ConcurrentStatistics()
	if cs.TotalAsync != 2 || cs.CompletedAsync != 2 {
		t.Fatalf("want 2 total/completed async ops, got %+v", cs)
	}
}

func TestShard_AsyncGetMissFailsTask(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	h := m.GetAsync("missing")
	_, err := h.Wait()
	if err == nil {
		t.Fatal("want error on miss")
	}
	if !cache.IsNotFound(err) {
		t.Fatalf("want a not-found error, got %v", err)
	}

	cs := m.ConcurrentStatistics()
	if cs.FailedAsync != 1 {
		t.Fatalf("want 1 failed async op, got %+v", cs)
	}
}

func TestShard_PutBatchAsyncAppliesAllInOrder(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	items := []manager.KV[string, int]{
		{Key: "a", Val: 1},
		{Key: "b", Val: 2},
		{Key: "c", Val: 3},
	}
	h := m.PutBatchAsync(items)
	if _, err := h.Wait(); err != nil {
		t.Fatalf("PutBatchAsync failed: %v", err)
	}
	for _, it := range items {
		v, err := m.Get(it.Key)
		if err != nil || v != it.Val {
			t.Fatalf("want %d for %q, got %v, %v", it.Val, it.Key, v, err)
		}
	}
}

func TestShard_GetBatchAsyncPerItemSentinels(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.Put("a", 1)
	m.Put("c", 3)

	h := m.GetBatchAsync([]string{"a", "b", "c"})
	results, err := h.Wait()
	if err != nil {
		t.Fatalf("GetBatchAsync task failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}
	if results[0].Key != "a" || results[0].Err != nil || results[0].Val != 1 {
		t.Fatalf("unexpected result[0]: %+v", results[0])
	}
	if results[1].Key != "b" || results[1].Err == nil {
		t.Fatalf("want per-item sentinel error for missing key b, got %+v", results[1])
	}
	if results[2].Key != "c" || results[2].Err != nil || results[2].Val != 3 {
		t.Fatalf("unexpected result[2]: %+v", results[2])
	}
}

func TestShard_WarmupAsyncDoesNotAffectHitMiss(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	data := []manager.KV[string, int]{{Key: "a", Val: 1}, {Key: "b", Val: 2}}
	h := m.WarmupAsync(data)
	if _, err := h.Wait(); err != nil {
		t.Fatalf("WarmupAsync failed: %v", err)
	}
	st := m.Statistics()
	if st.PrefetchedItems != 2 {
		t.Fatalf("want 2 prefetched items, got %d", st.PrefetchedItems)
	}
	if st.Hits != 0 || st.Misses != 0 {
		t.Fatal("warmup must not affect hit/miss counters")
	}
}

func TestShard_GetOrLoadCoalescesConcurrentLoads(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	var calls int
	loaded := make(chan struct{})
	started := make(chan struct{})

	load := func(ctx context.Context, k string) (int, error) {
		calls++
		close(started)
		<-loaded
		return 42, nil
	}

	type res struct {
		v   int
		err error
	}
	results := make(chan res, 2)
	go func() {
		v, err := m.GetOrLoad(context.Background(), "k", load)
		results <- res{v, err}
	}()

	<-started
	go func() {
		v, err := m.GetOrLoad(context.Background(), "k", load)
		results <- res{v, err}
	}()

	// Give the second caller a moment to join the in-flight call before
	// releasing the loader.
	time.Sleep(10 * time.Millisecond)
	close(loaded)

	for i := 0; i < 2; i++ {
		r := <-results
		if r.err != nil || r.v != 42 {
			t.Fatalf("want 42, nil; got %v, %v", r.v, r.err)
		}
	}
	if calls != 1 {
		t.Fatalf("want loader called exactly once, got %d", calls)
	}
}

func TestShard_GetOrLoadPropagatesLoaderError(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	wantErr := errors.New("boom")
	_, err := m.GetOrLoad(context.Background(), "k", func(ctx context.Context, k string) (int, error) {
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("want %v, got %v", wantErr, err)
	}
	if m.Contains("k") {
		t.Fatal("a failed load must not populate the cache")
	}
}

func TestShard_BackgroundOptimizationStartStopIdempotent(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.StartBackgroundOptimization()
	m.StartBackgroundOptimization()
	m.StopBackgroundOptimization()
	m.StopBackgroundOptimization()
}

func TestShard_PeriodicCleanupScheduleAndStop(t *testing.T) {
	t.Parallel()

	m := newManager(t)
	m.SchedulePeriodicCleanup(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	m.StopPeriodicCleanup()
	// Rescheduling after stop must not hang or panic.
	m.SchedulePeriodicCleanup(5 * time.Millisecond)
	m.StopPeriodicCleanup()
}

func TestShard_CloseIsIdempotentAndStopsCleanup(t *testing.T) {
	t.Parallel()

	m := New[string, int](Options[string, int]{
		Capacity: 8,
		Shards:   2,
		Kind:     policy.LRU,
		Workers:  2,
	})
	m.SchedulePeriodicCleanup(5 * time.Millisecond)
	m.Close()
	m.Close() // must not block or panic
}
