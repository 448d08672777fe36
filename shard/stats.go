package shard

import "time"

// ConcurrentStats is a snapshot of the manager's own bookkeeping — distinct
// from any single shard's cache.Statistics — covering every asynchronous
// operation submitted through this manager.
type ConcurrentStats struct {
	TotalAsync        uint64
	CompletedAsync    uint64
	FailedAsync       uint64
	RunningAvgLatency time.Duration
}
