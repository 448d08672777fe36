package shard

import (
	"log/slog"
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/cache"
	"github.com/ankyy-yy/multi-threaded-fs/policy"
)

// Options configures a sharded concurrent Manager.
type Options[K comparable, V any] struct {
	// Capacity is the total entry-count budget across all shards. Each
	// shard gets max(1, Capacity/Shards), per §4.4.
	Capacity int

	// Shards is the shard count N. 0 picks a heuristic default
	// (util.ReasonableShardCount).
	Shards int

	// Kind selects the eviction discipline every shard's inner cache
	// uses. The zero value is policy.LRU.
	Kind policy.Kind

	// Workers sizes the background worker pool driving *Async
	// operations. 0 picks a heuristic default (runtime.GOMAXPROCS,
	// clamped to a minimum of 2 by package workerpool).
	Workers int

	// OptimizationInterval is how often the always-running optimization
	// loop wakes to check the optimization flag. 0 defaults to 1s.
	OptimizationInterval time.Duration

	OnEvict func(k K, v V, reason cache.EvictReason)
	Metrics cache.Metrics
	Clock   cache.Clock
	Logger  *slog.Logger
}
