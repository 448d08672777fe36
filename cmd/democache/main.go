// Command democache runs a synthetic workload against the sharded cache
// engine and exposes Prometheus metrics plus optional pprof endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ankyy-yy/multi-threaded-fs/metrics/prom"
	"github.com/ankyy-yy/multi-threaded-fs/policy"
	"github.com/ankyy-yy/multi-threaded-fs/shard"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	var (
		capacity = flag.Int("cap", 100_000, "total cache capacity (entries)")
		shards   = flag.Int("shards", 0, "number of shards (0=auto)")
		kindFlag = flag.String("policy", "lru", "eviction policy: lru | lfu | fifo | lifo")
		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "worker pool size")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		cleanupInterval = flag.Duration("cleanup", 5*time.Second, "periodic background cleanup interval")
		pprofAddr       = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr     = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	kind, err := policy.ParseKind(*kindFlag)
	if err != nil {
		logger.Error("bad policy flag", "err", err)
		os.Exit(2)
	}

	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof serving", "addr", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	entryMetrics := prom.New(nil, "democache", "engine", nil)
	concurrentMetrics := prom.NewConcurrentAdapter(nil, "democache", "engine", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		logger.Info("metrics serving", "addr", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	m := shard.New[string, string](shard.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Kind:     kind,
		Workers:  *workers,
		Metrics:  entryMetrics,
		Logger:   logger,
	})
	defer m.Close()

	// Background maintenance: an always-available optimization advisory
	// loop, turned on for this run, plus a separately scheduled periodic
	// cleanup pass. The concurrent-stats Prometheus gauges are refreshed by
	// their own collector on the same interval.
	m.StartBackgroundOptimization()
	defer m.StopBackgroundOptimization()
	m.SchedulePeriodicCleanup(*cleanupInterval)
	defer m.StopPeriodicCleanup()

	stopMetricsCollector := collectConcurrentMetrics(m, concurrentMetrics, *cleanupInterval)
	defer stopMetricsCollector()

	// Preload roughly half capacity for a realistic hit rate.
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		m.Put(k, "v"+strconv.Itoa(i))
	}

	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()

			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, err := m.Get(keyByZipf()); err == nil {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					k := keyByZipf()
					m.Put(k, "v"+strconv.Itoa(localR.Int()))
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		kind, *capacity, m.Shards(), workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)

	cs := m.ConcurrentStatistics()
	fmt.Printf("async: total=%d completed=%d failed=%d avg-latency=%v\n",
		cs.TotalAsync, cs.CompletedAsync, cs.FailedAsync, cs.RunningAvgLatency)
}

// collectConcurrentMetrics periodically pushes the manager's
// ConcurrentStatistics into the Prometheus gauges, since that layer of
// bookkeeping lives above the per-entry cache.Metrics interface and is
// never pushed automatically.
func collectConcurrentMetrics(m *shard.Manager[string, string], a *prom.ConcurrentAdapter, interval time.Duration) func() {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.Collect(m.ConcurrentStatistics())
			}
		}
	}()
	return func() {
		close(stop)
		<-done
	}
}
