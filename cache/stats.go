package cache

import "time"

// Statistics is a point-in-time snapshot of a cache's counters. HitRate is
// recomputed on every hit or miss rather than lazily here, so reading a
// snapshot never does floating-point work under the caller's lock.
type Statistics struct {
	Hits            uint64
	Misses          uint64
	Evictions       uint64
	TotalAccesses   uint64
	PrefetchedItems uint64
	PinnedItems     int
	HitRate         float64
	LastReset       time.Time
}

func (s *Statistics) recordHit() {
	s.Hits++
	s.TotalAccesses++
	s.recomputeHitRate()
}

func (s *Statistics) recordMiss() {
	s.Misses++
	s.TotalAccesses++
	s.recomputeHitRate()
}

func (s *Statistics) recomputeHitRate() {
	denom := s.Hits + s.Misses
	if denom == 0 {
		denom = 1
	}
	s.HitRate = float64(s.Hits) / float64(denom) * 100
}

func (s *Statistics) reset(now time.Time) {
	*s = Statistics{LastReset: now}
}
