package manager

import "time"

const (
	historyWindow     = time.Hour
	historyMaxSamples = 100
	historyMinForRate = 5
	hotRateThreshold  = 0.1 // accesses per second
)

// history is the per-key access-pattern tracker described in §4.3: a
// bounded ring of recent access timestamps per key, used to estimate each
// key's access rate for hot-key ranking and workload advisories.
type history[K comparable] struct {
	samples map[K][]time.Time
}

func newHistory[K comparable]() *history[K] {
	return &history[K]{samples: make(map[K][]time.Time)}
}

// track appends now to k's sample window, dropping samples older than one
// hour and capping the window at 100 entries.
func (h *history[K]) track(k K, now time.Time) {
	s := append(h.samples[k], now)

	cutoff := now.Add(-historyWindow)
	i := 0
	for i < len(s) && s[i].Before(cutoff) {
		i++
	}
	s = s[i:]

	if len(s) > historyMaxSamples {
		s = s[len(s)-historyMaxSamples:]
	}
	h.samples[k] = s
}

// rate estimates k's access frequency in accesses/second. ok is false when
// fewer than 5 samples remain or the sample span is zero — the caller must
// fall back to a deterministic placeholder in that case.
func (h *history[K]) rate(k K) (float64, bool) {
	s := h.samples[k]
	if len(s) < historyMinForRate {
		return 0, false
	}
	span := s[len(s)-1].Sub(s[0]).Seconds()
	if span <= 0 {
		return 0, false
	}
	return float64(len(s)) / span, true
}

// isHot reports whether k's estimated access rate exceeds the documented
// threshold.
func (h *history[K]) isHot(k K) bool {
	r, ok := h.rate(k)
	return ok && r > hotRateThreshold
}

func (h *history[K]) forget(k K) {
	delete(h.samples, k)
}

func (h *history[K]) clear() {
	h.samples = make(map[K][]time.Time)
}
