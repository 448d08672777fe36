package shard

import (
	"time"
)

// runOptimizationLoop is the always-on background loop started once in
// New. It wakes every interval and, only while the optimization flag is
// set via StartBackgroundOptimization, runs one optimization pass across
// every shard. It exits when optimizationStop is closed.
func (m *Manager[K, V]) runOptimizationLoop(interval time.Duration) {
	defer close(m.optimizationDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.optimizationStop:
			return
		case <-ticker.C:
			if m.optimizationFlag.Load() {
				m.applyOptimizationPass()
			}
		}
	}
}

// applyOptimizationPass asks every shard's inner manager for an advisory
// and logs it. Per §4.5, background workers never propagate panics out —
// they log and continue — so each shard is visited inside a recover.
func (m *Manager[K, V]) applyOptimizationPass() {
	for i, s := range m.slots {
		m.visitShardSafely(i, s)
	}
}

func (m *Manager[K, V]) visitShardSafely(idx int, s *slot[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic during background optimization pass", "shard", idx, "panic", r)
		}
	}()

	s.mu.Lock()
	advisory, ok := s.mgr.OptimizeForWorkload()
	s.mu.Unlock()

	if ok {
		m.logger.Info("optimization advisory",
			"shard", idx,
			"reason", advisory.Reason,
			"hit_rate", advisory.HitRate,
			"total_accesses", advisory.TotalAccesses,
		)
	}
}

// StartBackgroundOptimization idempotently enables the optimization pass
// on the loop already running in the background. It does not start a new
// goroutine; it only flips the flag the existing loop polls.
func (m *Manager[K, V]) StartBackgroundOptimization() {
	m.optimizationFlag.Store(true)
}

// StopBackgroundOptimization idempotently disables the optimization pass.
// The polling loop itself keeps running (it only stops for good in Close)
// so a later StartBackgroundOptimization can resume without delay.
func (m *Manager[K, V]) StopBackgroundOptimization() {
	m.optimizationFlag.Store(false)
}

// SchedulePeriodicCleanup starts (or replaces) a dedicated ticking
// goroutine, independent of the optimization loop, that runs an
// optimization pass every interval. Unlike StartBackgroundOptimization
// this loop has its own lifecycle: it exists only between
// SchedulePeriodicCleanup and StopPeriodicCleanup, matching §4.5's
// "separately schedulable" periodic cleanup.
func (m *Manager[K, V]) SchedulePeriodicCleanup(interval time.Duration) {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()

	if m.cleanupFlag.Load() {
		m.stopPeriodicCleanupLocked()
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	m.cleanupStop = stop
	m.cleanupDone = done
	m.cleanupFlag.Store(true)

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				m.applyOptimizationPass()
			}
		}
	}()
}

// StopPeriodicCleanup stops the loop started by SchedulePeriodicCleanup,
// if any, and waits for it to exit. A no-op if no cleanup loop is running.
func (m *Manager[K, V]) StopPeriodicCleanup() {
	m.cleanupMu.Lock()
	defer m.cleanupMu.Unlock()
	m.stopPeriodicCleanupLocked()
}

func (m *Manager[K, V]) stopPeriodicCleanupLocked() {
	if !m.cleanupFlag.Load() {
		return
	}
	close(m.cleanupStop)
	<-m.cleanupDone
	m.cleanupFlag.Store(false)
	m.cleanupStop = nil
	m.cleanupDone = nil
}
