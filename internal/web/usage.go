package web

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// usageCounters accumulates local usage statistics. Counts are only
// ever logged on this machine; there is no remote reporting.
type usageCounters struct {
	mu       sync.Mutex
	interval time.Duration
	requests map[string]int64
	packs    int64
}

func newUsageCounters(interval time.Duration) *usageCounters {
	return &usageCounters{
		interval: interval,
		requests: make(map[string]int64),
	}
}

func (u *usageCounters) recordRequest(route string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests[route]++
}

func (u *usageCounters) recordPack() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.packs++
}

func (u *usageCounters) snapshot() (map[string]int64, int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make(map[string]int64, len(u.requests))
	for route, n := range u.requests {
		out[route] = n
	}
	return out, u.packs
}

// logLoop periodically logs accumulated counters until done closes.
func (u *usageCounters) logLoop(logger *zap.Logger, done <-chan struct{}) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			requests, packs := u.snapshot()
			var total int64
			for _, n := range requests {
				total += n
			}
			logger.Info("usage stats",
				zap.Int64("requests", total),
				zap.Int64("packs", packs),
				zap.Any("routes", requests),
			)
		}
	}
}
