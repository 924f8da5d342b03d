// evictor.go houses the idle eviction loop for Store.  Every EvictInterval it
// scans the LRU and removes forms idle longer than IdleTTL.  LRU pressure is
// handled on insert by the cache itself.
//
// Each eviction is logged and updates Prometheus counters.
package session

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-contact/internal/metrics"
)

// Run evicts idle entries until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	t := time.NewTicker(s.evictInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.EvictIdle(); n > 0 {
				zap.S().Infow("idle sessions evicted", "count", n, "remaining", s.Len())
			}
		}
	}
}

// EvictIdle runs one idle eviction pass and returns how many entries went.
func (s *Store) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var stale []string
	s.lru.Each(func(key, val any) {
		if s.expired(val.(*Entry), now) {
			stale = append(stale, key.(string))
		}
	})

	for _, id := range stale {
		s.drop(id)
		metrics.SessionEvictTotal.Inc()
	}
	return len(stale)
}
