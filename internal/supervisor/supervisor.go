// Package supervisor runs the two periodic background workers: eviction of
// stale reassembly entries and rate reporting of the two counters. Each
// worker owns its own timer and never touches the dispatcher's queue.
package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/alxayo/gelflb/internal/balancer"
	"github.com/alxayo/gelflb/internal/logger"
	"github.com/alxayo/gelflb/internal/reassembly"
)

// EvictionInterval and staleness threshold are both 10 seconds per the
// documented default.
const EvictionInterval = 10 * time.Second

// ReportInterval is the cadence of the rate-reporting worker.
const ReportInterval = 5 * time.Minute

// RunEviction evicts reassembly entries older than EvictionInterval every
// EvictionInterval, until ctx is cancelled. It returns immediately if table
// is nil (mutation not required, so the table is never populated).
func RunEviction(ctx context.Context, table *reassembly.Table) {
	if table == nil {
		return
	}
	log := logger.Logger()
	ticker := time.NewTicker(EvictionInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-EvictionInterval)
			if n := table.EvictOlderThan(threshold); n > 0 {
				log.Info("evicted stale reassembly entries", "count", n)
			}
		}
	}
}

// RunReporting samples both counters every ReportInterval and logs the
// deltas over the interval. Counters are never reset.
func RunReporting(ctx context.Context, counters *balancer.Counters) {
	log := logger.Logger()
	ticker := time.NewTicker(ReportInterval)
	defer ticker.Stop()

	lastHandled, lastForwarded := counters.Snapshot()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			handled, forwarded := counters.Snapshot()
			logRates(log, handled-lastHandled, forwarded-lastForwarded, handled, forwarded)
			lastHandled, lastForwarded = handled, forwarded
		}
	}
}

func logRates(log *slog.Logger, handledDelta, forwardedDelta, handledTotal, forwardedTotal uint64) {
	log.Info("counter report",
		"handled_delta", handledDelta,
		"forwarded_delta", forwardedDelta,
		"handled_total", handledTotal,
		"forwarded_total", forwardedTotal,
	)
}
