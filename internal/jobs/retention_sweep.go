package jobs

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/metrics"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

const retentionSweepJobName = "monitoring_retention_sweep"

// stopScan is a sentinel a scan callback returns once it has collected
// enough stale keys for this run; store.ScanTree treats any callback error
// as "stop iterating" so this never reaches a caller as a real failure.
type stopScan struct{}

func (stopScan) Error() string { return "stop scan: batch limit reached" }

// RetentionSweep periodically deletes monitoring events older than
// Config.RetentionWindow from store.TreeMonitoringEvents.
//
// Monitoring event keys are reverse-timestamp prefixed
// (store.MonitoringEventKey), so ascending iteration visits newest first
// and a monitoring event's age only ever increases as the scan proceeds:
// once one stale entry is found, every entry after it is stale too. The
// sweep exploits that to stop scanning as soon as it has collected
// MaxDeletionsPerRun keys, rather than walking the whole tree every run.
type RetentionSweep struct {
	store  *store.Store
	config Config
	logger *slog.Logger
	inRun  atomic.Bool
}

// NewRetentionSweep constructs the sweep service. It does not start
// running until Serve is called (normally via supervisor.AddJob).
func NewRetentionSweep(st *store.Store, cfg Config, logger *slog.Logger) *RetentionSweep {
	return &RetentionSweep{
		store:  st,
		config: cfg,
		logger: logger.With("job", retentionSweepJobName),
	}
}

// String identifies the service in suture's logs.
func (r *RetentionSweep) String() string {
	return retentionSweepJobName
}

// Serve implements suture.Service: it runs one sweep immediately, then one
// per RetentionSweepInterval, until ctx is canceled.
func (r *RetentionSweep) Serve(ctx context.Context) error {
	interval := r.config.RetentionSweepInterval
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	r.logger.Info("retention sweep starting", "interval", interval, "retention_window", r.config.RetentionWindow)

	r.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("retention sweep shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce performs one sweep, skipping entirely if a previous run is still
// in flight: suture restarts a failed Serve() call, but a ticker firing
// again mid-run is a separate concern this guard exists to catch. Each
// sweep runs under a five-minute timeout.
func (r *RetentionSweep) runOnce(ctx context.Context) {
	if !r.inRun.CompareAndSwap(false, true) {
		metrics.RecordBackgroundJobSkipped(retentionSweepJobName)
		r.logger.Warn("retention sweep still running, skipping this tick")
		return
	}
	defer r.inRun.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	deleted, err := r.sweepOnce(runCtx)
	metrics.RecordBackgroundJob(retentionSweepJobName, time.Since(start))

	if err != nil {
		r.logger.Error("retention sweep failed", "error", err, "deleted", deleted, "duration", time.Since(start))
		return
	}
	r.logger.Info("retention sweep complete", "deleted", deleted, "duration", time.Since(start))
}

func (r *RetentionSweep) sweepOnce(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-r.config.RetentionWindow).UnixMilli()
	maxDeletions := r.config.MaxDeletionsPerRun
	if maxDeletions <= 0 {
		maxDeletions = 5000
	}

	var stale []string
	err := r.store.ScanTree(ctx, store.TreeMonitoringEvents, "", 0, func(suffix string, _ []byte) error {
		ts, ok := parseMonitoringEventTimestamp(suffix)
		if !ok {
			return nil
		}
		if ts >= cutoff {
			return nil
		}
		stale = append(stale, suffix)
		if len(stale) >= maxDeletions {
			return stopScan{}
		}
		return nil
	})
	if err != nil {
		if _, isStop := err.(stopScan); !isStop {
			return 0, err
		}
	}

	for _, suffix := range stale {
		if delErr := r.store.DeleteTree(ctx, store.TreeMonitoringEvents, suffix); delErr != nil {
			return len(stale), delErr
		}
	}
	return len(stale), nil
}

// parseMonitoringEventTimestamp extracts the original event timestamp from
// a "{20-digit reverse timestamp}:{eventID}" monitoring event key suffix.
// Reverse timestamps are their own inverse: store.MonitoringEventKey builds
// one as math.MaxUint64-tsMs, so subtracting it back from math.MaxUint64
// recovers tsMs.
func parseMonitoringEventTimestamp(suffix string) (int64, bool) {
	parts := strings.SplitN(suffix, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	reverseTS, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, false
	}
	ts := ^uint64(0) - reverseTS
	if ts > uint64(1<<63-1) {
		ts = uint64(1<<63 - 1)
	}
	return int64(ts), true
}
