package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

const valueLogGCJobName = "store_value_log_gc"

// ValueLogGC periodically reclaims badger value-log space, mirroring the
// ticker-driven GC loop badger-backed services run in the teacher's own
// write-ahead-log and auth-state stores. It is the storage-schema-only
// maintenance job named by the store configuration's ValueLogGC interval.
type ValueLogGC struct {
	store    *store.Store
	interval time.Duration
	logger   *slog.Logger
}

// NewValueLogGC constructs the GC service. A non-positive interval
// disables the job: Serve runs no GC and returns only once ctx is canceled.
func NewValueLogGC(st *store.Store, interval time.Duration, logger *slog.Logger) *ValueLogGC {
	return &ValueLogGC{
		store:    st,
		interval: interval,
		logger:   logger.With("job", valueLogGCJobName),
	}
}

// String identifies the service in suture's logs.
func (g *ValueLogGC) String() string {
	return valueLogGCJobName
}

// Serve implements suture.Service: it runs badger's value-log GC once per
// tick until ctx is canceled. badger.ErrNoRewrite (nothing to reclaim this
// pass) is expected steady-state behavior, not a failure.
func (g *ValueLogGC) Serve(ctx context.Context) error {
	if g.interval <= 0 {
		g.logger.Info("value log gc disabled (non-positive interval)")
		<-ctx.Done()
		return ctx.Err()
	}

	g.logger.Info("value log gc starting", "interval", g.interval)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.runOnce()
		}
	}
}

func (g *ValueLogGC) runOnce() {
	for {
		err := g.store.RunValueLogGC(0.5)
		if err == nil {
			continue
		}
		if errors.Is(err, badger.ErrNoRewrite) {
			return
		}
		g.logger.Warn("value log gc run failed", "error", err)
		return
	}
}
