// Package jobs implements the background services the supervisor tree
// runs under store.TreeMonitoringEvents and store.TreeWordDueIndex: a
// retention sweep that ages out old monitoring events, a consistency
// sampler that repairs due-index drift left behind by mastered words, and
// a value-log GC sweep that reclaims badger disk space. Each job's
// contract with the scheduling core is the storage schema alone; none
// implement any learner-facing business rule.
package jobs

import (
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/Heartcoolman/wordforge-sub000/internal/store"
	"github.com/Heartcoolman/wordforge-sub000/internal/supervisor"
)

// Register builds every background job and adds it to tree, returning the
// retention sweep and consistency sampler's service tokens in case a
// caller needs to remove one individually (tests, or an operator pausing a
// job). valueLogGCInterval is StoreConfig.ValueLogGC, passed separately
// since it configures storage rather than job scheduling.
func Register(tree *supervisor.SupervisorTree, st *store.Store, cfg Config, valueLogGCInterval time.Duration, logger *slog.Logger) (sweep, sampler suture.ServiceToken) {
	sweep = tree.AddJob(NewRetentionSweep(st, cfg, logger))
	sampler = tree.AddJob(NewConsistencySampler(st, cfg, logger))
	tree.AddJob(NewValueLogGC(st, valueLogGCInterval, logger))
	return sweep, sampler
}
