package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/amas/memory"
	"github.com/Heartcoolman/wordforge-sub000/internal/metrics"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

const consistencySamplerJobName = "due_index_consistency_sampler"

// ConsistencySampler periodically pages through users and cross-checks
// each one's word-due index against that word's mastery state, repairing
// the one drift mode that's cheap to detect and safe to fix on sight: a
// due-index entry left behind for a word whose mastery state has since
// moved to MASTERED. Everything else it finds (a due entry with no
// mastery record at all) is logged but left alone, since that can
// legitimately happen for a word queued before its first review.
type ConsistencySampler struct {
	store  *store.Store
	config Config
	logger *slog.Logger
	inRun  atomic.Bool
}

// NewConsistencySampler constructs the sampler service.
func NewConsistencySampler(st *store.Store, cfg Config, logger *slog.Logger) *ConsistencySampler {
	return &ConsistencySampler{
		store:  st,
		config: cfg,
		logger: logger.With("job", consistencySamplerJobName),
	}
}

// String identifies the service in suture's logs.
func (c *ConsistencySampler) String() string {
	return consistencySamplerJobName
}

// Serve implements suture.Service.
func (c *ConsistencySampler) Serve(ctx context.Context) error {
	interval := c.config.ConsistencySampleInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	c.logger.Info("due-index consistency sampler starting", "interval", interval)

	c.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("due-index consistency sampler shutting down")
			return ctx.Err()
		case <-ticker.C:
			c.runOnce(ctx)
		}
	}
}

func (c *ConsistencySampler) runOnce(ctx context.Context) {
	if !c.inRun.CompareAndSwap(false, true) {
		metrics.RecordBackgroundJobSkipped(consistencySamplerJobName)
		c.logger.Warn("consistency sampler still running, skipping this tick")
		return
	}
	defer c.inRun.Store(false)

	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	start := time.Now()
	checked, repaired, err := c.sampleOnce(runCtx)
	metrics.RecordBackgroundJob(consistencySamplerJobName, time.Since(start))

	if err != nil {
		c.logger.Error("consistency sample failed", "error", err, "checked", checked, "repaired", repaired)
		return
	}
	c.logger.Info("consistency sample complete", "checked", checked, "repaired", repaired, "duration", time.Since(start))
}

// sampleOnce pages through up to UserBatchSize users (store.TreeUsers has
// no secondary index to resume a prior page from, so every run samples
// from the start of the user tree; in a long-lived deployment this biases
// toward early-registered users, which is acceptable for a sampler whose
// job is trend detection rather than exhaustive repair).
func (c *ConsistencySampler) sampleOnce(ctx context.Context) (checked, repaired int, err error) {
	batchSize := c.config.UserBatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	maxPerUser := c.config.MaxDueEntriesPerUser
	if maxPerUser <= 0 {
		maxPerUser = 500
	}

	var users []string
	scanErr := c.store.ScanTree(ctx, store.TreeUsers, "", batchSize, func(suffix string, _ []byte) error {
		users = append(users, suffix)
		return nil
	})
	if scanErr != nil {
		return 0, 0, scanErr
	}

	for _, userID := range users {
		n, r, userErr := c.sampleUser(ctx, userID, maxPerUser)
		checked += n
		repaired += r
		if userErr != nil {
			c.logger.Warn("failed sampling user due index", "user_id", userID, "error", userErr)
			continue
		}
	}
	return checked, repaired, nil
}

func (c *ConsistencySampler) sampleUser(ctx context.Context, userID string, maxPerUser int) (checked, repaired int, err error) {
	prefix, err := store.WordDueIndexPrefix(userID)
	if err != nil {
		return 0, 0, err
	}

	var dueSuffixes []string
	err = c.store.ScanTree(ctx, store.TreeWordDueIndex, prefix, maxPerUser, func(suffix string, _ []byte) error {
		dueSuffixes = append(dueSuffixes, suffix)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	for _, suffix := range dueSuffixes {
		_, wordID, ok := store.ParseDueIndexItemKey([]byte(suffix))
		if !ok {
			continue
		}
		checked++

		masteryKey, keyErr := store.EngineAlgoStateKey(userID, "mastery:"+wordID)
		if keyErr != nil {
			continue
		}
		var state memory.WordMasteryState
		getErr := c.store.GetTree(ctx, store.TreeEngineAlgorithmState, "mastery_state", masteryKey, &state)
		if getErr != nil {
			// No mastery record yet: the word may simply not have been
			// reviewed since being queued. Not a drift to repair.
			continue
		}
		if state.MasteryLevel != amas.MasteryMastered {
			continue
		}

		if delErr := c.store.DeleteTree(ctx, store.TreeWordDueIndex, suffix); delErr != nil {
			c.logger.Warn("failed repairing stale due-index entry", "user_id", userID, "word_id", wordID, "error", delErr)
			continue
		}
		repaired++
		c.logger.Info("repaired stale due-index entry for mastered word", "user_id", userID, "word_id", wordID)
	}

	return checked, repaired, nil
}
