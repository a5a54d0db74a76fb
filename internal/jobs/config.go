package jobs

import "time"

// Config governs the two background jobs the supervisor tree runs:
// the monitoring retention sweep and the due-index consistency sampler.
type Config struct {
	// RetentionSweepInterval is how often the sweep runs.
	RetentionSweepInterval time.Duration `koanf:"retention_sweep_interval"`
	// RetentionWindow is the age past which a persisted monitoring event
	// is deleted.
	RetentionWindow time.Duration `koanf:"retention_window"`
	// MaxDeletionsPerRun caps how many stale events one sweep removes, so
	// a backlog built up while the job was down gets worked off over
	// several runs instead of stalling everything else on one giant
	// transaction.
	MaxDeletionsPerRun int `koanf:"max_deletions_per_run"`

	// ConsistencySampleInterval is how often the due-index sampler runs.
	ConsistencySampleInterval time.Duration `koanf:"consistency_sample_interval"`
	// UserBatchSize is how many users the sampler pages through per run.
	UserBatchSize int `koanf:"user_batch_size"`
	// MaxDueEntriesPerUser caps how many due-index entries the sampler
	// inspects for a single user per run.
	MaxDueEntriesPerUser int `koanf:"max_due_entries_per_user"`
}

// DefaultConfig returns the defaults both jobs run with absent explicit
// configuration.
func DefaultConfig() Config {
	return Config{
		RetentionSweepInterval:    1 * time.Hour,
		RetentionWindow:           30 * 24 * time.Hour,
		MaxDeletionsPerRun:        5000,
		ConsistencySampleInterval: 15 * time.Minute,
		UserBatchSize:             100,
		MaxDueEntriesPerUser:      500,
	}
}
