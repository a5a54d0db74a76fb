package config

import "fmt"

// Validate checks every sub-config's invariants, delegating the AMAS
// engine surface to its own Validate (already exercised by
// internal/amas's tests) and checking the ambient layers' own ranges here.
func (c Config) Validate() error {
	if err := c.AMAS.Validate(); err != nil {
		return fmt.Errorf("amas: %w", err)
	}

	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("store: path must not be empty unless in_memory is set")
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging: format must be \"json\" or \"console\", got %q", c.Logging.Format)
	}

	if c.Supervisor.FailureThreshold <= 0 {
		return fmt.Errorf("supervisor: failure_threshold must be positive")
	}
	if c.Supervisor.FailureBackoff <= 0 {
		return fmt.Errorf("supervisor: failure_backoff must be positive")
	}
	if c.Supervisor.ShutdownTimeout <= 0 {
		return fmt.Errorf("supervisor: shutdown_timeout must be positive")
	}

	if c.Jobs.RetentionSweepInterval <= 0 {
		return fmt.Errorf("jobs: retention_sweep_interval must be positive")
	}
	if c.Jobs.RetentionWindow <= 0 {
		return fmt.Errorf("jobs: retention_window must be positive")
	}
	if c.Jobs.ConsistencySampleInterval <= 0 {
		return fmt.Errorf("jobs: consistency_sample_interval must be positive")
	}
	if c.Jobs.UserBatchSize <= 0 {
		return fmt.Errorf("jobs: user_batch_size must be positive")
	}
	if c.Jobs.MaxDueEntriesPerUser <= 0 {
		return fmt.Errorf("jobs: max_due_entries_per_user must be positive")
	}

	if c.Server.HealthAddr == "" {
		return fmt.Errorf("server: health_addr must not be empty")
	}
	if c.Metrics.ListenAddr == "" {
		return fmt.Errorf("metrics: listen_addr must not be empty")
	}

	return nil
}
