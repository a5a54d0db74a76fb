// Package config loads the amasd/amasctl configuration surface: engine
// tuning (internal/amas), storage, logging, metrics, the background job
// supervisor, and the ambient health/metrics server, layered defaults ->
// optional YAML file -> environment variables via koanf, the same
// precedence and provider stack the teacher's own internal/config uses.
package config

import (
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/jobs"
)

// Config is the top-level configuration root for cmd/wordforge-amasd and
// cmd/wordforge-amasctl.
type Config struct {
	Store      StoreConfig      `koanf:"store"`
	Logging    LoggingConfig    `koanf:"logging"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Server     ServerConfig     `koanf:"server"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
	Jobs       jobs.Config      `koanf:"jobs"`
	AMAS       amas.Config      `koanf:"amas"`
}

// StoreConfig configures the badger-backed persistence layer.
type StoreConfig struct {
	// Path is the on-disk directory badger manages.
	Path string `koanf:"path"`
	// InMemory forces an in-memory store, used by tests and local demos.
	InMemory bool `koanf:"in_memory"`
	// ValueLogGC is how often the background value-log GC sweep runs.
	// Non-positive disables it.
	ValueLogGC time.Duration `koanf:"value_log_gc"`
}

// LoggingConfig mirrors internal/logging.Config with koanf tags; Load
// translates it via ToLoggingConfig.
type LoggingConfig struct {
	Level     string `koanf:"level"`
	Format    string `koanf:"format"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// MetricsConfig configures where the Prometheus exposition endpoint
// listens. This is the same process as Server; the two are kept distinct
// in configuration because an operator may want them on separate
// interfaces (metrics bound to a private network, health public).
type MetricsConfig struct {
	ListenAddr string `koanf:"listen_addr"`
}

// ServerConfig configures the ambient HTTP surface: liveness only. No
// business routing, authentication, or rate limiting lives here or
// anywhere in this binary.
type ServerConfig struct {
	HealthAddr string `koanf:"health_addr"`
}

// SupervisorConfig mirrors internal/supervisor.TreeConfig with koanf tags.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// DefaultConfig returns every sub-config at its documented default value.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Path:       "./data/amas.badger",
			InMemory:   false,
			ValueLogGC: 10 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Caller:    false,
			Timestamp: true,
		},
		Metrics: MetricsConfig{
			ListenAddr: "0.0.0.0:9090",
		},
		Server: ServerConfig{
			HealthAddr: "0.0.0.0:8080",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
		Jobs: jobs.DefaultConfig(),
		AMAS: amas.DefaultConfig(),
	}
}
