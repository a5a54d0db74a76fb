package config

import (
	"github.com/Heartcoolman/wordforge-sub000/internal/logging"
	"github.com/Heartcoolman/wordforge-sub000/internal/supervisor"
)

// ToLoggingConfig adapts the koanf-tagged LoggingConfig to
// internal/logging.Config.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:     l.Level,
		Format:    l.Format,
		Caller:    l.Caller,
		Timestamp: l.Timestamp,
	}
}

// ToTreeConfig adapts the koanf-tagged SupervisorConfig to
// internal/supervisor.TreeConfig.
func (s SupervisorConfig) ToTreeConfig() supervisor.TreeConfig {
	return supervisor.TreeConfig{
		FailureThreshold: s.FailureThreshold,
		FailureDecay:     s.FailureDecay,
		FailureBackoff:   s.FailureBackoff,
		ShutdownTimeout:  s.ShutdownTimeout,
	}
}
