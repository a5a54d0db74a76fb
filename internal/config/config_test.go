package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate, got %v", err)
	}
}

func TestValidateRejectsBadAMASConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AMAS.Ensemble.MinWeight = 10.0

	if err := cfg.Validate(); err == nil {
		t.Error("expected an invalid AMAS sub-config to fail validation")
	}
}

func TestValidateRejectsEmptyStorePathWhenNotInMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Path = ""
	cfg.Store.InMemory = false

	if err := cfg.Validate(); err == nil {
		t.Error("expected an empty store path to fail validation when not in-memory")
	}
}

func TestValidateAllowsEmptyStorePathWhenInMemory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.Path = ""
	cfg.Store.InMemory = true

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected an in-memory store to tolerate an empty path, got %v", err)
	}
}

func TestValidateRejectsUnknownLoggingFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); err == nil {
		t.Error("expected an unknown logging format to fail validation")
	}
}

func TestValidateRejectsEmptyHealthAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.HealthAddr = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected an empty health_addr to fail validation")
	}
}

func TestValidateRejectsEmptyMetricsListenAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics.ListenAddr = ""

	if err := cfg.Validate(); err == nil {
		t.Error("expected an empty metrics listen_addr to fail validation")
	}
}

func TestValidateRejectsNonPositiveJobIntervals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jobs.RetentionSweepInterval = 0

	if err := cfg.Validate(); err == nil {
		t.Error("expected a zero retention sweep interval to fail validation")
	}
}

func TestToLoggingConfigCarriesFieldsThrough(t *testing.T) {
	l := LoggingConfig{Level: "debug", Format: "console", Caller: true, Timestamp: false}
	got := l.ToLoggingConfig()
	if got.Level != "debug" || got.Format != "console" || !got.Caller || got.Timestamp {
		t.Errorf("expected fields to carry through unchanged, got %+v", got)
	}
}

func TestToTreeConfigCarriesFieldsThrough(t *testing.T) {
	s := SupervisorConfig{FailureThreshold: 7, FailureDecay: 42}
	got := s.ToTreeConfig()
	if got.FailureThreshold != 7 || got.FailureDecay != 42 {
		t.Errorf("expected fields to carry through unchanged, got %+v", got)
	}
}
