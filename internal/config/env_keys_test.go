package config

import "testing"

func TestEnvTransformFuncPreservesMultiWordLeafKeys(t *testing.T) {
	cases := map[string]string{
		"AMASD_STORE_IN_MEMORY":                     "store.in_memory",
		"AMASD_STORE_VALUE_LOG_GC":                  "store.value_log_gc",
		"AMASD_METRICS_LISTEN_ADDR":                 "metrics.listen_addr",
		"AMASD_SERVER_HEALTH_ADDR":                  "server.health_addr",
		"AMASD_SUPERVISOR_FAILURE_BACKOFF":           "supervisor.failure_backoff",
		"AMASD_JOBS_MAX_DELETIONS_PER_RUN":           "jobs.max_deletions_per_run",
		"AMASD_AMAS_MONITORING_SAMPLE_RATE":          "amas.monitoring.sample_rate",
		"AMASD_AMAS_FEATURE_FLAGS_ENSEMBLE_ENABLED": "amas.feature_flags.ensemble_enabled",
	}
	for env, want := range cases {
		if got := envTransformFunc(env); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", env, got, want)
		}
	}
}

func TestEnvTransformFuncFallsBackForUnknownKeys(t *testing.T) {
	got := envTransformFunc("AMASD_SOME_UNKNOWN_FIELD")
	want := "some.unknown.field"
	if got != want {
		t.Errorf("envTransformFunc(unknown) = %q, want %q", got, want)
	}
}

func TestEnvKeyToPathCoversEveryLeafOfDefaultConfig(t *testing.T) {
	if len(envKeyToPath) == 0 {
		t.Fatal("expected envKeyToPath to be populated from Config's koanf tags")
	}
	if _, ok := envKeyToPath["STORE_PATH"]; !ok {
		t.Error("expected STORE_PATH to be present in envKeyToPath")
	}
}
