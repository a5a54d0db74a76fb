package monitor

import (
	"context"
	"strings"
	"testing"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
	"github.com/Heartcoolman/wordforge-sub000/internal/store"
)

func TestCheckInvariantsFlagsOutOfRangeAttention(t *testing.T) {
	result := amas.ProcessResult{
		State:    amas.UserState{Attention: 1.5, Confidence: 0.5, Motivation: 0.1},
		Strategy: amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.3, BatchSize: 5},
	}
	violations := CheckInvariants(result)
	if len(violations) != 1 || violations[0].Field != "attention" {
		t.Errorf("expected exactly one 'attention' violation, got %+v", violations)
	}
}

func TestCheckInvariantsFlagsZeroBatchSize(t *testing.T) {
	result := amas.ProcessResult{
		State:    amas.UserState{Attention: 0.5, Confidence: 0.5, Motivation: 0.1},
		Strategy: amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.3, BatchSize: 0},
	}
	violations := CheckInvariants(result)
	found := false
	for _, v := range violations {
		if v.Field == "batch_size" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a batch_size violation, got %+v", violations)
	}
}

func TestShouldSampleAlwaysSamplesAnomalies(t *testing.T) {
	if !ShouldSample(true, nil, 0.0) {
		t.Error("expected an anomaly to always be sampled regardless of sample rate")
	}
}

func TestShouldSampleAlwaysSamplesColdStart(t *testing.T) {
	phase := amas.ColdStartClassify
	if !ShouldSample(false, &phase, 0.0) {
		t.Error("expected a cold-start event to always be sampled regardless of sample rate")
	}
}

func TestShouldSampleRespectsRateAtExtremes(t *testing.T) {
	if ShouldSample(false, nil, 0.0) {
		t.Error("expected sample rate 0.0 to never sample a non-anomalous, non-cold-start event")
	}
	if !ShouldSample(false, nil, 1.0) {
		t.Error("expected sample rate 1.0 to always sample")
	}
}

func TestRecordEventPersistsUnderReverseTimestampKey(t *testing.T) {
	st, err := store.Open(store.Options{InMemory: true})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = st.Close() }()

	ctx := context.Background()
	result := amas.ProcessResult{
		State:    amas.UserState{Attention: 0.5, Confidence: 0.5, Motivation: 0.1},
		Strategy: amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.3, BatchSize: 5},
	}

	RecordEvent(ctx, st, "user-1", "session-1", result, 10, amas.MonitoringConfig{SampleRate: 1.0}, result.Strategy)

	var suffixes []string
	if err := st.ScanTree(ctx, store.TreeMonitoringEvents, "", 0, func(suffix string, _ []byte) error {
		suffixes = append(suffixes, suffix)
		return nil
	}); err != nil {
		t.Fatalf("ScanTree: %v", err)
	}
	if len(suffixes) != 1 {
		t.Fatalf("expected exactly one persisted event, got %d", len(suffixes))
	}

	parts := strings.SplitN(suffixes[0], ":", 2)
	if len(parts) != 2 {
		t.Fatalf("expected a %q-delimited reverse-timestamp key, got %q", ":", suffixes[0])
	}
	if len(parts[0]) != 20 {
		t.Errorf("expected a 20-digit reverse-timestamp prefix, got %q (len %d)", parts[0], len(parts[0]))
	}
	for _, r := range parts[0] {
		if r < '0' || r > '9' {
			t.Fatalf("expected the key prefix to be all digits, got %q", parts[0])
		}
	}
}
