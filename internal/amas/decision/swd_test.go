package decision

import (
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestGenerateSWDFallsBackWithNoHistory(t *testing.T) {
	cfg := amas.DefaultConfig().SWD
	c := GenerateSWD(amas.UserState{}, SwdState{}, cfg, time.Now())
	if c.Explanation != "SWD fallback" {
		t.Errorf("expected fallback explanation, got %q", c.Explanation)
	}
}

func TestUpdateSWDTrimsHistory(t *testing.T) {
	cfg := amas.SWDConfig{MaxHistorySize: 2, FallbackConfidence: 0.3}
	var swd SwdState
	now := time.Now()
	for i := 0; i < 5; i++ {
		UpdateSWD(&swd, amas.UserState{}, amas.DefaultStrategyParams(), 0.5, cfg, now)
	}
	if len(swd.StrategyHistory) != 2 {
		t.Errorf("expected history trimmed to 2, got %d", len(swd.StrategyHistory))
	}
}

func TestGenerateSWDWeightsBySimilarity(t *testing.T) {
	cfg := amas.DefaultConfig().SWD
	now := time.Now()
	var swd SwdState
	similar := amas.UserState{Attention: 0.7, Fatigue: 0.2, Motivation: 0.1, TotalEventCount: 50}
	UpdateSWD(&swd, similar, amas.StrategyParams{Difficulty: 0.8, BatchSize: 10, NewRatio: 0.3, IntervalScale: 1.0}, 0.9, cfg, now)

	c := GenerateSWD(similar, swd, cfg, now)
	if c.Strategy.Difficulty <= 0 {
		t.Errorf("expected nonzero difficulty from a similar-state match, got %v", c.Strategy.Difficulty)
	}
}
