package memory

import (
	"testing"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestLevelUpAfterCorrectStreak(t *testing.T) {
	cfg := amas.DefaultConfig().MemoryModel
	state := NewWordMasteryState("w1")
	now := time.Now()
	for i := 0; i < 5; i++ {
		_ = UpdateMastery(&state, true, 0.95, 1.0, cfg.BaseDesiredRetention, cfg, now.Add(time.Duration(i)*time.Minute))
	}
	if state.MasteryLevel != amas.MasteryReviewing && state.MasteryLevel != amas.MasteryMastered {
		t.Errorf("expected REVIEWING or MASTERED after a correct streak, got %v", state.MasteryLevel)
	}
}

func TestLongUntouchedWordBecomesForgotten(t *testing.T) {
	cfg := amas.DefaultConfig().MemoryModel
	state := NewWordMasteryState("w1")
	now := time.Now()
	for i := 0; i < 5; i++ {
		_ = UpdateMastery(&state, true, 0.95, 1.0, cfg.BaseDesiredRetention, cfg, now.Add(time.Duration(i)*time.Minute))
	}
	if state.MasteryLevel == amas.MasteryNew {
		t.Fatal("setup failed: expected a non-NEW level before the decay check")
	}

	ApplyDecay(&state, cfg, now.Add(365*24*time.Hour))
	if state.MasteryLevel != amas.MasteryForgotten {
		t.Errorf("expected FORGOTTEN after a year of no review, got %v", state.MasteryLevel)
	}
}

func TestNewWordStaysNewUntilFirstAttempt(t *testing.T) {
	state := NewWordMasteryState("w1")
	if state.MasteryLevel != amas.MasteryNew {
		t.Errorf("expected NEW for an untested word, got %v", state.MasteryLevel)
	}
}
