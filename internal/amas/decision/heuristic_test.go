package decision

import (
	"testing"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestHighFatigueLowersDifficulty(t *testing.T) {
	state := amas.UserState{Fatigue: 0.95}
	feature := amas.FeatureVector{
		Accuracy:      1.0,
		ResponseSpeed: 0.9,
		Quality:       0.9,
		Engagement:    0.8,
	}

	c := GenerateHeuristic(state, feature, amas.DefaultConfig())
	if c.Strategy.Difficulty > 0.4 {
		t.Errorf("expected difficulty <= 0.4 under high fatigue, got %v", c.Strategy.Difficulty)
	}
	if c.Strategy.BatchSize > 5 {
		t.Errorf("expected batch size <= 5 under high fatigue, got %v", c.Strategy.BatchSize)
	}
}

func TestLowAttentionForcesReviewMode(t *testing.T) {
	state := amas.UserState{Attention: 0.1, TotalEventCount: 50}
	c := GenerateHeuristic(state, amas.FeatureVector{}, amas.DefaultConfig())
	if !c.Strategy.ReviewMode {
		t.Error("expected review mode under low attention")
	}
	if c.Strategy.NewRatio != 0.0 {
		t.Errorf("expected new ratio 0 under low attention, got %v", c.Strategy.NewRatio)
	}
}
