package decision

import (
	"testing"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestGenerateIGEProducesValidStrategy(t *testing.T) {
	cfg := amas.DefaultConfig().IGE
	c := GenerateIGE(NewIgeState(), cfg)
	if c.Strategy.Difficulty < 0 || c.Strategy.Difficulty > 1 {
		t.Errorf("difficulty out of range: %v", c.Strategy.Difficulty)
	}
	if c.AlgorithmID != amas.AlgorithmIGE {
		t.Errorf("expected algorithm id %q, got %q", amas.AlgorithmIGE, c.AlgorithmID)
	}
}

func TestUpdateIGEIncrementsExplorations(t *testing.T) {
	state := NewIgeState()
	UpdateIGE(&state, amas.StrategyParams{Difficulty: 0.5, NewRatio: 0.3}, 0.8)
	if state.TotalExplorations != 1 {
		t.Errorf("expected 1 exploration, got %d", state.TotalExplorations)
	}
	found := false
	for _, b := range state.DifficultyBins {
		if b.Count > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected a difficulty bin to be updated")
	}
}
