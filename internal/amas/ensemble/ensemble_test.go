package ensemble

import (
	"testing"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

func TestWeightsSumToOne(t *testing.T) {
	cfg := amas.DefaultConfig().Ensemble
	w := Weights(10, DefaultTrustScores(), cfg)
	var sum float64
	for _, v := range w {
		sum += v
	}
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected weights to sum to 1.0, got %v", sum)
	}
}

func TestUpdateTrustIgnoresUnknownAlgorithm(t *testing.T) {
	trust := DefaultTrustScores()
	before := trust
	UpdateTrust(&trust, amas.AlgorithmMastery, 1.0, 0.1)
	if trust != before {
		t.Error("expected trust scores to be unchanged for an unrecognized algorithm id")
	}
}

func TestUpdateTrustMovesTowardPositiveReward(t *testing.T) {
	trust := DefaultTrustScores()
	UpdateTrust(&trust, amas.AlgorithmHeuristic, 1.0, 0.5)
	if trust.Heuristic <= 0.5 {
		t.Errorf("expected trust to rise after a positive reward, got %v", trust.Heuristic)
	}
}

func TestMergeProducesBoundedStrategy(t *testing.T) {
	candidates := []amas.DecisionCandidate{
		{AlgorithmID: amas.AlgorithmHeuristic, Strategy: amas.StrategyParams{Difficulty: 0.9, BatchSize: 10, NewRatio: 0.5, IntervalScale: 1.0}},
		{AlgorithmID: amas.AlgorithmIGE, Strategy: amas.StrategyParams{Difficulty: 0.1, BatchSize: 5, NewRatio: 0.2, IntervalScale: 0.5}},
	}
	weights := map[amas.AlgorithmID]float64{amas.AlgorithmHeuristic: 0.6, amas.AlgorithmIGE: 0.4}
	merged := Merge(candidates, weights, nil)
	if merged.Difficulty < 0 || merged.Difficulty > 1 {
		t.Errorf("merged difficulty out of range: %v", merged.Difficulty)
	}
	if merged.BatchSize < 1 {
		t.Errorf("expected batch size >= 1, got %v", merged.BatchSize)
	}
}
