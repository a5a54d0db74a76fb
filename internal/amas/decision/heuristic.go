// Package decision implements the independent strategy-proposing
// algorithms the ensemble blends: a rule-based heuristic, an
// interval-gain-estimator multi-armed bandit (IGE), and a
// similarity-weighted-decision nearest-neighbor algorithm (SWD).
package decision

import (
	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

// GenerateHeuristic produces a rule-based strategy proposal directly from
// the current psychometric state and this event's features, with no
// learned parameters: high fatigue, low attention, low accuracy, and low
// motivation each pull the default strategy down a defined amount; fast,
// accurate answers raise difficulty; and a brand-new learner gets a fixed
// starter strategy.
func GenerateHeuristic(state amas.UserState, feature amas.FeatureVector, cfg amas.Config) amas.DecisionCandidate {
	strategy := amas.DefaultStrategyParams()

	if state.Fatigue > cfg.Constraints.HighFatigueThreshold {
		strategy.Difficulty = min64(strategy.Difficulty, 0.4)
		strategy.BatchSize = minU32(strategy.BatchSize, 5)
		strategy.NewRatio = min64(strategy.NewRatio, 0.1)
	}

	if state.Attention < cfg.Constraints.LowAttentionThreshold {
		strategy.ReviewMode = true
		strategy.NewRatio = 0.0
	}

	if feature.Accuracy > 0.5 && feature.ResponseSpeed > 0.7 {
		strategy.Difficulty = min64(strategy.Difficulty+0.1, 1.0)
	}

	if feature.Accuracy < 0.5 {
		strategy.Difficulty = max64(strategy.Difficulty-0.15, 0.1)
		strategy.NewRatio = max64(strategy.NewRatio-0.1, 0.0)
	}

	if state.Motivation < cfg.Constraints.LowMotivationThreshold {
		strategy.Difficulty = max64(strategy.Difficulty-0.1, 0.2)
		strategy.BatchSize = minU32(strategy.BatchSize, 8)
	}

	if state.TotalEventCount < 10 {
		strategy.Difficulty = 0.3
		strategy.BatchSize = 5
		strategy.NewRatio = 0.5
	}

	return amas.DecisionCandidate{
		AlgorithmID: amas.AlgorithmHeuristic,
		Strategy:    strategy,
		Confidence:  heuristicConfidence(state),
		Explanation: "Rule-based strategy",
	}
}

func heuristicConfidence(state amas.UserState) float64 {
	const base = 0.7
	decay := min64(float64(state.TotalEventCount)/200.0, 0.5)
	return max64(base-decay, 0.2)
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
