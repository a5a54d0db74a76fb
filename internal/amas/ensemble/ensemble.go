// Package ensemble hardcodes a trust-weighted blend of exactly three
// decision algorithms (heuristic, IGE, SWD). The weight normalization,
// trust-score bookkeeping, and the ensemble.min_weight config invariant
// (3*min_weight <= 1.0) all assume exactly these three participants;
// adding a fourth requires updating TrustScores, Weights, config
// validation, and UpdateTrust together.
package ensemble

import (
	"log/slog"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

// TrustScores is the ensemble's per-algorithm running trust, in [0,1],
// nudged toward 1 by good outcomes and toward 0 by bad ones.
type TrustScores struct {
	Heuristic float64 `json:"heuristic"`
	IGE       float64 `json:"ige"`
	SWD       float64 `json:"swd"`
}

// DefaultTrustScores starts every algorithm at equal, neutral trust.
func DefaultTrustScores() TrustScores {
	return TrustScores{Heuristic: 0.5, IGE: 0.5, SWD: 0.5}
}

// Weights blends each algorithm's configured base weight with its earned
// trust score. The trust contribution is zero until WarmupSamples, then
// ramps in linearly (one unit per BlendScale further samples, capped at
// BlendMax), so a brand-new user isn't immediately at the mercy of an
// unproven trust score.
func Weights(totalSamples uint64, trust TrustScores, cfg amas.EnsembleConfig) map[amas.AlgorithmID]float64 {
	var blend float64
	if totalSamples >= cfg.WarmupSamples {
		raw := float64(totalSamples-cfg.WarmupSamples) / cfg.BlendScale
		blend = min64(raw, cfg.BlendMax)
	}

	wH := max64((1.0-blend)*cfg.BaseWeightHeuristic+blend*trust.Heuristic, cfg.MinWeight)
	wI := max64((1.0-blend)*cfg.BaseWeightIGE+blend*trust.IGE, cfg.MinWeight)
	wS := max64((1.0-blend)*cfg.BaseWeightSWD+blend*trust.SWD, cfg.MinWeight)

	total := wH + wI + wS

	return map[amas.AlgorithmID]float64{
		amas.AlgorithmHeuristic: wH / total,
		amas.AlgorithmIGE:       wI / total,
		amas.AlgorithmSWD:       wS / total,
	}
}

// WeightsForCandidates restricts Weights to the algorithms that actually
// produced a candidate this round (a disabled feature flag means its
// algorithm never ran), re-normalizing so the surviving weights still sum
// to 1.
func WeightsForCandidates(candidates []amas.DecisionCandidate, totalSamples uint64, trust TrustScores, cfg amas.EnsembleConfig) map[amas.AlgorithmID]float64 {
	all := Weights(totalSamples, trust, cfg)

	present := make(map[amas.AlgorithmID]bool, len(candidates))
	for _, c := range candidates {
		present[c.AlgorithmID] = true
	}

	filtered := make(map[amas.AlgorithmID]float64, len(present))
	var total float64
	for id, w := range all {
		if present[id] {
			filtered[id] = w
			total += w
		}
	}
	if total > 0 {
		for id := range filtered {
			filtered[id] /= total
		}
	}
	return filtered
}

// Merge blends every candidate's strategy by its ensemble weight into one
// StrategyParams. A candidate whose algorithm has no entry in weights
// (shouldn't happen once WeightsForCandidates is used correctly) logs a
// warning and contributes nothing rather than panicking.
func Merge(candidates []amas.DecisionCandidate, weights map[amas.AlgorithmID]float64, logger *slog.Logger) amas.StrategyParams {
	var difficulty, batchSizeF, newRatio, intervalScale float64
	var reviewVotesFor, reviewVotesAgainst float64

	for _, c := range candidates {
		w, ok := weights[c.AlgorithmID]
		if !ok {
			if logger != nil {
				logger.Warn("missing weight in ensemble merge, defaulting to 0", "algorithm", c.AlgorithmID)
			}
			w = 0
		}
		difficulty += w * c.Strategy.Difficulty
		batchSizeF += w * float64(c.Strategy.BatchSize)
		newRatio += w * c.Strategy.NewRatio
		intervalScale += w * c.Strategy.IntervalScale
		if c.Strategy.ReviewMode {
			reviewVotesFor += w
		} else {
			reviewVotesAgainst += w
		}
	}

	return amas.StrategyParams{
		Difficulty:    clampUnit(difficulty),
		BatchSize:     maxU32(uint32(roundHalfAwayFromZero(batchSizeF)), 1),
		NewRatio:      clampUnit(newRatio),
		IntervalScale: max64(intervalScale, 0.1),
		ReviewMode:    reviewVotesFor > reviewVotesAgainst,
	}
}

// UpdateTrust nudges one algorithm's trust score toward the outcome of
// this round's reward, normalized from [-1,1] to [0,1] so a negative
// reward actively lowers trust rather than merely failing to raise it.
// Algorithm IDs outside {heuristic, ige, swd} are no-ops.
func UpdateTrust(trust *TrustScores, algorithmID amas.AlgorithmID, reward, learningRate float64) {
	var score *float64
	switch algorithmID {
	case amas.AlgorithmHeuristic:
		score = &trust.Heuristic
	case amas.AlgorithmIGE:
		score = &trust.IGE
	case amas.AlgorithmSWD:
		score = &trust.SWD
	default:
		return
	}

	normalized := (clampRange(reward, -1, 1) + 1.0) / 2.0
	*score = *score*(1.0-learningRate) + normalized*learningRate
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
