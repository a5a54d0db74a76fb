package decision

import (
	"math"
	"math/rand"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

const unexploredBinScore = 1e6

// BinStats is one bucket of a value range (difficulty or new-ratio) with
// the running average reward and variance observed when strategies
// landed in that bucket.
type BinStats struct {
	RangeStart float64 `json:"rangeStart"`
	RangeEnd   float64 `json:"rangeEnd"`
	Count      uint64  `json:"count"`
	AvgReward  float64 `json:"avgReward"`
	Variance   float64 `json:"variance"`
}

func newBinStats(start, end float64) BinStats {
	return BinStats{RangeStart: start, RangeEnd: end}
}

func (b BinStats) midpoint() float64 {
	return (b.RangeStart + b.RangeEnd) / 2.0
}

// IgeState is the interval-gain-estimator bandit's memory: per-bucket
// reward statistics for difficulty and new-ratio, independently.
type IgeState struct {
	DifficultyBins     []BinStats `json:"difficultyBins"`
	RatioBins          []BinStats `json:"ratioBins"`
	TotalExplorations  uint64     `json:"totalExplorations"`
}

// NewIgeState returns the bandit's initial bucketing: five difficulty
// quintiles and four new-ratio quartiles.
func NewIgeState() IgeState {
	return IgeState{
		DifficultyBins: []BinStats{
			newBinStats(0.0, 0.2), newBinStats(0.2, 0.4), newBinStats(0.4, 0.6),
			newBinStats(0.6, 0.8), newBinStats(0.8, 1.0),
		},
		RatioBins: []BinStats{
			newBinStats(0.0, 0.25), newBinStats(0.25, 0.5), newBinStats(0.5, 0.75), newBinStats(0.75, 1.0),
		},
	}
}

// GenerateIGE picks the difficulty and new-ratio bucket with the highest
// upper-confidence-bound reward estimate, favoring unexplored buckets
// until every bucket has been sampled at least once.
func GenerateIGE(state IgeState, cfg amas.IGEConfig) amas.DecisionCandidate {
	diffTotal := math.Max(sumCounts(state.DifficultyBins), 1)
	ratioTotal := math.Max(sumCounts(state.RatioBins), 1)

	bestDiff := bestBin(state.DifficultyBins, diffTotal, cfg.UCBConfidenceCoeff, newBinStats(0.4, 0.6))
	bestRatio := bestBin(state.RatioBins, ratioTotal, cfg.UCBConfidenceCoeff, newBinStats(0.25, 0.5))

	return amas.DecisionCandidate{
		AlgorithmID: amas.AlgorithmIGE,
		Strategy: amas.StrategyParams{
			Difficulty:    clampUnit(bestDiff.midpoint()),
			BatchSize:     cfg.BatchSize,
			NewRatio:      clampUnit(bestRatio.midpoint()),
			IntervalScale: cfg.IntervalScale,
		},
		Confidence:  cfg.DefaultConfidence,
		Explanation: "IGE exploration strategy",
	}
}

func sumCounts(bins []BinStats) float64 {
	var total uint64
	for _, b := range bins {
		total += b.Count
	}
	return float64(total)
}

func ucb(bin BinStats, total, ucbCoeff float64) float64 {
	if bin.Count == 0 {
		// Unexplored buckets get a tiny random nudge to break ties rather
		// than always picking the first unexplored bucket in index order.
		return unexploredBinScore + rand.Float64()*0.01
	}
	count := float64(bin.Count)
	return bin.AvgReward + math.Sqrt(ucbCoeff*math.Log(total)/count)
}

func bestBin(bins []BinStats, total, ucbCoeff float64, fallback BinStats) BinStats {
	if len(bins) == 0 {
		return fallback
	}
	best := bins[0]
	bestScore := ucb(best, total, ucbCoeff)
	for _, b := range bins[1:] {
		score := ucb(b, total, ucbCoeff)
		if score > bestScore {
			best, bestScore = b, score
		}
	}
	return best
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

// UpdateIGE folds one observed (strategy, reward) pair into whichever
// difficulty and new-ratio buckets the strategy landed in, via Welford's
// online mean/variance update.
func UpdateIGE(state *IgeState, strategy amas.StrategyParams, reward float64) {
	if idx := findBin(state.DifficultyBins, strategy.Difficulty); idx >= 0 {
		updateBin(&state.DifficultyBins[idx], reward)
	}
	if idx := findBin(state.RatioBins, strategy.NewRatio); idx >= 0 {
		updateBin(&state.RatioBins[idx], reward)
	}
	state.TotalExplorations++
}

func findBin(bins []BinStats, value float64) int {
	clamped := clampUnit(value)
	last := len(bins) - 1
	for i, b := range bins {
		if clamped >= b.RangeStart && (clamped < b.RangeEnd || i == last) {
			return i
		}
	}
	return -1
}

func updateBin(bin *BinStats, reward float64) {
	oldAvg := bin.AvgReward
	oldCount := float64(bin.Count)
	bin.Count++
	n := float64(bin.Count)
	bin.AvgReward += (reward - bin.AvgReward) / n
	m2 := bin.Variance * math.Max(oldCount-1.0, 0.0)
	newM2 := m2 + (reward-oldAvg)*(reward-bin.AvgReward)
	if n > 1.0 {
		bin.Variance = newM2 / (n - 1.0)
	} else {
		bin.Variance = 0.0
	}
}
