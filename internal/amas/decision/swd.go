package decision

import (
	"math"
	"time"

	"github.com/Heartcoolman/wordforge-sub000/internal/amas"
)

const (
	swdDecayHalfLifeDays      = 7.0
	swdConfidenceMin          = 0.2
	swdConfidenceMax          = 0.9
	swdNormalizationRef       = 1_000_000.0
	swdNegativeExperienceWeight = 0.3
)

// UserStateSnapshot is the slice of UserState similarity-weighted
// decision compares new events against.
type UserStateSnapshot struct {
	Attention       float64 `json:"attention"`
	Fatigue         float64 `json:"fatigue"`
	Motivation      float64 `json:"motivation"`
	TotalEventCount uint64  `json:"totalEventCount"`
}

// StrategyRewardEntry is one past (state, strategy, reward) observation.
type StrategyRewardEntry struct {
	UserStateSnapshot UserStateSnapshot     `json:"userStateSnapshot"`
	Strategy          amas.StrategyParams   `json:"strategy"`
	Reward            float64               `json:"reward"`
	Timestamp         time.Time             `json:"timestamp"`
}

// SwdState is the similarity-weighted-decision algorithm's bounded
// history of past observations.
type SwdState struct {
	StrategyHistory []StrategyRewardEntry `json:"strategyHistory"`
}

// GenerateSWD proposes a strategy by averaging every past observation,
// weighted by how similar the learner's current state was to the
// observation's state and by how recently it was recorded; observations
// that scored poorly are downweighted rather than discarded outright.
func GenerateSWD(state amas.UserState, swd SwdState, cfg amas.SWDConfig, now time.Time) amas.DecisionCandidate {
	if len(swd.StrategyHistory) == 0 {
		return swdFallback(cfg.FallbackConfidence)
	}

	var difficultySum, batchSizeSum, newRatioSum, intervalScaleSum, totalWeight float64
	var reviewVotesFor, reviewVotesAgainst float64

	halfLife := swdDecayHalfLifeDays * 24 * 3600
	for _, entry := range swd.StrategyHistory {
		sim := similarity(state, entry.UserStateSnapshot)
		ageSecs := now.Sub(entry.Timestamp).Seconds()
		if ageSecs < 0 {
			ageSecs = 0
		}
		timeDecay := math.Exp(-ageSecs * math.Ln2 / halfLife)
		weight := sim * timeDecay

		if entry.Reward <= cfg.HistoryFilterThreshold {
			weight *= swdNegativeExperienceWeight
		}

		totalWeight += weight
		difficultySum += entry.Strategy.Difficulty * weight
		batchSizeSum += float64(entry.Strategy.BatchSize) * weight
		newRatioSum += entry.Strategy.NewRatio * weight
		intervalScaleSum += entry.Strategy.IntervalScale * weight

		if entry.Strategy.ReviewMode {
			reviewVotesFor += weight
		} else {
			reviewVotesAgainst += weight
		}
	}

	if totalWeight <= 0 {
		return swdFallback(cfg.FallbackConfidence)
	}

	strategy := amas.StrategyParams{
		Difficulty:    clampUnit(difficultySum / totalWeight),
		BatchSize:     maxU32(uint32(math.Round(batchSizeSum/totalWeight)), 1),
		NewRatio:      clampUnit(newRatioSum / totalWeight),
		IntervalScale: math.Max(intervalScaleSum/totalWeight, 0.1),
		ReviewMode:    reviewVotesFor > reviewVotesAgainst,
	}

	confidence := clampRange(totalWeight/float64(len(swd.StrategyHistory)), swdConfidenceMin, swdConfidenceMax)

	return amas.DecisionCandidate{
		AlgorithmID: amas.AlgorithmSWD,
		Strategy:    strategy,
		Confidence:  confidence,
		Explanation: "Similarity-weighted strategy",
	}
}

// UpdateSWD appends the latest observation and trims the history back to
// config's cap, oldest entries first.
func UpdateSWD(swd *SwdState, state amas.UserState, strategy amas.StrategyParams, reward float64, cfg amas.SWDConfig, now time.Time) {
	swd.StrategyHistory = append(swd.StrategyHistory, StrategyRewardEntry{
		UserStateSnapshot: UserStateSnapshot{
			Attention:       state.Attention,
			Fatigue:         state.Fatigue,
			Motivation:      state.Motivation,
			TotalEventCount: state.TotalEventCount,
		},
		Strategy:  strategy,
		Reward:    reward,
		Timestamp: now,
	})

	if len(swd.StrategyHistory) > cfg.MaxHistorySize {
		removeCount := len(swd.StrategyHistory) - cfg.MaxHistorySize
		swd.StrategyHistory = swd.StrategyHistory[removeCount:]
	}
}

func similarity(current amas.UserState, history UserStateSnapshot) float64 {
	maxLn := math.Log1p(swdNormalizationRef)
	currentEventsNorm := math.Log1p(float64(current.TotalEventCount)) / maxLn
	historyEventsNorm := math.Log1p(float64(history.TotalEventCount)) / maxLn
	distance := math.Sqrt(
		sq(current.Attention-history.Attention) +
			sq(current.Fatigue-history.Fatigue) +
			sq(current.Motivation-history.Motivation) +
			sq(currentEventsNorm-historyEventsNorm))
	return 1.0 / (1.0 + distance)
}

func sq(v float64) float64 { return v * v }

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func swdFallback(confidence float64) amas.DecisionCandidate {
	return amas.DecisionCandidate{
		AlgorithmID: amas.AlgorithmSWD,
		Strategy:    amas.DefaultStrategyParams(),
		Confidence:  confidence,
		Explanation: "SWD fallback",
	}
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
